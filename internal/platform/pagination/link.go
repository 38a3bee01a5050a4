package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// LinkHeader builds an RFC 8288 Link header value for the page, keeping the
// other query parameters of the request.
func LinkHeader[T any](path string, query url.Values, limit int, page Page[T]) string {
	var links []string
	add := func(cursor, rel string) {
		if cursor == "" {
			return
		}
		q := url.Values{}
		for k, v := range query {
			q[k] = append([]string(nil), v...)
		}
		q.Set("cursor", cursor)
		q.Set("limit", strconv.Itoa(limit))
		links = append(links, fmt.Sprintf("<%s?%s>; rel=%q", path, q.Encode(), rel))
	}
	add(page.Next, "next")
	add(page.Prev, "prev")
	return strings.Join(links, ", ")
}
