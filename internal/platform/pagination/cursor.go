// Package pagination implements opaque cursor paging over ordered slices and
// the RFC 8288 Link header that advertises neighbouring pages.
package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidCursor is returned for cursors that do not decode or that were
// issued for a different collection.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is a position in a collection: the key of the last item seen.
// Kind ties the cursor to the collection that issued it.
type Cursor struct {
	Kind  string
	After string
}

// Encode returns the URL-safe opaque form.
func (c Cursor) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Kind + ":" + c.After))
}

// DecodeCursor parses s and checks it belongs to kind. The empty string is the
// start of the collection.
func DecodeCursor(s, kind string) (Cursor, error) {
	if s == "" {
		return Cursor{Kind: kind}, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	k, after, ok := strings.Cut(string(b), ":")
	if !ok || k != kind {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{Kind: k, After: after}, nil
}
