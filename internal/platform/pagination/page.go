package pagination

// Page is one window of an ordered collection. Next and Prev are encoded
// cursors, empty when there is no such page.
type Page[T any] struct {
	Items []T
	Total int
	Next  string
	Prev  string
}

// Paginate returns up to limit items following the cursor position. A cursor
// whose key is no longer present restarts from the beginning.
func Paginate[T any](items []T, cur Cursor, limit int, key func(T) string) Page[T] {
	total := len(items)
	if limit <= 0 {
		limit = DefaultLimit
	}

	start := 0
	if cur.After != "" {
		for i, it := range items {
			if key(it) == cur.After {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, total)

	page := Page[T]{Items: items[start:end], Total: total}
	if end < total {
		page.Next = Cursor{Kind: cur.Kind, After: key(items[end-1])}.Encode()
	}
	switch {
	case start == 0:
	case start <= limit:
		page.Prev = Cursor{Kind: cur.Kind}.Encode()
	default:
		page.Prev = Cursor{Kind: cur.Kind, After: key(items[start-limit-1])}.Encode()
	}
	return page
}
