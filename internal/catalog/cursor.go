package catalog

import "fmt"

// PageCursor tracks server-side pagination progress.
type PageCursor struct {
	Page    int
	Size    int
	HasMore bool
}

func newCursor(size int) PageCursor {
	return PageCursor{Page: 1, Size: size}
}

// landed returns the cursor after page n came back with count raw records.
// A short page ends pagination even when upstream still advertises a next page.
func (c PageCursor) landed(n, count int, upstreamHasMore bool) PageCursor {
	return PageCursor{
		Page:    n,
		Size:    c.Size,
		HasMore: upstreamHasMore && count >= c.Size,
	}
}

// Page is one upstream answer.
type Page struct {
	Records []RawRecord
	// HasMore comes from the pagination relation when upstream sent one,
	// otherwise from whether the page was full.
	HasMore bool
}

// MaxPageSize is the upstream per_page cap.
const MaxPageSize = 100

// ValidateRequest checks the arguments of a page fetch.
func ValidateRequest(owner string, page, size int) error {
	switch {
	case owner == "":
		return fmt.Errorf("%w: owner is empty", ErrInvalidRequest)
	case page < 1:
		return fmt.Errorf("%w: page %d, must be >= 1", ErrInvalidRequest, page)
	case size < 1 || size > MaxPageSize:
		return fmt.Errorf("%w: page size %d, must be within 1..%d", ErrInvalidRequest, size, MaxPageSize)
	}
	return nil
}
