package crawler

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports an element that did not appear within the element
	// timeout.
	ErrNotFound = errors.New("element not found")
	// ErrStale reports a handle whose node is no longer attached to the page.
	ErrStale = errors.New("stale element")
	// ErrTransient reports a UI interaction that failed because of the
	// page's momentary state, such as a click on a node without a box model.
	ErrTransient = errors.New("transient ui failure")
)

// absent reports whether err means an optional step has nothing to do.
func absent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrStale) || errors.Is(err, ErrTransient)
}

type FilterKind int

const (
	FilterSection FilterKind = iota
	FilterType
)

func (k FilterKind) String() string {
	switch k {
	case FilterSection:
		return "section"
	case FilterType:
		return "type"
	default:
		return "unknown"
	}
}

// Field identifies a text node inside a result element.
type Field int

const (
	FieldDate Field = iota
	FieldTitle
	FieldDescription
)

func (f Field) String() string {
	switch f {
	case FieldDate:
		return "date"
	case FieldTitle:
		return "title"
	case FieldDescription:
		return "description"
	default:
		return "unknown"
	}
}

// Option is one entry of a sort or filter dropdown.
type Option struct {
	Label  string
	Value  string
	Choose func(ctx context.Context) error
}

// DateRange is a MM/DD/YYYY range. An empty Start leaves the range open.
type DateRange struct {
	Start string
	End   string
}

// Result is a handle to one search hit on the page.
type Result interface {
	Text(ctx context.Context, field Field) (string, error)
	// Image returns the thumbnail source URL and its rendered PNG bitmap.
	Image(ctx context.Context) (src string, png []byte, err error)
}

// Site drives the search page of one news site. Implementations hold the
// site's selectors; the search flow itself lives in SearchController.
type Site interface {
	DismissOverlay(ctx context.Context) error
	OpenSearch(ctx context.Context) error
	SubmitSearch(ctx context.Context, phrase string) error
	SortOptions(ctx context.Context) ([]Option, error)
	FilterOptions(ctx context.Context, kind FilterKind) ([]Option, error)
	SetDateRange(ctx context.Context, r DateRange) error
	// ShowMore clicks the "show more" control once. It returns false when
	// the control is not visible.
	ShowMore(ctx context.Context) (bool, error)
	Results(ctx context.Context) ([]Result, error)
	Close() error
}

// Driver opens a browser session on a URL.
type Driver interface {
	Open(ctx context.Context, url string) (Site, error)
}
