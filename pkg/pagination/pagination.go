package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/product-catalog/pkg/errors"
)

// Query parameter names.
const (
	PageParam   = "page"
	SizeParam   = "size"
	SortByParam = "sortBy"
)

// Limits bounds what FromRequest accepts and supplies the defaults for
// missing parameters.
type Limits struct {
	DefaultSize   int
	MaxSize       int
	DefaultSortBy string
}

// DefaultLimits returns page size 10, max size 100, sorted by name.
func DefaultLimits() Limits {
	return Limits{
		DefaultSize:   10,
		MaxSize:       100,
		DefaultSortBy: "name",
	}
}

// Params holds zero-based pagination parameters extracted from query strings.
type Params struct {
	Page   int    `json:"page"`
	Size   int    `json:"size"`
	SortBy string `json:"sortBy"`
}

// Offset is the number of rows to skip for this page.
func (p Params) Offset() int {
	return p.Page * p.Size
}

// FromRequest extracts pagination parameters from an HTTP request. Missing
// parameters take their defaults; malformed or out-of-range values produce an
// InvalidInput error.
func FromRequest(r *http.Request, limits Limits) (Params, error) {
	q := r.URL.Query()
	p := Params{
		Page:   0,
		Size:   limits.DefaultSize,
		SortBy: limits.DefaultSortBy,
	}

	if raw := q.Get(PageParam); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return Params{}, apperrors.InvalidInput(fmt.Sprintf("%s must be a non-negative integer", PageParam))
		}
		p.Page = v
	}

	if raw := q.Get(SizeParam); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > limits.MaxSize {
			return Params{}, apperrors.InvalidInput(fmt.Sprintf("%s must be an integer between 1 and %d", SizeParam, limits.MaxSize))
		}
		p.Size = v
	}

	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return Params{}, apperrors.InvalidInput(fmt.Sprintf("%s is too large for %s %d", PageParam, SizeParam, p.Size))
	}

	if raw := q.Get(SortByParam); raw != "" {
		p.SortBy = raw
	}

	return p, nil
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items         []T
	Number        int
	Size          int
	TotalElements int64
}

// NewPage creates a page for the given params. A nil items slice becomes empty.
func NewPage[T any](items []T, params Params, totalElements int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:         items,
		Number:        params.Page,
		Size:          params.Size,
		TotalElements: totalElements,
	}
}

// TotalPages is ceil(TotalElements / Size).
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	size := int64(p.Size)
	return int((p.TotalElements + size - 1) / size)
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages()
}

// Metadata is the page summary rendered next to list payloads. Values are
// strings on the wire.
type Metadata struct {
	PageNumber    string `json:"pageNumber"`
	NoOfPages     string `json:"noOfPages"`
	HasNext       string `json:"hasNext"`
	TotalElements string `json:"totalElements"`
}

// Metadata summarizes the page for the response envelope.
func (p Page[T]) Metadata() Metadata {
	return Metadata{
		PageNumber:    strconv.Itoa(p.Number),
		NoOfPages:     strconv.Itoa(p.TotalPages()),
		HasNext:       strconv.FormatBool(p.HasNext()),
		TotalElements: strconv.FormatInt(p.TotalElements, 10),
	}
}
