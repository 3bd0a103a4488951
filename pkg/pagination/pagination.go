// Package pagination slices ordered collections into numbered pages and describes
// where a page sits within the whole. The server uses Paginate to build list responses;
// clients decode the same Meta to drive their fetch loops.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPerPage is applied server-side when per_page is missing or not positive.
	DefaultPerPage = 10
	// MaxPerPage caps per_page; larger requests are silently clamped.
	MaxPerPage = 50
	// ClientDefaultPerPage is what fetch loops ask for when the caller does not choose.
	ClientDefaultPerPage = 20
	// MaxPage is the largest page whose offset fits in an int at any per_page.
	MaxPage = math.MaxInt/MaxPerPage + 1
)

// ErrPageOutOfRange is returned by Check when a page past the last one is requested.
var ErrPageOutOfRange = errors.New("page out of range")

// Params is a page request.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Meta describes a page relative to the full collection.
// Count is the unpaginated total, not the size of Data.
type Meta struct {
	Count      int  `json:"count"`
	Page       int  `json:"page"`
	TotalPages int  `json:"total_pages"`
	PerPage    int  `json:"per_page"`
	PrevPage   *int `json:"prev_page,omitempty"`
	NextPage   *int `json:"next_page,omitempty"`
}

// Page is one slice of a collection plus its metadata.
type Page[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// Normalize fills defaults, clamps per_page to MaxPerPage and page to MaxPage.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the index of the first element of the page. Params must be normalized.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParseParams reads raw query values. Empty values fall back to defaults;
// anything that is not an integer, and pages above MaxPage, are reported under their query name.
func ParseParams(pageRaw, perPageRaw string) (Params, error) {
	var p Params
	perr := &ParamError{}
	if s := strings.TrimSpace(pageRaw); s != "" {
		n, err := parseInt(s)
		switch {
		case err != nil:
			perr.add("page", err.Error())
		case n > MaxPage:
			perr.add("page", fmt.Sprintf("must be at most %d", MaxPage))
		}
		p.Page = n
	}
	if s := strings.TrimSpace(perPageRaw); s != "" {
		n, err := parseInt(s)
		if err != nil {
			perr.add("per_page", err.Error())
		}
		p.PerPage = n
	}
	if len(perr.Fields) > 0 {
		return Params{}, perr
	}
	return p.Normalize(), nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return 0, errors.New("is out of range")
	}
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	return n, nil
}

// ParamError lists query parameters that could not be accepted, with one message per field.
type ParamError struct {
	Fields   []string
	Messages []string
}

func (e *ParamError) add(field, msg string) {
	e.Fields = append(e.Fields, field)
	e.Messages = append(e.Messages, msg)
}

func (e *ParamError) Error() string {
	return "invalid pagination parameters: " + strings.Join(e.Fields, ", ")
}

// TotalPages returns ceil(count/perPage), zero for an empty collection.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// NewMeta computes page metadata for a collection of count elements.
func NewMeta(count int, params Params) Meta {
	p := params.Normalize()
	total := TotalPages(count, p.PerPage)
	m := Meta{
		Count:      count,
		Page:       p.Page,
		TotalPages: total,
		PerPage:    p.PerPage,
	}
	if p.Page > 1 {
		prev := p.Page - 1
		m.PrevPage = &prev
	}
	if p.Page < total {
		next := p.Page + 1
		m.NextPage = &next
	}
	return m
}

// Paginate returns the requested page of elements. A page past the end yields
// empty Data alongside a regular Meta block; use Check to reject it instead.
func Paginate[T any](elements []T, params Params) Page[T] {
	p := params.Normalize()
	meta := NewMeta(len(elements), p)

	data := make([]T, 0)
	if off := p.Offset(); off < len(elements) {
		end := min(off+p.PerPage, len(elements))
		data = append(data, elements[off:end]...)
	}
	return Page[T]{Meta: meta, Data: data}
}

// Check reports ErrPageOutOfRange when params point past the last page of a
// non-empty collection. Page 1 of an empty collection is always valid.
func Check(count int, params Params) error {
	p := params.Normalize()
	total := TotalPages(count, p.PerPage)
	if total > 0 && p.Page > total {
		return ErrPageOutOfRange
	}
	return nil
}
