package farmos

import (
	"fmt"
	"net/url"
	"strconv"
)

// QueryParams accumulates farmOS query string parameters. Zero-valued and
// unset parameters are omitted from the final query, so composing setters
// in any order yields the same key/value set.
type QueryParams struct {
	// Page is the zero-based page index. A nil Page leaves the server
	// default (page 0) in effect without emitting the parameter.
	Page *int

	// Params holds plain name=value parameters.
	Params map[string]string

	// Bracket holds array parameters emitted as name[]=value.
	Bracket map[string][]string

	// Indexed holds array parameters emitted as name[0]=v0&name[1]=v1.
	Indexed map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Params:  make(map[string]string),
		Bracket: make(map[string][]string),
		Indexed: make(map[string][]string),
	}
}

// WithPage sets the zero-based page index.
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = &page

	return q
}

// WithParam sets a plain parameter. An empty value is ignored, leaving
// the query unchanged.
func (q *QueryParams) WithParam(name, value string) *QueryParams {
	if value == "" {
		return q
	}

	if q.Params == nil {
		q.Params = make(map[string]string)
	}

	q.Params[name] = value

	return q
}

// WithFlag sets a parameter to Drupal's "0"/"1" boolean form.
func (q *QueryParams) WithFlag(name string, value bool) *QueryParams {
	if value {
		return q.WithParam(name, "1")
	}

	return q.WithParam(name, "0")
}

// WithID sets a parameter to a numeric id.
func (q *QueryParams) WithID(name string, id ID) *QueryParams {
	return q.WithParam(name, id.String())
}

// WithBracketParam appends values emitted as name[]=value.
func (q *QueryParams) WithBracketParam(name string, values ...string) *QueryParams {
	if len(values) == 0 {
		return q
	}

	if q.Bracket == nil {
		q.Bracket = make(map[string][]string)
	}

	q.Bracket[name] = append(q.Bracket[name], values...)

	return q
}

// WithIndexedParam appends values emitted as name[0]=v0&name[1]=v1.
func (q *QueryParams) WithIndexedParam(name string, values ...string) *QueryParams {
	if len(values) == 0 {
		return q
	}

	if q.Indexed == nil {
		q.Indexed = make(map[string][]string)
	}

	q.Indexed[name] = append(q.Indexed[name], values...)

	return q
}

// WithIndexedIDs appends ids emitted as name[0]=id0&name[1]=id1.
func (q *QueryParams) WithIndexedIDs(name string, ids ...ID) *QueryParams {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}

	return q.WithIndexedParam(name, values...)
}

// Clone returns a deep copy, so walkers can vary the page parameter
// without mutating the caller's params.
func (q *QueryParams) Clone() *QueryParams {
	clone := NewQueryParams()
	if q == nil {
		return clone
	}

	if q.Page != nil {
		page := *q.Page
		clone.Page = &page
	}

	for name, value := range q.Params {
		clone.Params[name] = value
	}

	for name, values := range q.Bracket {
		clone.Bracket[name] = append([]string(nil), values...)
	}

	for name, values := range q.Indexed {
		clone.Indexed[name] = append([]string(nil), values...)
	}

	return clone
}

// ToValues converts the parameters to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	if q.Page != nil {
		values.Set("page", strconv.Itoa(*q.Page))
	}

	for name, value := range q.Params {
		values.Set(name, value)
	}

	for name, vals := range q.Bracket {
		for _, value := range vals {
			values.Add(name+"[]", value)
		}
	}

	for name, vals := range q.Indexed {
		for i, value := range vals {
			values.Set(fmt.Sprintf("%s[%d]", name, i), value)
		}
	}

	return values
}
