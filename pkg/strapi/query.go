package strapi

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// PublicationState selects published-only or draft-inclusive content.
type PublicationState string

const (
	Live    PublicationState = "live"
	Preview PublicationState = "preview"
)

// PopulateStyle selects how populate paths are written on the wire.
type PopulateStyle int

const (
	// PopulateRepeated writes populate=a&populate=b.
	PopulateRepeated PopulateStyle = iota
	// PopulateIndexed writes populate[0]=a&populate[1]=b (older API versions).
	PopulateIndexed
)

// ParsePopulateStyle maps "repeated" / "indexed" onto a PopulateStyle.
func ParsePopulateStyle(s string) (PopulateStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "repeated":
		return PopulateRepeated, nil
	case "indexed":
		return PopulateIndexed, nil
	}
	return PopulateRepeated, fmt.Errorf("unknown populate style %q", s)
}

func (s PopulateStyle) String() string {
	if s == PopulateIndexed {
		return "indexed"
	}
	return "repeated"
}

// OpEq is the equality operator and the default for filters.
const OpEq = "$eq"

// Filter is one filters[<field>][<op>]=<value> entry.
type Filter struct {
	Field string
	Op    string // defaults to $eq
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Pagination holds the optional pagination parameters. A nil field is not
// sent; a set zero value is.
type Pagination struct {
	Page      *int
	PageSize  *int
	WithCount *bool
	Limit     *int
}

// Int returns a pointer to n.
func Int(n int) *int {
	return &n
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// FetchOptions configures a single content API read. The zero value adds no
// query parameters.
type FetchOptions struct {
	Filters          []Filter
	Sort             []string
	Pagination       *Pagination
	Populate         Populate
	PublicationState PublicationState
}

// single drops the options that only apply to collection reads.
func (o FetchOptions) single() FetchOptions {
	o.Filters = nil
	o.Pagination = nil
	return o
}

// Param is one decoded query parameter.
type Param struct {
	Key   string
	Value string
}

// Params lists the query parameters for opts in wire order: filters, sort,
// pagination, populate, publicationState.
func Params(opts FetchOptions, style PopulateStyle) []Param {
	var params []Param

	for _, f := range opts.Filters {
		if f.Field == "" {
			continue
		}
		value, ok := formatValue(f.Value)
		if !ok {
			continue
		}
		params = append(params, Param{Key: "filters[" + f.Field + "][" + filterOp(f.Op) + "]", Value: value})
	}

	i := 0
	for _, directive := range opts.Sort {
		if directive == "" {
			continue
		}
		params = append(params, Param{Key: "sort[" + strconv.Itoa(i) + "]", Value: directive})
		i++
	}

	if p := opts.Pagination; p != nil {
		if p.Page != nil {
			params = append(params, Param{Key: "pagination[page]", Value: strconv.Itoa(*p.Page)})
		}
		if p.PageSize != nil {
			params = append(params, Param{Key: "pagination[pageSize]", Value: strconv.Itoa(*p.PageSize)})
		}
		if p.WithCount != nil {
			params = append(params, Param{Key: "pagination[withCount]", Value: strconv.FormatBool(*p.WithCount)})
		}
		if p.Limit != nil {
			params = append(params, Param{Key: "pagination[limit]", Value: strconv.Itoa(*p.Limit)})
		}
	}

	params = append(params, populateParams(opts.Populate, style)...)

	if opts.PublicationState != "" {
		params = append(params, Param{Key: "publicationState", Value: string(opts.PublicationState)})
	}

	return params
}

func populateParams(p Populate, style PopulateStyle) []Param {
	// A top-level string goes out as-is, whatever the style.
	if w, ok := p.(Wildcard); ok {
		if w == "" {
			return nil
		}
		return []Param{{Key: "populate", Value: string(w)}}
	}

	paths := FlattenPopulate(p)
	params := make([]Param, 0, len(paths))
	for i, path := range paths {
		key := "populate"
		if style == PopulateIndexed {
			key = "populate[" + strconv.Itoa(i) + "]"
		}
		params = append(params, Param{Key: key, Value: path})
	}
	return params
}

func filterOp(op string) string {
	switch {
	case op == "":
		return OpEq
	case strings.HasPrefix(op, "$"):
		return op
	default:
		return "$" + op
	}
}

// formatValue stringifies a filter value; nil values (including nil
// pointers) report false and are skipped.
func formatValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	v = rv.Interface()

	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case time.Time:
		return val.Format(time.RFC3339), true
	case fmt.Stringer:
		return val.String(), true
	}
	return fmt.Sprint(v), true
}

// BuildQueryString renders opts as "?<params>" using repeated populate
// parameters, or "" when there is nothing to send.
func BuildQueryString(opts FetchOptions) string {
	return BuildQueryStringStyle(opts, PopulateRepeated)
}

// BuildQueryStringStyle is BuildQueryString with an explicit populate style.
func BuildQueryStringStyle(opts FetchOptions, style PopulateStyle) string {
	encoded := Encode(Params(opts, style))
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}

// Encode serializes params in order as application/x-www-form-urlencoded,
// byte-compatible with the WHATWG URLSearchParams serializer.
func Encode(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		formEscape(&b, p.Key)
		b.WriteByte('=')
		formEscape(&b, p.Value)
	}
	return b.String()
}

const upperHex = "0123456789ABCDEF"

func formEscape(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case formSafe(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0F])
		}
	}
}

func formSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '*', c == '-', c == '.', c == '_':
		return true
	}
	return false
}
