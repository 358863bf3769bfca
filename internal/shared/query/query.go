// Package query parses client list requests into a normalized descriptor:
// pagination, ordered sort tokens, and the leftover equality filters.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"stayhub-backend/internal/shared/apperror"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	paramPage     = "page"
	paramPageSize = "pageSize"
	paramOrder    = "order"
)

const (
	DirAsc  = "ASC"
	DirDesc = "DESC"
)

// Options is the normalized list descriptor consumed by the store.
// Filters holds every query key that is not page/pageSize/order; those keys
// become equality constraints downstream, exactly as supplied.
type Options struct {
	Page     int
	PageSize int
	Order    []string
	Filters  map[string]string
}

func Default() *Options {
	return &Options{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		Filters:  map[string]string{},
	}
}

// Parse builds Options from raw URL query values. Sort fields are checked
// against the endpoint's allow-list; violations are collected per field and
// rejected before any service sees the request.
func Parse(values url.Values, allowedSort []string) (*Options, error) {
	opts := Default()
	violations := validation.Errors{}

	if raw := values.Get(paramPage); raw != "" {
		page, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			violations[paramPage] = fmt.Errorf("must be an integer")
		case page < 1:
			violations[paramPage] = fmt.Errorf("must be greater than or equal to 1")
		default:
			opts.Page = page
		}
	}

	if raw := values.Get(paramPageSize); raw != "" {
		size, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			violations[paramPageSize] = fmt.Errorf("must be an integer")
		case size < 1 || size > MaxPageSize:
			violations[paramPageSize] = fmt.Errorf("must be between 1 and %d", MaxPageSize)
		default:
			opts.PageSize = size
		}
	}

	for i, token := range values[paramOrder] {
		if err := validateOrderToken(token, allowedSort); err != nil {
			violations[fmt.Sprintf("%s[%d]", paramOrder, i)] = err
			continue
		}
		opts.Order = append(opts.Order, token)
	}

	// Leftover keys become equality filters. Load-bearing: resource
	// policies and the store rely on this pass-through.
	for key, vals := range values {
		if key == paramPage || key == paramPageSize || key == paramOrder {
			continue
		}
		if len(vals) > 0 {
			opts.Filters[key] = vals[0]
		}
	}

	if len(violations) > 0 {
		return nil, apperror.Validation("invalid list request", violationDetails(violations))
	}

	return opts, nil
}

func validateOrderToken(token string, allowed []string) error {
	field, dir, found := strings.Cut(token, ":")
	if !found || field == "" {
		return fmt.Errorf("must be in field:direction format")
	}
	if dir != DirAsc && dir != DirDesc {
		return fmt.Errorf("direction must be ASC or DESC")
	}
	for _, a := range allowed {
		if a == field {
			return nil
		}
	}
	return fmt.Errorf("field %q is not sortable", field)
}

// SplitToken cuts an order token on the first colon only, so field names
// containing colons keep everything after the first cut as direction.
func SplitToken(token string) (field, direction string) {
	field, direction, _ = strings.Cut(token, ":")
	return field, direction
}

// PopFilter removes and returns a leftover filter key. Policies use this to
// translate domain parameters before the remainder is applied as equality.
func (o *Options) PopFilter(key string) (string, bool) {
	val, ok := o.Filters[key]
	if ok {
		delete(o.Filters, key)
	}
	return val, ok
}

func (o *Options) SetFilter(key, value string) {
	if o.Filters == nil {
		o.Filters = map[string]string{}
	}
	o.Filters[key] = value
}

func (o *Options) Skip() int64 {
	return int64((o.Page - 1) * o.PageSize)
}

func (o *Options) Limit() int64 {
	return int64(o.PageSize)
}

func violationDetails(errs validation.Errors) map[string]any {
	details := make(map[string]any, len(errs))
	for field, err := range errs {
		details[field] = err.Error()
	}
	return details
}
