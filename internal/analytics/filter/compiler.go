// Package filter compiles untyped filter and date-range input into a safe,
// parameterized PredicateSet. Filter values only ever become bound query
// arguments; they are never spliced into SQL text. The allow-list check
// lives here, not in the repositories that consume the output.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"business-analytics-server/internal/analytics/domain"
)

// Compilation failures. All wrap a domain error kind so the dispatcher can
// classify them with errors.Is.
var (
	ErrInvalidFilterKey       = fmt.Errorf("%w: unknown filter key", domain.ErrValidation)
	ErrInvalidFilterValueType = fmt.Errorf("%w: filter value must be a string or list of strings", domain.ErrValidation)
	ErrInvalidDateFormat      = fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", domain.ErrValidation)
	ErrInvalidDateRange       = fmt.Errorf("%w: date range start is after end", domain.ErrDomain)
)

// DateLayout is the accepted date syntax for DateRange bounds.
const DateLayout = "2006-01-02"

// Filter keys accepted by Compile. Any other key fails compilation.
const (
	KeyCustomerTier    = "customerTier"
	KeyIndustry        = "industry"
	KeyRegion          = "region"
	KeyProductCategory = "productCategory"
	KeyStatus          = "status"
)

var allowedKeys = map[string]bool{
	KeyCustomerTier:    true,
	KeyIndustry:        true,
	KeyRegion:          true,
	KeyProductCategory: true,
	KeyStatus:          true,
}

// DateRange is the optional per-request date window. Bounds are inclusive.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Predicate is one membership constraint: key IN (values...).
type Predicate struct {
	Key    string
	Values []string
}

// PredicateSet is the compiled, safely parameterized representation of
// filters plus date range. It is immutable after Compile.
type PredicateSet struct {
	predicates []Predicate
	start, end time.Time
	hasStart   bool
	hasEnd     bool
}

// Compile validates filters and dateRange and produces a PredicateSet.
// Pure and deterministic: predicates are ordered by key, values keep their
// given order. Absent or empty filters contribute no predicate.
func Compile(filters map[string]any, dateRange DateRange) (PredicateSet, error) {
	var ps PredicateSet

	keys := make([]string, 0, len(filters))
	for key := range filters {
		if !allowedKeys[key] {
			return PredicateSet{}, fmt.Errorf("%w %q", ErrInvalidFilterKey, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		values, err := stringValues(key, filters[key])
		if err != nil {
			return PredicateSet{}, err
		}
		if len(values) == 0 {
			continue
		}
		ps.predicates = append(ps.predicates, Predicate{Key: key, Values: values})
	}

	if s := strings.TrimSpace(dateRange.Start); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return PredicateSet{}, fmt.Errorf("%w: start %q", ErrInvalidDateFormat, s)
		}
		ps.start, ps.hasStart = t, true
	}
	if e := strings.TrimSpace(dateRange.End); e != "" {
		t, err := time.Parse(DateLayout, e)
		if err != nil {
			return PredicateSet{}, fmt.Errorf("%w: end %q", ErrInvalidDateFormat, e)
		}
		ps.end, ps.hasEnd = t, true
	}
	if ps.hasStart && ps.hasEnd && ps.start.After(ps.end) {
		return PredicateSet{}, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, dateRange.Start, dateRange.End)
	}

	return ps, nil
}

// stringValues normalizes a filter value into a list of strings, rejecting
// anything that is not a string or a homogeneous list of strings.
func stringValues(key string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: key %q has %T element", ErrInvalidFilterValueType, key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: key %q is %T", ErrInvalidFilterValueType, key, raw)
	}
}

// Empty reports whether the set carries no predicates and no date bounds.
func (ps PredicateSet) Empty() bool {
	return len(ps.predicates) == 0 && !ps.hasStart && !ps.hasEnd
}

// Predicates returns the compiled membership predicates in key order.
func (ps PredicateSet) Predicates() []Predicate {
	return ps.predicates
}

// Where renders the set as a SQL fragment for one query. cols maps filter
// keys to the qualified column each query binds them to (e.g. "customerTier"
// → "c.customer_tier"); keys without a column are skipped for that query.
// dateCol, when non-empty, receives the date bounds. Placeholders are
// numbered from startArg. The returned clause is either empty or of the
// form "cond AND cond ..."; values appear only in args.
func (ps PredicateSet) Where(cols map[string]string, dateCol string, startArg int) (string, []any) {
	var conds []string
	var args []any
	n := startArg

	for _, p := range ps.predicates {
		col, ok := cols[p.Key]
		if !ok {
			continue
		}
		placeholders := make([]string, len(p.Values))
		for i, v := range p.Values {
			placeholders[i] = fmt.Sprintf("$%d", n)
			args = append(args, v)
			n++
		}
		conds = append(conds, fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")))
	}

	if dateCol != "" {
		if ps.hasStart {
			conds = append(conds, fmt.Sprintf("%s >= $%d", dateCol, n))
			args = append(args, ps.start)
			n++
		}
		if ps.hasEnd {
			conds = append(conds, fmt.Sprintf("%s <= $%d", dateCol, n))
			args = append(args, ps.end)
			n++
		}
	}

	return strings.Join(conds, " AND "), args
}
