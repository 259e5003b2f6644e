package formula

import (
	"cmp"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// number converts numeric dynamic types. Checkboxes count as 1 and 0.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// civilDate maps a value to yyyymmdd, ignoring any time of day and zone.
func civilDate(v any) (int, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.Year()*10000 + int(t.Month())*100 + t.Day(), true
	case string:
		s := strings.TrimSpace(t)
		if len(s) >= 10 {
			if d, err := time.Parse("2006-01-02", s[:10]); err == nil {
				return civilDate(d)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// compare orders two non-blank values. Dates win when either side is a
// date value, then numbers, then plain string order.
func compare(a, b any) (int, bool) {
	_, aIsTime := a.(time.Time)
	_, bIsTime := b.(time.Time)
	if aIsTime || bIsTime {
		da, okA := civilDate(a)
		db, okB := civilDate(b)
		if !okA || !okB {
			return 0, false
		}
		return cmp.Compare(da, db), true
	}

	na, okA := number(a)
	nb, okB := number(b)
	switch {
	case okA && okB:
		return cmp.Compare(na, nb), true
	case okA:
		if s, ok := b.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return cmp.Compare(na, f), true
			}
		}
		return 0, false
	case okB:
		if s, ok := a.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return cmp.Compare(f, nb), true
			}
		}
		return 0, false
	}

	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		if da, ok := civilDate(sa); ok {
			if db, ok := civilDate(sb); ok {
				return cmp.Compare(da, db), true
			}
		}
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

// equal is exact for strings; blank only equals blank.
func equal(a, b any) bool {
	blankA, blankB := isBlank(a), isBlank(b)
	if blankA || blankB {
		return blankA && blankB
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return sa == sb
	}
	c, ok := compare(a, b)
	return ok && c == 0
}
