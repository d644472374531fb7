package core

import "strings"

// MonthKey extracts the YYYY-MM aggregation key from a date string: the
// first two dash-separated components. ok is false when the date has fewer
// than two components, which callers treat as malformed.
func MonthKey(date string) (key string, ok bool) {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[0] + "-" + parts[1], true
}

// Aggregate buckets events by month and category, summing amounts in
// cents. Events with malformed dates are excluded rather than failing the
// whole aggregation; totals are otherwise exact and independent of input
// order. An empty input yields an empty, non-nil map.
func Aggregate(events []Event) map[string]map[string]Money {
	grouped := make(map[string]map[string]Money)
	for _, e := range events {
		month, ok := MonthKey(e.Date)
		if !ok {
			continue
		}
		byCategory, ok := grouped[month]
		if !ok {
			byCategory = make(map[string]Money)
			grouped[month] = byCategory
		}
		total := byCategory[e.Category]
		total.Cents += e.Amount.Cents
		byCategory[e.Category] = total
	}
	return grouped
}
