package analytics

import (
	"math"
	"sort"
	"strconv"

	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// groupSum sums TotalSales per key and returns the groups in key order.
// keyFn reports false for rows that belong to no group.
func groupSum(rows Rows, keyFn func(domain.Transaction) (string, bool)) []GroupTotal {
	sums := make(map[string]decimal.Decimal)
	rows.Each(func(tx domain.Transaction) {
		key, ok := keyFn(tx)
		if !ok {
			return
		}
		sums[key] = sums[key].Add(tx.TotalSales)
	})

	out := make([]GroupTotal, 0, len(sums))
	for key, total := range sums {
		out = append(out, GroupTotal{Key: key, TotalSales: total})
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i].Key, out[j].Key) })
	return out
}

// largest keeps the n biggest groups, descending. groups must be in key order;
// the stable sort then breaks ties by key.
func largest(groups []GroupTotal, n int) []GroupTotal {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalSales.GreaterThan(groups[j].TotalSales)
	})
	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// keyLess orders numeric keys numerically, numeric before text, and the
// missing-customer label last.
func keyLess(a, b string) bool {
	if a == domain.MissingCustomerLabel || b == domain.MissingCustomerLabel {
		return b == domain.MissingCustomerLabel && a != b
	}

	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	numA := errA == nil && !math.IsNaN(fa)
	numB := errB == nil && !math.IsNaN(fb)

	switch {
	case numA && numB:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case numA:
		return true
	case numB:
		return false
	default:
		return a < b
	}
}

func sortDaily(days []DailyTotal) {
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
}
