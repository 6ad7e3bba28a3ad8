package analytics

import (
	"math"
	"sort"
	"strconv"

	"github.com/dvloznov/statement-insight/internal/domain"
)

// The four bucketing functions below are pure: no I/O, no mutation of the
// input batch, batch order preserved. They are safe to run concurrently over
// the same batch.

// RiskMix counts transactions per risk category and converts the counts to
// integer percentages of the batch total, rounded half away from zero.
// All three categories are always present, in low/medium/high order, even
// when a category has no transactions.
func RiskMix(batch []domain.TransactionRecord) []domain.RiskShare {
	counts := map[domain.RiskLevel]int{}
	for _, tx := range batch {
		counts[tx.Risk]++
	}

	total := len(batch)
	if total == 0 {
		total = 1
	}

	mix := make([]domain.RiskShare, 0, 3)
	for _, level := range domain.RiskLevels() {
		pct := int(math.Round(float64(counts[level]) * 100 / float64(total)))
		mix = append(mix, domain.RiskShare{Risk: level, Value: pct})
	}
	return mix
}

// CounterpartyVolume accumulates the absolute transaction amount per
// counterparty and returns the top four, descending by volume. Ties keep the
// first-seen counterparty first. Values are rounded to 2 decimals.
func CounterpartyVolume(batch []domain.TransactionRecord) []domain.NameValue {
	totals := map[string]float64{}
	var order []string
	for _, tx := range batch {
		if _, seen := totals[tx.Counterparty]; !seen {
			order = append(order, tx.Counterparty)
		}
		totals[tx.Counterparty] += math.Abs(tx.Amount)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})
	if len(order) > 4 {
		order = order[:4]
	}

	volume := make([]domain.NameValue, 0, len(order))
	for _, name := range order {
		volume = append(volume, domain.NameValue{
			Name:  name,
			Value: math.Round(totals[name]*100) / 100,
		})
	}
	return volume
}

// trendMonths is the fixed second-half-of-year label set shown on the
// counterparty trend chart.
var trendMonths = []struct {
	month int
	label string
}{
	{7, "Jul"}, {8, "Aug"}, {9, "Sep"}, {10, "Oct"}, {11, "Nov"}, {12, "Dec"},
}

// CounterpartyTrend counts operations per calendar month across the fixed
// Jul–Dec label set. Records whose date does not parse are skipped.
// smoothingStep, when non-zero, adds step*labelIndex to each month so sparse
// demo batches do not render as a flat line; production callers should leave
// it at zero.
func CounterpartyTrend(batch []domain.TransactionRecord, smoothingStep int) []domain.MonthCount {
	counts := map[int]int{}
	for _, tx := range batch {
		date, err := domain.ParseRecordDate(tx.Date)
		if err != nil {
			continue
		}
		counts[int(date.Month())]++
	}

	trend := make([]domain.MonthCount, 0, len(trendMonths))
	for idx, m := range trendMonths {
		trend = append(trend, domain.MonthCount{
			Month:      m.label,
			Operations: counts[m.month] + smoothingStep*idx,
		})
	}
	return trend
}

// CounterpartyVelocity buckets records by ISO calendar week and reports
// new-partner counts per week in ascending week order. Week labels are a
// 1-based sequence ("Week 1", "Week 2", ...), not the ISO week number.
// Records with unparseable dates are skipped; if nothing parses, a single
// default row is returned so the chart is never empty. Callers must read an
// all-default result as "insufficient date data", not as zero activity.
func CounterpartyVelocity(batch []domain.TransactionRecord) []domain.WeekCount {
	counts := map[int]int{}
	for _, tx := range batch {
		date, err := domain.ParseRecordDate(tx.Date)
		if err != nil {
			continue
		}
		year, week := date.ISOWeek()
		counts[year*100+week]++
	}

	if len(counts) == 0 {
		return []domain.WeekCount{{Week: "Week 1", NewPartners: 4, Alerts: 1}}
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	velocity := make([]domain.WeekCount, 0, len(keys))
	for idx, k := range keys {
		count := counts[k]
		alerts := count / 3
		if alerts < 1 {
			alerts = 1
		}
		velocity = append(velocity, domain.WeekCount{
			Week:        "Week " + strconv.Itoa(idx+1),
			NewPartners: count,
			Alerts:      alerts,
		})
	}
	return velocity
}
