package analytics

import (
	"testing"

	"github.com/dvloznov/statement-insight/internal/domain"
)

func tx(counterparty string, amount float64, risk domain.RiskLevel, date string) domain.TransactionRecord {
	return domain.TransactionRecord{
		Counterparty: counterparty,
		Amount:       amount,
		Risk:         risk,
		Date:         date,
	}
}

func TestRiskMix_Scenario(t *testing.T) {
	batch := []domain.TransactionRecord{
		tx("A", 100, domain.RiskLow, "01.10.2025"),
		tx("B", -50, domain.RiskHigh, "02.10.2025"),
		tx("A", 30, domain.RiskLow, "03.10.2025"),
	}

	mix := RiskMix(batch)
	want := []domain.RiskShare{
		{Risk: domain.RiskLow, Value: 67},
		{Risk: domain.RiskMedium, Value: 0},
		{Risk: domain.RiskHigh, Value: 33},
	}

	if len(mix) != len(want) {
		t.Fatalf("RiskMix returned %d entries, want %d", len(mix), len(want))
	}
	for i := range want {
		if mix[i] != want[i] {
			t.Errorf("RiskMix[%d] = %+v, want %+v", i, mix[i], want[i])
		}
	}
}

func TestRiskMix_EmptyBatch(t *testing.T) {
	mix := RiskMix(nil)
	if len(mix) != 3 {
		t.Fatalf("RiskMix(empty) returned %d entries, want 3", len(mix))
	}
	for i, level := range domain.RiskLevels() {
		if mix[i].Risk != level {
			t.Errorf("RiskMix[%d].Risk = %q, want %q", i, mix[i].Risk, level)
		}
		if mix[i].Value != 0 {
			t.Errorf("RiskMix[%d].Value = %d, want 0", i, mix[i].Value)
		}
	}
}

func TestRiskMix_SumsToHundred(t *testing.T) {
	batches := [][]domain.TransactionRecord{
		{tx("A", 1, domain.RiskLow, ""), tx("B", 1, domain.RiskMedium, ""), tx("C", 1, domain.RiskHigh, "")},
		{tx("A", 1, domain.RiskHigh, "")},
		{
			tx("A", 1, domain.RiskLow, ""), tx("B", 1, domain.RiskLow, ""),
			tx("C", 1, domain.RiskMedium, ""), tx("D", 1, domain.RiskMedium, ""),
			tx("E", 1, domain.RiskMedium, ""), tx("F", 1, domain.RiskHigh, ""),
			tx("G", 1, domain.RiskHigh, ""),
		},
	}

	for i, batch := range batches {
		sum := 0
		for _, share := range RiskMix(batch) {
			sum += share.Value
		}
		if sum < 99 || sum > 101 {
			t.Errorf("batch %d: risk mix sums to %d, want 100±1", i, sum)
		}
	}
}

func TestCounterpartyVolume_Scenario(t *testing.T) {
	batch := []domain.TransactionRecord{
		tx("A", 100, domain.RiskLow, ""),
		tx("B", -50, domain.RiskHigh, ""),
		tx("A", 30, domain.RiskLow, ""),
	}

	volume := CounterpartyVolume(batch)
	want := []domain.NameValue{{Name: "A", Value: 130}, {Name: "B", Value: 50}}

	if len(volume) != len(want) {
		t.Fatalf("CounterpartyVolume returned %d entries, want %d", len(volume), len(want))
	}
	for i := range want {
		if volume[i] != want[i] {
			t.Errorf("CounterpartyVolume[%d] = %+v, want %+v", i, volume[i], want[i])
		}
	}
}

func TestCounterpartyVolume_TopFourDescending(t *testing.T) {
	batch := []domain.TransactionRecord{
		tx("A", 10, domain.RiskLow, ""),
		tx("B", -40, domain.RiskLow, ""),
		tx("C", 25, domain.RiskLow, ""),
		tx("D", 5, domain.RiskLow, ""),
		tx("E", 60, domain.RiskLow, ""),
		tx("F", 1, domain.RiskLow, ""),
	}

	volume := CounterpartyVolume(batch)
	if len(volume) != 4 {
		t.Fatalf("got %d entries, want 4", len(volume))
	}

	var trueTotal, returned float64
	for _, b := range batch {
		if b.Amount < 0 {
			trueTotal -= b.Amount
		} else {
			trueTotal += b.Amount
		}
	}
	for i, nv := range volume {
		returned += nv.Value
		if i > 0 && volume[i-1].Value < nv.Value {
			t.Errorf("entries not descending at %d: %v then %v", i, volume[i-1], nv)
		}
	}
	if returned > trueTotal {
		t.Errorf("returned volume %.2f exceeds true total %.2f", returned, trueTotal)
	}
	if volume[0].Name != "E" || volume[1].Name != "B" || volume[2].Name != "C" || volume[3].Name != "A" {
		t.Errorf("unexpected ranking: %+v", volume)
	}
}

func TestCounterpartyVolume_TiesKeepFirstSeen(t *testing.T) {
	batch := []domain.TransactionRecord{
		tx("First", 50, domain.RiskLow, ""),
		tx("Second", -50, domain.RiskLow, ""),
	}

	volume := CounterpartyVolume(batch)
	if volume[0].Name != "First" || volume[1].Name != "Second" {
		t.Errorf("tie not broken by first-seen order: %+v", volume)
	}
}

func TestCounterpartyVolume_EmptyBatch(t *testing.T) {
	if got := CounterpartyVolume(nil); len(got) != 0 {
		t.Errorf("CounterpartyVolume(empty) = %+v, want empty", got)
	}
}

func TestCounterpartyTrend(t *testing.T) {
	batch := []domain.TransactionRecord{
		tx("A", 1, domain.RiskLow, "01.09.2025"),
		tx("B", 1, domain.RiskLow, "15.09.2025"),
		tx("C", 1, domain.RiskLow, "20.11.2025"),
		tx("D", 1, domain.RiskLow, "broken"),
		tx("E", 1, domain.RiskLow, "03.01.2025"), // outside the Jul–Dec label set
	}

	trend := CounterpartyTrend(batch, 0)
	wantLabels := []string{"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	wantCounts := []int{0, 0, 2, 0, 1, 0}

	if len(trend) != 6 {
		t.Fatalf("trend has %d entries, want 6", len(trend))
	}
	for i := range trend {
		if trend[i].Month != wantLabels[i] || trend[i].Operations != wantCounts[i] {
			t.Errorf("trend[%d] = %+v, want {%s %d}", i, trend[i], wantLabels[i], wantCounts[i])
		}
	}
}

func TestCounterpartyTrend_Smoothing(t *testing.T) {
	trend := CounterpartyTrend(nil, 3)
	for i, mc := range trend {
		if mc.Operations != 3*i {
			t.Errorf("smoothed trend[%d].Operations = %d, want %d", i, mc.Operations, 3*i)
		}
	}
}

func TestCounterpartyVelocity(t *testing.T) {
	batch := []domain.TransactionRecord{
		tx("A", 1, domain.RiskLow, "06.10.2025"), // ISO week 41
		tx("B", 1, domain.RiskLow, "07.10.2025"), // week 41
		tx("C", 1, domain.RiskLow, "08.10.2025"), // week 41
		tx("D", 1, domain.RiskLow, "13.10.2025"), // week 42
		tx("E", 1, domain.RiskLow, "nonsense"),
	}

	velocity := CounterpartyVelocity(batch)
	want := []domain.WeekCount{
		{Week: "Week 1", NewPartners: 3, Alerts: 1},
		{Week: "Week 2", NewPartners: 1, Alerts: 1},
	}

	if len(velocity) != len(want) {
		t.Fatalf("velocity has %d entries, want %d", len(velocity), len(want))
	}
	for i := range want {
		if velocity[i] != want[i] {
			t.Errorf("velocity[%d] = %+v, want %+v", i, velocity[i], want[i])
		}
	}
}

func TestCounterpartyVelocity_AllUnparseable(t *testing.T) {
	batch := []domain.TransactionRecord{
		tx("A", 1, domain.RiskLow, "??"),
		tx("B", 1, domain.RiskLow, ""),
	}

	velocity := CounterpartyVelocity(batch)
	want := domain.WeekCount{Week: "Week 1", NewPartners: 4, Alerts: 1}
	if len(velocity) != 1 || velocity[0] != want {
		t.Errorf("fallback = %+v, want [%+v]", velocity, want)
	}
}

func TestCounterpartyVelocity_YearBoundaryOrdering(t *testing.T) {
	batch := []domain.TransactionRecord{
		tx("A", 1, domain.RiskLow, "05.01.2026"), // 2026 week 2
		tx("B", 1, domain.RiskLow, "22.12.2025"), // 2025 week 52
		tx("C", 1, domain.RiskLow, "23.12.2025"), // 2025 week 52
	}

	velocity := CounterpartyVelocity(batch)
	if len(velocity) != 2 {
		t.Fatalf("velocity has %d entries, want 2", len(velocity))
	}
	if velocity[0].NewPartners != 2 || velocity[1].NewPartners != 1 {
		t.Errorf("weeks not ordered across year boundary: %+v", velocity)
	}
}
