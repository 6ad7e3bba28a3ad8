package pipeline

import (
	"fmt"
	"time"

	"github.com/dvloznov/statement-insight/internal/analytics"
	"github.com/dvloznov/statement-insight/internal/domain"
)

// lowRiskScoreThreshold is the fixed business rule for registry
// classification: a counterparty scoring above it is low risk, otherwise
// medium. The threshold is not data-derived.
const lowRiskScoreThreshold = 0.75

// Views carries the aggregated chart inputs for one payload.
type Views struct {
	RiskMix              []domain.RiskShare
	CounterpartyVolume   []domain.NameValue
	CounterpartyTrend    []domain.MonthCount
	CounterpartyVelocity []domain.WeekCount
}

// defaultCategorySplit mirrors the category weighting shown on the dashboard's
// split chart; a real model would derive it from the batch.
var defaultCategorySplit = []domain.CategoryShare{
	{Category: "Payroll projects", Value: 6.4},
	{Category: "Contractors", Value: 4.8},
	{Category: "Taxes", Value: 3.1},
	{Category: "Operating expenses", Value: 2.6},
	{Category: "Investments", Value: 1.9},
}

// Assemble composes one analysis payload from the batch, the aggregated
// views, the generated series and the external data. It has no persistence
// side effects and, aside from the timestamp, is fully determined by its
// inputs. The returned payload is never mutated afterwards.
func Assemble(
	gateway *analytics.ModelGateway,
	batch []domain.TransactionRecord,
	views Views,
	scores []domain.Score,
	signals []domain.Signal,
	now time.Time,
) domain.AnalysisPayload {
	registry := make([]domain.RegistryEntry, 0, len(scores))
	for idx, score := range scores {
		risk := domain.RiskMedium
		if score.Score > lowRiskScoreThreshold {
			risk = domain.RiskLow
		}
		registry = append(registry, domain.RegistryEntry{
			Name:       fmt.Sprintf("Counterparty %d", idx+1),
			TaxID:      score.TaxID,
			Segment:    score.Provider,
			Operations: 32 + idx*12,
			Risk:       risk,
		})
	}

	split := make([]domain.CategoryShare, len(defaultCategorySplit))
	copy(split, defaultCategorySplit)

	return domain.AnalysisPayload{
		Cashflow:             gateway.CashflowSummary(),
		BalanceProjection:    gateway.BalanceForecast(),
		ActivityHeatmap:      gateway.ActivityHeatmap(),
		ControlDates:         gateway.ControlDates(),
		CategorySplit:        split,
		Transactions:         batch,
		CounterpartyScores:   scores,
		Registry:             registry,
		CounterpartyVolume:   views.CounterpartyVolume,
		RiskMix:              views.RiskMix,
		CounterpartyTrend:    views.CounterpartyTrend,
		CounterpartyVelocity: views.CounterpartyVelocity,
		Signals:              signals,
		GeneratedAt:          now.UTC(),
	}
}
