package analytics

import (
	"math"
	"math/rand"
	"time"

	"github.com/dvloznov/statement-insight/internal/domain"
)

// ModelGateway produces the illustrative fixed-cardinality series of the
// payload (cash-flow summary, balance projection, heatmap, control dates).
// It stands in for a real forecasting model: the payload shape is the
// contract, the numeric content is not. Randomness and time are injected so
// tests can pin both.
type ModelGateway struct {
	rng *rand.Rand
	now func() time.Time
}

// NewModelGateway creates a gateway sampling from the given source.
func NewModelGateway(rng *rand.Rand, now func() time.Time) *ModelGateway {
	if now == nil {
		now = time.Now
	}
	return &ModelGateway{rng: rng, now: now}
}

var cashflowMonths = []string{"July", "August", "September", "October", "November"}

// CashflowSummary returns the five-month in/out flow summary.
func (g *ModelGateway) CashflowSummary() []domain.MonthPoint {
	points := make([]domain.MonthPoint, 0, len(cashflowMonths))
	for idx, month := range cashflowMonths {
		points = append(points, domain.MonthPoint{
			Month:   month,
			InFlow:  round1(8 + float64(idx)*1.7 + g.rng.Float64()*2),
			OutFlow: round1(6 + float64(idx)*1.4 + g.rng.Float64()*2.4),
		})
	}
	return points
}

// BalanceForecast returns a four-quarter projection with a base and a
// stressed trajectory, both monotonically increasing.
func (g *ModelGateway) BalanceForecast() []domain.QuarterPoint {
	base, stress := 40.0, 34.0
	projection := make([]domain.QuarterPoint, 0, 4)
	for _, quarter := range []string{"Q1", "Q2", "Q3", "Q4"} {
		base += 4 + g.rng.Float64()*3
		stress += 2 + g.rng.Float64()*3
		projection = append(projection, domain.QuarterPoint{
			Quarter: quarter,
			Base:    math.Round(base),
			Stress:  math.Round(stress),
		})
	}
	return projection
}

var heatmapDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ActivityHeatmap returns per-weekday inflow/outflow operation counts.
func (g *ModelGateway) ActivityHeatmap() []domain.DayPoint {
	heatmap := make([]domain.DayPoint, 0, len(heatmapDays))
	for _, day := range heatmapDays {
		heatmap = append(heatmap, domain.DayPoint{
			Day:     day,
			Inflow:  5 + g.rng.Intn(12),
			Outflow: 3 + g.rng.Intn(9),
		})
	}
	return heatmap
}

var controlOwners = []string{"Security", "Finance", "Legal"}

// ControlDates returns the next three limit-review checkpoints.
func (g *ModelGateway) ControlDates() []domain.ControlDate {
	today := g.now()
	dates := make([]domain.ControlDate, 0, 3)
	for idx := 1; idx <= 3; idx++ {
		dates = append(dates, domain.ControlDate{
			Title: "Limits review",
			Date:  today.AddDate(0, 0, idx*3).Format(domain.RecordDateLayout),
			Owner: controlOwners[g.rng.Intn(len(controlOwners))],
		})
	}
	return dates
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
