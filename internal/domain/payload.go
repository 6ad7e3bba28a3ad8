package domain

import "time"

// MonthPoint is one month of the cash-flow summary.
type MonthPoint struct {
	Month   string  `json:"month"`
	InFlow  float64 `json:"inFlow"`
	OutFlow float64 `json:"outFlow"`
}

// QuarterPoint is one quarter of the balance projection, with a base and a
// stressed trajectory.
type QuarterPoint struct {
	Quarter string  `json:"quarter"`
	Base    float64 `json:"base"`
	Stress  float64 `json:"stress"`
}

// DayPoint is one weekday of the activity heatmap.
type DayPoint struct {
	Day     string `json:"day"`
	Inflow  int    `json:"inflow"`
	Outflow int    `json:"outflow"`
}

// ControlDate is an upcoming control action with its owning team.
type ControlDate struct {
	Title string `json:"title"`
	Date  string `json:"date"` // dd.mm.yyyy
	Owner string `json:"owner"`
}

// CategoryShare is one slice of the spend category split.
type CategoryShare struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Score is an external KYC-style rating for one counterparty.
type Score struct {
	Provider string   `json:"provider"`
	TaxID    string   `json:"taxId"`
	Score    float64  `json:"score"`
	Flags    []string `json:"flags"`
}

// RegistryEntry is one counterparty in the assembled registry.
type RegistryEntry struct {
	Name       string    `json:"name"`
	TaxID      string    `json:"taxId"`
	Segment    string    `json:"segment"`
	Operations int       `json:"operations"`
	Risk       RiskLevel `json:"risk"`
}

// NameValue is a counterparty with its aggregated absolute volume.
type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// RiskShare is one risk category's share of the batch, as an integer percent.
type RiskShare struct {
	Risk  RiskLevel `json:"risk"`
	Value int       `json:"value"`
}

// MonthCount is the number of counterparty operations in one month.
type MonthCount struct {
	Month      string `json:"month"`
	Operations int    `json:"operations"`
}

// WeekCount is new-counterparty activity in one calendar week.
type WeekCount struct {
	Week        string `json:"week"`
	NewPartners int    `json:"newPartners"`
	Alerts      int    `json:"alerts"`
}

// Signal is an external alert about unusual counterparty activity.
type Signal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Provider    string `json:"provider"`
}

// AnalysisPayload is the full set of derived analytics views produced from one
// transaction batch. A payload is assembled once per analysis run and never
// mutated afterwards; a new run produces a new payload.
type AnalysisPayload struct {
	Cashflow             []MonthPoint        `json:"cashflow"`
	BalanceProjection    []QuarterPoint      `json:"balanceProjection"`
	ActivityHeatmap      []DayPoint          `json:"activityHeatmap"`
	ControlDates         []ControlDate       `json:"controlDates"`
	CategorySplit        []CategoryShare     `json:"categorySplit"`
	Transactions         []TransactionRecord `json:"transactions"`
	CounterpartyScores   []Score             `json:"counterpartyScores"`
	Registry             []RegistryEntry     `json:"registry"`
	CounterpartyVolume   []NameValue         `json:"counterpartyVolume"`
	RiskMix              []RiskShare         `json:"riskMix"`
	CounterpartyTrend    []MonthCount        `json:"counterpartyTrend"`
	CounterpartyVelocity []WeekCount         `json:"counterpartyVelocity"`
	Signals              []Signal            `json:"signals"`
	GeneratedAt          time.Time           `json:"generatedAt"`
}
