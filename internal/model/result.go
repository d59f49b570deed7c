package model

// Recommendation is the trend screener's three-way verdict.
type Recommendation string

const (
	RecommendDefensive Recommendation = "SGOV" // close below MA200
	RecommendHold      Recommendation = "TQQQ" // between MA200 and envelope
	RecommendRotate    Recommendation = "SPLG" // above the envelope
)

// TrendResult is the output of the leveraged-ETF trend screener. It always
// carries exactly one recommendation; insufficient history is reported as an
// error by the evaluator, never as a zero-value result.
type TrendResult struct {
	Symbol         string
	ClosePrice     float64
	MA200          float64
	Envelope       float64
	Diff           float64 // ClosePrice - MA200
	Recommendation Recommendation
}

// CriterionResult records the outcome of one named screen criterion.
// Points is the criterion's contribution to a composite score and is only
// counted when Passed is true; hard-gate criteria carry zero points.
type CriterionResult struct {
	Name   string
	Passed bool
	Points int
}

// ScreenResult is the per-instrument outcome of the breakout and wave
// screeners. Passed and Score are derived once from Criteria at evaluation
// time and are never recomputed downstream.
type ScreenResult struct {
	Code       string
	Name       string
	Market     Market
	RuleSet    string
	Score      int
	Passed     bool
	Criteria   []CriterionResult
	Price      float64
	ChangeRate float64
}

// Criterion returns the outcome of the named criterion, or false when the
// rule set does not include it.
func (r *ScreenResult) Criterion(name string) bool {
	for _, c := range r.Criteria {
		if c.Name == name {
			return c.Passed
		}
	}
	return false
}
