// Package screener contains the per-instrument rule engines and the batch
// runner that drives them across the full instrument universe.
package screener

import (
	"StockScout/internal/indicator"
	"StockScout/internal/model"
)

// Instrument bundles everything one evaluation may look at. The runner
// fills it per instrument; evaluation itself performs no I/O.
type Instrument struct {
	Meta   model.InstrumentMeta
	Daily  []model.OHLCV
	Weekly []model.OHLCV
	Flow   []float64 // daily institutional net traded value, ascending
	Window model.AnalysisWindow
}

// Criterion is one named check of a rule set. Points only matter in
// score-threshold mode; gate criteria carry zero.
type Criterion struct {
	Name   string
	Points int
	Check  func(inst *Instrument) bool
}

// Mode selects how a rule set combines its criterion outcomes.
type Mode int

const (
	// GateAll passes only when every criterion passes.
	GateAll Mode = iota
	// ScoreThreshold sums the points of passing criteria and compares
	// against the threshold.
	ScoreThreshold
)

// RuleSet is a named, versioned screen configuration. Rule revisions are
// new RuleSet values, not new code paths.
type RuleSet struct {
	Name          string
	Mode          Mode
	Threshold     int
	LookbackDays  int // calendar days of history the runner fetches
	MinDailyBars  int
	MinWeeklyBars int
	NeedsFlow     bool
	Criteria      []Criterion
}

// Evaluate runs every criterion and derives the final verdict. It returns
// nil when the instrument's history is shorter than the rule set's minimum,
// which counts as a normal negative, not an error. All criteria are
// evaluated even after one fails so the result carries the full outcome
// set for reporting.
func (rs RuleSet) Evaluate(inst *Instrument) *model.ScreenResult {
	if rs.MinDailyBars > 0 && len(inst.Daily) < rs.MinDailyBars {
		return nil
	}
	if rs.MinWeeklyBars > 0 && len(inst.Weekly) < rs.MinWeeklyBars {
		return nil
	}

	result := &model.ScreenResult{
		Code:    inst.Meta.Code,
		Name:    inst.Meta.Name,
		Market:  inst.Meta.Market,
		RuleSet: rs.Name,
	}

	allPassed := true
	for _, c := range rs.Criteria {
		passed := c.Check(inst)
		result.Criteria = append(result.Criteria, model.CriterionResult{
			Name:   c.Name,
			Passed: passed,
			Points: c.Points,
		})
		if passed {
			result.Score += c.Points
		} else {
			allPassed = false
		}
	}

	switch rs.Mode {
	case ScoreThreshold:
		result.Passed = result.Score >= rs.Threshold
	default:
		result.Passed = allPassed
	}
	return result
}

// RuleSets indexes every shipped configuration by name.
var RuleSets = map[string]RuleSet{
	BreakoutLargeCap.Name: BreakoutLargeCap,
	BreakoutSmallCap.Name: BreakoutSmallCap,
	WaveScored.Name:       WaveScored,
	WavePattern.Name:      WavePattern,
}

const (
	largeCapFloor = 500_000_000_000 // KRW
	smallCapCeil  = 500_000_000_000
	waveCapFloor  = 300_000_000_000

	flowTrailingWindow = 20
	fibLookbackWeeks   = 52
)

func meanTail(values []float64, n int) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	if len(values) > n {
		values = values[len(values)-n:]
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// BreakoutLargeCap is the original breakout configuration: a large-cap name
// turning over its long moving average on a volume spike with pension-fund
// sponsorship. Every criterion must pass.
var BreakoutLargeCap = RuleSet{
	Name:         "breakout-largecap",
	Mode:         GateAll,
	LookbackDays: 365,
	MinDailyBars: 60,
	NeedsFlow:    true,
	Criteria: []Criterion{
		{Name: "volume_spike", Check: func(inst *Instrument) bool {
			return indicator.VolumeSpike(inst.Daily)
		}},
		{Name: "market_cap_floor", Check: func(inst *Instrument) bool {
			return inst.Meta.MarketCap >= largeCapFloor
		}},
		{Name: "near_ma240", Check: func(inst *Instrument) bool {
			return indicator.NearMA(inst.Daily, 240, 0.10)
		}},
		{Name: "ma20_over_ma60", Check: func(inst *Instrument) bool {
			return indicator.MATransition(inst.Daily, 20, 60)
		}},
		{Name: "institutional_buying", Check: func(inst *Instrument) bool {
			mean, ok := meanTail(inst.Flow, flowTrailingWindow)
			return ok && mean > 0
		}},
	},
}

// BreakoutSmallCap is the revised breakout configuration aimed at smaller
// names already in an established short-term uptrend. The cap criterion is
// a ceiling here; the two configurations are deliberate alternatives and
// the operator picks one.
var BreakoutSmallCap = RuleSet{
	Name:         "breakout-smallcap",
	Mode:         GateAll,
	LookbackDays: 365,
	MinDailyBars: 120,
	Criteria: []Criterion{
		{Name: "recent_volume_surge", Check: func(inst *Instrument) bool {
			return indicator.RecentVolumeSurge(inst.Daily, 5)
		}},
		{Name: "ma_stack", Check: func(inst *Instrument) bool {
			return indicator.MAStacked(inst.Daily, 20, 60, 120)
		}},
		{Name: "above_ma20", Check: func(inst *Instrument) bool {
			return indicator.AboveMA(inst.Daily, 20)
		}},
		{Name: "market_cap_ceiling", Check: func(inst *Instrument) bool {
			return inst.Meta.MarketCap > 0 && inst.Meta.MarketCap <= smallCapCeil
		}},
		{Name: "up_days", Check: func(inst *Instrument) bool {
			return indicator.UpDays(inst.Daily, 5) >= 3
		}},
	},
}

// WaveScored is the weighted wave configuration on weekly bars: 14 possible
// points, selection at 7.
var WaveScored = RuleSet{
	Name:          "wave-scored",
	Mode:          ScoreThreshold,
	Threshold:     7,
	LookbackDays:  365 * 3,
	MinWeeklyBars: 52,
	Criteria: []Criterion{
		{Name: "fib_zone_rebound", Points: 3, Check: func(inst *Instrument) bool {
			ret, err := indicator.IdentifyRetracement(inst.Weekly, fibLookbackWeeks)
			return err == nil && ret.InZone && ret.Rebound
		}},
		{Name: "rsi_oversold_rising", Points: 3, Check: func(inst *Instrument) bool {
			return indicator.Oversold(inst.Weekly) && indicator.RSIRising(inst.Weekly)
		}},
		{Name: "bollinger_lower", Points: 2, Check: func(inst *Instrument) bool {
			return indicator.NearLowerBand(inst.Weekly)
		}},
		{Name: "macd_golden_cross", Points: 2, Check: func(inst *Instrument) bool {
			return indicator.GoldenCross(inst.Weekly)
		}},
		{Name: "macd_hist_rising", Points: 1, Check: func(inst *Instrument) bool {
			return indicator.HistRising(inst.Weekly)
		}},
		{Name: "obv_rising", Points: 1, Check: func(inst *Instrument) bool {
			return indicator.OBVRising(inst.Weekly)
		}},
		{Name: "volume_decrease", Points: 1, Check: func(inst *Instrument) bool {
			return indicator.VolumeDecreasePattern(inst.Weekly)
		}},
		{Name: "ma240_band", Points: 1, Check: func(inst *Instrument) bool {
			// MA240 stays on daily bars; 240 weeks would outrun the window.
			return indicator.WithinMABand(inst.Daily, 240, 0.5, 1.5)
		}},
		{Name: "market_cap_floor", Points: 1, Check: func(inst *Instrument) bool {
			return inst.Meta.MarketCap >= waveCapFloor
		}},
	},
}

// WavePattern is the boolean wave revision: the retracement direction gates
// a narrower momentum combination instead of a point sum.
var WavePattern = RuleSet{
	Name:          "wave-pattern",
	Mode:          GateAll,
	LookbackDays:  365 * 3,
	MinWeeklyBars: 52,
	Criteria: []Criterion{
		{Name: "retracement_zone", Check: func(inst *Instrument) bool {
			ret, err := indicator.IdentifyRetracement(inst.Weekly, fibLookbackWeeks)
			if err != nil || !ret.Rebound {
				return false
			}
			if ret.Direction == indicator.DeclineThenRebound {
				return ret.Bracket == 0.382
			}
			return ret.Bracket == 0.382 || ret.Bracket == 0.5
		}},
		{Name: "momentum_combo", Check: func(inst *Instrument) bool {
			ret, err := indicator.IdentifyRetracement(inst.Weekly, fibLookbackWeeks)
			if err != nil {
				return false
			}
			if ret.Direction == indicator.DeclineThenRebound {
				oversoldTurn := indicator.Oversold(inst.Weekly) && indicator.RSIRising(inst.Weekly)
				return oversoldTurn && (indicator.GoldenCross(inst.Weekly) || indicator.NearLowerBand(inst.Weekly))
			}
			return indicator.HistRising(inst.Weekly) && indicator.OBVRising(inst.Weekly)
		}},
		{Name: "ma240_band", Check: func(inst *Instrument) bool {
			return indicator.WithinMABand(inst.Daily, 240, 0.5, 1.5)
		}},
		{Name: "market_cap_floor", Check: func(inst *Instrument) bool {
			return inst.Meta.MarketCap >= waveCapFloor
		}},
	},
}
