package screener

import (
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"StockScout/internal/marketdata"
	"StockScout/internal/model"
)

// DefaultFlowInvestor is the investor class whose net buying the breakout
// screen requires: the national pension fund.
const DefaultFlowInvestor = "연기금"

// maxWorkers caps the evaluation pool; anything wider trips the upstream
// rate limit.
const maxWorkers = 4

// Runner fans one rule set out across the instrument universe.
type Runner struct {
	Provider     marketdata.Provider
	Workers      int
	FlowInvestor string
}

// NewRunner builds a runner with the default pool size and investor class.
func NewRunner(p marketdata.Provider) *Runner {
	return &Runner{Provider: p, FlowInvestor: DefaultFlowInvestor}
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	n := runtime.NumCPU()
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

type candidate struct {
	code string
	name string
}

// Run enumerates the universe as of end, evaluates every eligible
// instrument against the rule set, and returns the selected results. A
// failure to enumerate the universe aborts the run; every per-instrument
// failure only drops that instrument.
func (r *Runner) Run(end time.Time, rs RuleSet) ([]model.ScreenResult, error) {
	window := model.NewWindow(end, rs.LookbackDays)

	codes, err := r.Provider.ListInstruments(end)
	if err != nil {
		return nil, fmt.Errorf("enumerate universe: %w", err)
	}

	candidates := make([]candidate, 0, len(codes))
	for _, code := range codes {
		name, err := r.Provider.InstrumentName(code)
		if err != nil {
			log.Printf("[WARN] name lookup %s failed, skipping: %v", code, err)
			continue
		}
		if !Eligible(code, name) {
			continue
		}
		candidates = append(candidates, candidate{code: code, name: name})
	}
	log.Printf("[INFO] %s: %d of %d instruments eligible", rs.Name, len(candidates), len(codes))

	jobs := make(chan candidate)
	results := make(chan model.ScreenResult)

	var wg sync.WaitGroup
	for i := 0; i < r.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				if res := r.evaluateOne(c, window, rs); res != nil && res.Passed {
					results <- *res
				}
			}
		}()
	}
	go func() {
		for _, c := range candidates {
			jobs <- c
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var selected []model.ScreenResult
	for res := range results {
		selected = append(selected, res)
	}

	if rs.Mode == ScoreThreshold {
		sort.Slice(selected, func(i, j int) bool { return selected[i].Score > selected[j].Score })
	} else {
		sort.Slice(selected, func(i, j int) bool { return selected[i].Code < selected[j].Code })
	}

	for i := range selected {
		r.enrich(&selected[i], end)
	}
	return selected, nil
}

// evaluateOne fetches one instrument's data and evaluates it. Every failure
// mode, including a panic inside indicator math, degrades to "no result".
func (r *Runner) evaluateOne(c candidate, window model.AnalysisWindow, rs RuleSet) (res *model.ScreenResult) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] evaluate %s panicked: %v", c.code, p)
			res = nil
		}
	}()

	marketCap, err := r.Provider.MarketCap(c.code, model.NewWindow(window.End, 7))
	if err != nil {
		log.Printf("[WARN] market cap %s unavailable, treating as zero: %v", c.code, err)
		marketCap = 0
	}

	daily, err := r.Provider.OHLCV(c.code, window, true, marketdata.FreqDaily)
	if err != nil {
		log.Printf("[WARN] ohlcv %s unavailable, skipping: %v", c.code, err)
		return nil
	}

	inst := &Instrument{
		Meta: model.InstrumentMeta{
			Code:      c.code,
			Name:      c.name,
			MarketCap: marketCap,
		},
		Daily:  daily,
		Window: window,
	}
	if rs.MinWeeklyBars > 0 {
		inst.Weekly = marketdata.AggregateWeekly(daily)
	}
	if rs.NeedsFlow {
		flow, err := r.Provider.InstitutionalFlow(c.code, model.NewWindow(window.End, 30), r.FlowInvestor)
		if err != nil {
			log.Printf("[WARN] institutional flow %s unavailable: %v", c.code, err)
		} else {
			inst.Flow = flow
		}
	}

	return rs.Evaluate(inst)
}

// enrich fills market classification, latest price, and day-over-day change
// rate for reporting. Failures leave the zero values in place; they never
// invalidate the selection.
func (r *Runner) enrich(res *model.ScreenResult, end time.Time) {
	market, err := r.Provider.InstrumentMarket(res.Code)
	if err != nil {
		log.Printf("[WARN] market lookup %s failed: %v", res.Code, err)
		market = model.MarketUnknown
	}
	res.Market = market

	bars, err := r.Provider.OHLCV(res.Code, model.NewWindow(end, 7), true, marketdata.FreqDaily)
	if err != nil || len(bars) == 0 {
		log.Printf("[WARN] price lookup %s failed: %v", res.Code, err)
		return
	}
	res.Price = bars[len(bars)-1].Close
	if len(bars) > 1 && bars[len(bars)-2].Close > 0 {
		prev := bars[len(bars)-2].Close
		res.ChangeRate = (res.Price - prev) / prev * 100
	}
}
