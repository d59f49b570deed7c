package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"StockScout/internal/model"
	"StockScout/internal/notifier"
	"StockScout/internal/recorder"
	"StockScout/internal/screener"

	"github.com/robfig/cron/v3"
)

// seoul anchors the weekday gate: screens only run on KRX trading days.
var seoul = mustLoadLocation("Asia/Seoul")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARN] load %s failed, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// Scheduler manages the cron tasks. The trend check reports through the
// general notifier; equity screens report through the equity notifier.
type Scheduler struct {
	Cron     *cron.Cron
	Trend    *screener.TrendScreener
	Runner   *screener.Runner
	RuleSets []screener.RuleSet
	General  notifier.Notifier
	Equity   notifier.Notifier
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a scheduler with second-resolution cron expressions.
func NewScheduler(ctx context.Context, trend *screener.TrendScreener, runner *screener.Runner,
	ruleSets []screener.RuleSet, general, equity notifier.Notifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Trend:    trend,
		Runner:   runner,
		RuleSets: ruleSets,
		General:  general,
		Equity:   equity,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// RegisterAll registers the trend task and the screening batch.
func (s *Scheduler) RegisterAll(trendCron, screenCron string) error {
	if _, err := s.Cron.AddFunc(trendCron, s.trendTask); err != nil {
		return fmt.Errorf("register trend task: %w", err)
	}
	if _, err := s.Cron.AddFunc(screenCron, s.screenTask); err != nil {
		return fmt.Errorf("register screen task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) trendTask() {
	log.Println("[INFO] running trend task")
	res, err := s.Trend.Run()
	if err != nil {
		log.Printf("[ERROR] trend screen: %v", err)
		s.trySend(s.General, notifier.FormatErrorReport("Trend check", err))
		return
	}
	s.trySend(s.General, notifier.FormatTrendReport(res))
	if err := s.Recorder.RecordTrend(res); err != nil {
		log.Printf("[ERROR] record trend: %v", err)
	}
}

// screenTask runs every configured screen in sequence. A panic or failure in
// one screen never stops the next.
func (s *Scheduler) screenTask() {
	now := time.Now().In(seoul)
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		log.Printf("[INFO] %s is not a trading day, skipping screens", wd)
		return
	}
	for _, rs := range s.RuleSets {
		s.runScreen(now, rs)
	}
}

func (s *Scheduler) runScreen(now time.Time, rs screener.RuleSet) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] screen %s panicked: %v", rs.Name, p)
			s.trySend(s.Equity, notifier.FormatErrorReport(screenTitle(rs.Name), fmt.Errorf("panic: %v", p)))
		}
	}()

	log.Printf("[INFO] running screen %s", rs.Name)
	results, err := s.Runner.Run(now, rs)
	if err != nil {
		log.Printf("[ERROR] screen %s: %v", rs.Name, err)
		s.trySend(s.Equity, notifier.FormatErrorReport(screenTitle(rs.Name), err))
		return
	}
	log.Printf("[INFO] screen %s selected %d instruments", rs.Name, len(results))

	s.trySend(s.Equity, notifier.FormatScreenReport(screenTitle(rs.Name), results))

	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	records := make([]model.StockRecord, 0, len(results))
	for _, res := range results {
		records = append(records, model.StockRecord{
			Date:       date,
			Code:       res.Code,
			Name:       res.Name,
			Market:     res.Market,
			Price:      res.Price,
			ChangeRate: res.ChangeRate,
			Screener:   rs.Name,
			Score:      res.Score,
		})
	}
	if err := s.Recorder.RecordScreen(records); err != nil {
		log.Printf("[ERROR] record screen %s: %v", rs.Name, err)
	}
}

func screenTitle(name string) string {
	switch {
	case strings.HasPrefix(name, "breakout"):
		return "Breakout Screen"
	case strings.HasPrefix(name, "wave"):
		return "Wave Screen"
	}
	return name
}

// RunNow triggers tasks immediately, bypassing the weekday gate. kind is one
// of all, trend, breakout, or wave.
func (s *Scheduler) RunNow(kind string) {
	now := time.Now().In(seoul)
	switch kind {
	case "all":
		s.trendTask()
		for _, rs := range s.RuleSets {
			s.runScreen(now, rs)
		}
	case "trend":
		s.trendTask()
	default:
		ran := false
		for _, rs := range s.RuleSets {
			if strings.HasPrefix(rs.Name, kind) {
				s.runScreen(now, rs)
				ran = true
			}
		}
		if !ran {
			log.Printf("[WARN] no configured screen matches %q", kind)
		}
	}
}

// HandleCommand processes an operator command and returns a reply. Task
// commands reply through their own reports, so they return nothing here.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/trend":
		s.RunNow("trend")
		return ""
	case "/breakout":
		s.RunNow("breakout")
		return ""
	case "/wave":
		s.RunNow("wave")
		return ""
	case "/all":
		s.RunNow("all")
		return ""
	case "/status":
		return s.status()
	default:
		return "Available commands:\n/trend\n/breakout\n/wave\n/all\n/status"
	}
}

func (s *Scheduler) status() string {
	var b strings.Builder
	b.WriteString("🗓 <b>Scheduler status</b>\n\n")
	b.WriteString(fmt.Sprintf("Configured screens: %d\n", len(s.RuleSets)))
	for _, rs := range s.RuleSets {
		b.WriteString(fmt.Sprintf("• %s\n", rs.Name))
	}
	for i, entry := range s.Cron.Entries() {
		b.WriteString(fmt.Sprintf("Task %d next run: %s\n", i+1, entry.Next.In(seoul).Format("2006-01-02 15:04")))
	}
	return b.String()
}

func (s *Scheduler) trySend(n notifier.Notifier, text string) {
	if err := n.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
