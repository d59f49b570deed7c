package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"StockScout/internal/config"
	"StockScout/internal/marketdata"
	"StockScout/internal/notifier"
	"StockScout/internal/recorder"
	"StockScout/internal/scheduler"
	"StockScout/internal/screener"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockScout starting...")

	runNow := flag.String("run", "", "run a task immediately and exit: all, trend, breakout, or wave")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Resolve rule sets up front so a typo fails at startup, not at 16:00.
	ruleSets := make([]screener.RuleSet, 0, len(cfg.Screen.RuleSets))
	for _, name := range cfg.Screen.RuleSets {
		rs, ok := screener.RuleSets[name]
		if !ok {
			log.Fatalf("[FATAL] unknown rule set %q", name)
		}
		ruleSets = append(ruleSets, rs)
	}

	// Domestic market data: KRX gateway behind the retry layer.
	krx := marketdata.NewKRXClient(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.RatePerSec)
	provider := marketdata.NewRetryProvider(krx, cfg.Retry.Attempts, time.Duration(cfg.Retry.DelaySeconds)*time.Second)
	runner := screener.NewRunner(provider)
	runner.Workers = cfg.Screen.Workers

	// Overseas trend data comes straight from Yahoo.
	trendCfg := screener.DefaultTrendConfig()
	trendCfg.Symbol = cfg.Trend.Symbol
	trend := &screener.TrendScreener{
		Source: marketdata.NewYahooClient(cfg.Proxy),
		Config: trendCfg,
	}

	// Two bot identities: general for trend and alerts, equity for screens.
	var general, equity notifier.Notifier = notifier.NoopNotifier{}, notifier.NoopNotifier{}
	var generalBot *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		generalBot = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		general = generalBot
	}
	if cfg.Telegram.EquityBotToken != "" {
		equity = notifier.NewTelegramNotifier(cfg.Telegram.EquityBotToken, cfg.Telegram.EquityChatID, cfg.Proxy)
	} else {
		equity = general
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, trend, runner, ruleSets, general, equity, rec)

	// One-shot mode for cron-less deployments and manual checks.
	if *runNow != "" {
		sched.RunNow(*runNow)
		return
	}

	if err := sched.RegisterAll(cfg.Trend.Cron, cfg.Screen.Cron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Operator commands arrive on the general bot.
	if generalBot != nil {
		go generalBot.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing all tasks now")
		go sched.RunNow("all")
	}

	log.Println("[INFO] StockScout is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StockScout stopped")
}
