package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"forex-signal-engine/config"
	"forex-signal-engine/internal/cache"
	"forex-signal-engine/internal/database"
	"forex-signal-engine/internal/logging"
	"forex-signal-engine/internal/market"
	"forex-signal-engine/internal/risk"
	"forex-signal-engine/internal/robot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.Setup(logging.Config{
		Level:  cfg.LoggingConfig.Level,
		Pretty: cfg.LoggingConfig.Pretty,
		Output: cfg.LoggingConfig.Output,
	})
	log.Info().
		Strs("pairs", cfg.EngineConfig.Pairs).
		Strs("robots", cfg.EngineConfig.Robots).
		Str("plan", cfg.EngineConfig.Plan).
		Msg("starting robot simulator")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sub := robot.Subscription{Plan: cfg.EngineConfig.Plan}
	manager := robot.NewManager("local", sub, log)
	for _, name := range cfg.EngineConfig.Robots {
		if _, err := manager.CreateRobot(name, cfg.EngineConfig.Pairs, cfg.EngineConfig.Timeframe); err != nil {
			log.Fatal().Err(err).Str("robot", name).Msg("cannot create robot")
		}
	}

	riskMgr := risk.NewManager(cfg.EngineConfig.AccountBalance, &risk.Config{
		RiskPercent:      cfg.RiskConfig.RiskPercent,
		MaxRiskPercent:   cfg.RiskConfig.MaxRiskPercent,
		MinLotSize:       0.01,
		MaxLotSize:       10.0,
		MaxOpenPositions: cfg.RiskConfig.MaxOpenPositions,
		MaxDailyLossPct:  cfg.RiskConfig.MaxDailyLossPct,
	}, log)

	trailing := risk.NewTrailingStopManager(&risk.TrailingConfig{
		Enabled:        cfg.TrailingConfig.Enabled,
		ActivationPips: cfg.TrailingConfig.ActivationPips,
		TrailPips:      cfg.TrailingConfig.TrailPips,
	}, log)

	var repo *database.TradeRepository
	if cfg.DatabaseConfig.Enabled {
		db, err := database.NewDB(ctx, database.Config{
			Host:     cfg.DatabaseConfig.Host,
			Port:     cfg.DatabaseConfig.Port,
			User:     cfg.DatabaseConfig.User,
			Password: cfg.DatabaseConfig.Password,
			Database: cfg.DatabaseConfig.Database,
			SSLMode:  cfg.DatabaseConfig.SSLMode,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()
		if err := db.RunMigrations(ctx); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		repo = database.NewTradeRepository(db)
	}

	var snapshots *cache.AnalysisCache
	if cfg.RedisConfig.Enabled {
		snapshots = cache.NewAnalysisCache(cache.Config{
			Address:  cfg.RedisConfig.Address,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
			PoolSize: cfg.RedisConfig.PoolSize,
			TTL:      time.Duration(cfg.RedisConfig.TTLSecs) * time.Second,
		}, log)
	}

	f := newFeed(cfg.EngineConfig.Pairs, 200, time.Now().UnixNano())

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	log.Info().Msg("simulator running, Ctrl+C to stop")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case <-ticker.C:
			f.Advance()
			runCycle(ctx, f, manager, riskMgr, trailing, repo, snapshots, log)
		}
	}
}

// runCycle feeds every robot the latest candles and handles the outputs:
// position sizing for fresh signals, trailing-stop updates for open
// trades, optional persistence and snapshot caching.
func runCycle(
	ctx context.Context,
	f *feed,
	manager *robot.Manager,
	riskMgr *risk.Manager,
	trailing *risk.TrailingStopManager,
	repo *database.TradeRepository,
	snapshots *cache.AnalysisCache,
	log zerolog.Logger,
) {
	data := f.Data()

	for _, inst := range manager.List() {
		for _, pair := range inst.Robot.Pairs {
			candles, ok := data[pair]
			if !ok {
				continue
			}

			hadTrade := inst.Robot.HasOpenTrade(pair)
			analysis := inst.Robot.FullAnalysis(pair, candles)

			if snapshots != nil {
				if err := snapshots.PutAnalysis(ctx, inst.Robot.Name, &analysis); err != nil {
					log.Warn().Err(err).Str("pair", pair).Msg("snapshot cache write failed")
				}
			}

			if sig := analysis.InstantSignal; sig != nil {
				handleSignal(ctx, sig, riskMgr, trailing, repo, inst.Robot.Name, log)
			}

			// Track trailing stops against the live price.
			price := f.Price(pair)
			if update := trailing.UpdatePrice(pair, price); update != nil && update.IsTriggered {
				log.Info().
					Str("pair", pair).
					Float64("trigger_price", update.TriggerPrice).
					Msg("trailing stop hit")
				trailing.RemovePosition(pair)
			}

			// Settle closed trades against the risk ledger.
			if hadTrade && !inst.Robot.HasOpenTrade(pair) {
				history := inst.Robot.TradeHistory()
				closed := history[len(history)-1]
				riskMgr.RegisterPositionClose(closed.PnLPips)
				trailing.RemovePosition(pair)
				if repo != nil {
					if err := repo.SaveTrade(ctx, inst.Robot.Name, &closed); err != nil {
						log.Warn().Err(err).Str("pair", pair).Msg("trade persist failed")
					}
				}
			}
		}
	}
}

func handleSignal(
	ctx context.Context,
	sig *robot.Signal,
	riskMgr *risk.Manager,
	trailing *risk.TrailingStopManager,
	repo *database.TradeRepository,
	robotName string,
	log zerolog.Logger,
) {
	slPips := market.PriceToPips(sig.Pair, sig.EntryPrice-sig.SLPrice)
	tpPips := market.PriceToPips(sig.Pair, sig.TPPrice-sig.EntryPrice)

	validation := riskMgr.ValidateTrade(sig.Pair, slPips, tpPips, 1.0)
	if !validation.Valid {
		log.Warn().
			Str("pair", sig.Pair).
			Strs("issues", validation.Issues).
			Msg("signal rejected by trade validation")
		return
	}

	if ok, reason := riskMgr.CanOpenPosition(); !ok {
		log.Warn().Str("pair", sig.Pair).Str("reason", reason).Msg("position blocked")
		return
	}

	size := riskMgr.PositionSizeFor(sig.Pair, slPips, tpPips, 0)
	riskMgr.RegisterPositionOpen()

	log.Info().
		Str("robot", robotName).
		Str("pair", sig.Pair).
		Str("direction", string(sig.Direction)).
		Float64("entry", sig.EntryPrice).
		Float64("sl", sig.SLPrice).
		Float64("tp", sig.TPPrice).
		Float64("lots", size.Lots).
		Int("probability", sig.Probability).
		Str("reason", sig.Reason).
		Msg("signal")

	trailing.AddPosition(sig.Pair, sig.Direction, sig.EntryPrice, sig.SLPrice)

	if repo != nil {
		if err := repo.SaveSignal(ctx, robotName, sig); err != nil {
			log.Warn().Err(err).Str("pair", sig.Pair).Msg("signal persist failed")
		}
	}
}
