package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/bot"
	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/exchange/bingx"
	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/notify"
	"github.com/rustyeddy/cryptobot/qa"
	"github.com/rustyeddy/cryptobot/report"
	"github.com/rustyeddy/cryptobot/sim"
	"github.com/rustyeddy/cryptobot/strategies"
)

// app holds every long-lived component of the bot.
type app struct {
	cfg       *config.Config
	src       market.Source
	gw        broker.Gateway
	journal   journal.Journal
	trader    *bot.Trader
	reporter  *bot.MarketReporter
	qa        *qa.Service
	scheduler *bot.Scheduler
	closers   []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn().Err(err).Msg("close")
		}
	}
}

func sizing(cfg *config.Config) ledger.Sizing {
	return ledger.Sizing{Default: cfg.Trading.DefaultAmount, PerSymbol: cfg.Trading.OrderSizes}
}

func buildApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg}

	client := bingx.New(cfg.Exchange.APIKey, cfg.Exchange.SecretKey, cfg.Exchange.BaseURL, log)
	a.src = client
	if cfg.Cache.Enabled {
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		a.closers = append(a.closers, rc.Close)
		a.src = market.NewCachedSource(client, rc, cfg.CacheTTL(), log)
	}

	if cfg.Exchange.DryRun {
		a.gw = sim.NewEngine(cfg.Exchange.StartBalance, cfg.Risk.FeeRate, log)
	} else {
		a.gw = client
	}

	j, err := journal.Open(cfg.Journal.Type, cfg.Journal.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}
	a.journal = j
	a.closers = append(a.closers, j.Close)

	strats, err := strategies.Build(cfg.Trading.Strategies, cfg.StrategyOptions())
	if err != nil {
		a.Close()
		return nil, err
	}

	engine := indicators.NewEngine(cfg.Indicators)
	led := ledger.New(a.gw, j, cfg.Risk, sizing(cfg), cfg.Exchange.StartBalance, log)

	mailer := notify.NewEmail(notify.SMTPConfig{
		Enabled:  cfg.Email.Enabled,
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		To:       cfg.Email.To,
		Footer:   "Timeframe " + cfg.Trading.Timeframe,
	}, log)

	var gen report.Generator
	if cfg.AI.Enabled {
		gen = report.NewGemini(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
	}
	reports := report.NewService(gen, report.Options{AI: cfg.AI.Enabled, Timeframe: cfg.Trading.Timeframe}, log)

	dispatch := notify.NewDispatcher(log)
	if cfg.Email.Enabled {
		dispatch.Add(notify.NewMailNotifier(reports, mailer))
	}
	if cfg.Line.Enabled {
		dispatch.Add(notify.NewLine(cfg.Line.Token, cfg.Line.UserID, "", log))
	}

	tc := bot.TraderConfig{
		Symbols:     cfg.Trading.Symbols,
		Timeframe:   cfg.Trading.Timeframe,
		CandleLimit: cfg.Trading.CandleLimit,
		Leverage:    cfg.Exchange.Leverage,
	}
	a.trader = bot.NewTrader(tc, a.src, a.gw, engine, strategies.NewAggregator(strats, log), led, dispatch, log)

	trade, rep, qaEvery, quantum, cooldown := cfg.Schedule.Intervals()
	a.scheduler = bot.NewScheduler(quantum, cooldown, log)

	if cfg.QA.Enabled {
		a.qa = qa.NewService(qa.NewStore(cfg.QA.File), reports, mailer, log)
		a.scheduler.Add(bot.Task{Name: "qa", Interval: qaEvery, Run: func(ctx context.Context) error {
			_, err := a.qa.Process(ctx)
			return err
		}})
	}

	a.scheduler.Add(bot.Task{Name: "trade", Interval: trade, Run: a.trader.RunCycle})

	if cfg.Schedule.MarketReport && cfg.Email.Enabled {
		a.reporter = bot.NewMarketReporter(tc, a.src, engine, reports, mailer, log)
		a.scheduler.Add(bot.Task{Name: "report", Interval: rep, Run: func(ctx context.Context) error {
			a.reporter.Run(ctx)
			return nil
		}})
	}

	return a, nil
}
