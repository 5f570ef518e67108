package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/notify"
)

// MarketRenderer renders the periodic report body for one symbol.
type MarketRenderer interface {
	MarketReport(ctx context.Context, symbol string, tc indicators.Context) string
}

// MarketReporter mails a technical overview of each symbol.
type MarketReporter struct {
	cfg    TraderConfig
	src    market.Source
	engine *indicators.Engine
	render MarketRenderer
	mail   notify.Mailer
	log    zerolog.Logger
}

func NewMarketReporter(cfg TraderConfig, src market.Source, engine *indicators.Engine,
	render MarketRenderer, mail notify.Mailer, log zerolog.Logger) *MarketReporter {
	if cfg.CandleLimit < engine.MinCandles() {
		cfg.CandleLimit = engine.MinCandles()
	}
	return &MarketReporter{
		cfg:    cfg,
		src:    src,
		engine: engine,
		render: render,
		mail:   mail,
		log:    log.With().Str("component", "reporter").Logger(),
	}
}

// Run reports every symbol and returns how many were sent. Failures are
// per symbol and only logged.
func (m *MarketReporter) Run(ctx context.Context) int {
	sent := 0
	for _, symbol := range m.cfg.Symbols {
		if err := m.report(ctx, symbol); err != nil {
			m.log.Warn().Err(err).Str("symbol", symbol).Msg("market report skipped")
			continue
		}
		sent++
	}
	return sent
}

func (m *MarketReporter) report(ctx context.Context, symbol string) error {
	candles, err := market.Fetch(ctx, m.src, symbol, m.cfg.Timeframe, m.cfg.CandleLimit)
	if err != nil {
		return err
	}
	tc, err := m.engine.Compute(symbol, candles)
	if err != nil {
		return err
	}

	body := m.render.MarketReport(ctx, symbol, tc)
	subject := fmt.Sprintf("[Market] %s %s trend %s", symbol, m.cfg.Timeframe, tc.Trend)
	return m.mail.Send(ctx, subject, body)
}
