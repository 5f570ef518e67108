package strategies

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/market"
)

const conflictReason = "conflicting strategies"

// Vote is one strategy's contribution to a decision.
type Vote struct {
	Strategy string  `json:"strategy"`
	Opinion  Opinion `json:"opinion"`
	Err      error   `json:"-"`
}

func (v Vote) String() string {
	if v.Err != nil {
		return fmt.Sprintf("%s: NEUTRAL (%v)", v.Strategy, v.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", v.Strategy, v.Opinion.Signal, v.Opinion.Reason)
}

// Decision is the combined signal of a cycle.
type Decision struct {
	Signal Signal `json:"signal"`
	Reason string `json:"reason"`
	Votes  []Vote `json:"votes"`
	Longs  int    `json:"longs"`
	Shorts int    `json:"shorts"`
}

// Diagnostics returns one line per vote.
func (d Decision) Diagnostics() []string {
	out := make([]string, len(d.Votes))
	for i, v := range d.Votes {
		out[i] = v.String()
	}
	return out
}

// Aggregator combines strategy opinions. Any disagreement between LONG and
// SHORT votes yields NEUTRAL.
type Aggregator struct {
	strategies []Strategy
	log        zerolog.Logger
}

func NewAggregator(strategies []Strategy, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		strategies: strategies,
		log:        log.With().Str("component", "aggregator").Logger(),
	}
}

func (a *Aggregator) Strategies() []Strategy { return a.strategies }

// Combine evaluates every strategy. A failing or panicking strategy counts
// as a NEUTRAL vote and the cycle continues.
func (a *Aggregator) Combine(candles []market.Candle, tc indicators.Context) Decision {
	d := Decision{Signal: Neutral}
	var longs, shorts []string

	for _, s := range a.strategies {
		v := a.evaluate(s, candles, tc)
		d.Votes = append(d.Votes, v)

		switch v.Opinion.Signal {
		case Long:
			longs = append(longs, v.Opinion.Reason)
		case Short:
			shorts = append(shorts, v.Opinion.Reason)
		}
	}
	d.Longs, d.Shorts = len(longs), len(shorts)

	switch {
	case d.Longs > 0 && d.Shorts > 0:
		d.Reason = conflictReason
	case d.Longs > 0:
		d.Signal, d.Reason = Long, strings.Join(longs, "; ")
	case d.Shorts > 0:
		d.Signal, d.Reason = Short, strings.Join(shorts, "; ")
	}
	return d
}

func (a *Aggregator) evaluate(s Strategy, candles []market.Candle, tc indicators.Context) (v Vote) {
	v.Strategy = s.Name()
	defer func() {
		if r := recover(); r != nil {
			v.Err = fmt.Errorf("%w: %s panicked: %v", ErrStrategyFailed, s.Name(), r)
			v.Opinion = neutral(v.Err.Error())
			a.log.Error().Str("strategy", s.Name()).Str("symbol", tc.Symbol).Interface("panic", r).Msg("strategy panicked")
		}
	}()

	op, err := s.Analyze(candles, tc)
	if err != nil {
		v.Err = fmt.Errorf("%w: %s: %v", ErrStrategyFailed, s.Name(), err)
		v.Opinion = neutral(v.Err.Error())
		a.log.Warn().Err(err).Str("strategy", s.Name()).Str("symbol", tc.Symbol).Msg("strategy failed")
		return v
	}
	if op.Signal == "" {
		op.Signal = Neutral
	}
	v.Opinion = op
	a.log.Debug().Str("strategy", s.Name()).Str("symbol", tc.Symbol).Str("signal", string(op.Signal)).Str("reason", op.Reason).Msg("vote")
	return v
}
