package strategies

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/market"
)

// ErrStrategyFailed marks an opinion that could not be formed. The aggregator
// turns it into a NEUTRAL vote.
var ErrStrategyFailed = errors.New("strategy failed")

// Signal is a strategy's directional opinion.
type Signal string

const (
	Neutral Signal = "NEUTRAL"
	Long    Signal = "LONG"
	Short   Signal = "SHORT"
)

// Side maps LONG and SHORT to position sides; NEUTRAL maps to Flat.
func (s Signal) Side() market.Side {
	switch s {
	case Long:
		return market.Long
	case Short:
		return market.Short
	default:
		return market.Flat
	}
}

// Opinion is one strategy's view for one cycle. StopLoss and TakeProfit are
// suggestions and may be nil.
type Opinion struct {
	Signal     Signal   `json:"signal"`
	Reason     string   `json:"reason"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`
}

func neutral(reason string) Opinion {
	return Opinion{Signal: Neutral, Reason: reason}
}

// Strategy analyzes candles and their technical context. Implementations must
// not keep state between calls.
type Strategy interface {
	Name() string
	Analyze(candles []market.Candle, tc indicators.Context) (Opinion, error)
}

// Options are construction-time parameters shared by all strategies.
type Options struct {
	// Tolerance is the absolute allowed deviation of harmonic ratios.
	Tolerance float64
}

func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// Factory builds a strategy from options.
type Factory func(Options) Strategy

var registry = map[string]Factory{}

// Register adds a factory under name and any aliases. Names are matched
// case-insensitively with '-' and '_' treated alike.
func Register(f Factory, names ...string) {
	for _, n := range names {
		registry[normalize(n)] = f
	}
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// New returns the strategy registered under name.
func New(name string, opts Options) (Strategy, error) {
	f, ok := registry[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return f(opts), nil
}

// Names lists the canonical strategy names.
func Names() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range registry {
		n := f(DefaultOptions()).Name()
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Build resolves every name. Duplicates after resolution are dropped.
func Build(names []string, opts Options) ([]Strategy, error) {
	var (
		out  []Strategy
		seen = map[string]bool{}
	)
	for _, n := range names {
		s, err := New(n, opts)
		if err != nil {
			return nil, err
		}
		if seen[s.Name()] {
			continue
		}
		seen[s.Name()] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errors.New("no strategies configured")
	}
	return out, nil
}

func init() {
	Register(func(Options) Strategy { return MACross{} }, "ma_cross", "macross", "MACrossStrategy")
	Register(func(o Options) Strategy { return NewHarmonic(o.Tolerance) }, "harmonic", "HarmonicStrategy")
}
