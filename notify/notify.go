package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/journal"
)

// ErrTransport wraps every delivery failure. Nothing outside this package
// acts on it; the dispatcher logs and drops it.
var ErrTransport = errors.New("notification transport failed")

// Event describes one position transition.
type Event struct {
	Symbol  string
	Action  journal.Action
	Price   float64
	Amount  float64
	Tag     string
	Reason  string
	PnL     float64
	Context indicators.Context
	Time    time.Time
}

// Title is a one-line summary used for subjects and push messages.
func (e Event) Title() string {
	s := fmt.Sprintf("%s %s @ %.4f", e.Symbol, e.Action, e.Price)
	if e.Tag != "" {
		s += " (" + e.Tag + ")"
	}
	return s
}

// Notifier delivers an event over one medium.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, e Event) error

func (f NotifierFunc) Notify(ctx context.Context, e Event) error { return f(ctx, e) }

// Dispatcher fans an event out to every notifier. Failures and panics are
// logged and never returned.
type Dispatcher struct {
	notifiers []Notifier
	log       zerolog.Logger
}

func NewDispatcher(log zerolog.Logger, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{
		notifiers: notifiers,
		log:       log.With().Str("component", "notify").Logger(),
	}
}

// Add registers another notifier.
func (d *Dispatcher) Add(n Notifier) { d.notifiers = append(d.notifiers, n) }

// Len is the number of registered notifiers.
func (d *Dispatcher) Len() int { return len(d.notifiers) }

func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	for i, n := range d.notifiers {
		d.deliver(ctx, i, n, e)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, i int, n Notifier, e Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Int("notifier", i).Str("symbol", e.Symbol).Interface("panic", r).Msg("notifier panicked")
		}
	}()
	if err := n.Notify(ctx, e); err != nil {
		d.log.Warn().Err(err).Int("notifier", i).Str("symbol", e.Symbol).Str("action", string(e.Action)).Msg("notification dropped")
	}
}
