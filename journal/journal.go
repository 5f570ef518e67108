package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/cryptobot/market"
)

// ErrPersistence wraps every failure to read or write the durable journal.
var ErrPersistence = errors.New("journal persistence failed")

// TimeLayout is the on-disk timestamp format. Times are stored in UTC.
const TimeLayout = "2006-01-02 15:04:05"

type Action string

const (
	OpenLong   Action = "OPEN_LONG"
	OpenShort  Action = "OPEN_SHORT"
	CloseLong  Action = "CLOSE_LONG"
	CloseShort Action = "CLOSE_SHORT"
)

// OpenAction is the action recorded when side is opened.
func OpenAction(side market.Side) Action {
	if side == market.Short {
		return OpenShort
	}
	return OpenLong
}

// CloseAction is the action recorded when side is closed.
func CloseAction(side market.Side) Action {
	if side == market.Short {
		return CloseShort
	}
	return CloseLong
}

// IsClose reports whether the action realizes P&L.
func (a Action) IsClose() bool { return a == CloseLong || a == CloseShort }

// Side is the position side the action refers to.
func (a Action) Side() market.Side {
	switch a {
	case OpenLong, CloseLong:
		return market.Long
	case OpenShort, CloseShort:
		return market.Short
	}
	return market.Flat
}

func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case OpenLong, OpenShort, CloseLong, CloseShort:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Entry is one journal record. Entries are written once and never updated.
type Entry struct {
	ID          string
	Time        time.Time
	Symbol      string
	Action      Action
	Price       float64
	Amount      float64
	Tag         string
	RealizedPnL float64
	Equity      float64
}

// Journal is an append-only trade log.
type Journal interface {
	Append(Entry) error
	// ReplayAll returns every entry, oldest first.
	ReplayAll() ([]Entry, error)
	Close() error
}

// Journal backend kinds.
const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// ParseKind normalizes a backend name. Empty selects KindJSON.
func ParseKind(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "json":
		return KindJSON, nil
	case "sqlite", "sqlite3":
		return KindSQLite, nil
	case "memory", "mem":
		return KindMemory, nil
	default:
		return "", fmt.Errorf("unknown journal kind %q (supported: json, sqlite, memory)", kind)
	}
}

// Open returns the journal backend named by kind.
func Open(kind, path string) (Journal, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindSQLite:
		return NewSQLite(path)
	case KindMemory:
		return NewMemory(), nil
	default:
		return NewJSONFile(path), nil
	}
}
