package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const entryColumns = `id, time, symbol, action, price, amount, tag, realized_pnl, equity`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e      Entry
		action string
	)
	if err := s.Scan(
		&e.ID,
		&e.Time,
		&e.Symbol,
		&action,
		&e.Price,
		&e.Amount,
		&e.Tag,
		&e.RealizedPnL,
		&e.Equity,
	); err != nil {
		return Entry{}, err
	}
	e.Action = Action(action)
	e.Time = e.Time.UTC()
	return e, nil
}

// GetEntry returns a single entry by ID.
func (j *SQLite) GetEntry(entryID string) (Entry, error) {
	row := j.db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ?`, entryID)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("entry %q not found", entryID)
		}
		return Entry{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return e, nil
}

// ListBetween returns entries whose time is within [start, end).
func (j *SQLite) ListBetween(start, end time.Time) ([]Entry, error) {
	return j.query(`
		SELECT `+entryColumns+`
		FROM entries
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, seq ASC`, start.UTC(), end.UTC())
}

// ListSymbol returns every entry for symbol, oldest first.
func (j *SQLite) ListSymbol(symbol string) ([]Entry, error) {
	return j.query(`SELECT `+entryColumns+` FROM entries WHERE symbol = ? ORDER BY seq ASC`, symbol)
}

func (j *SQLite) query(q string, args ...any) ([]Entry, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return out, nil
}
