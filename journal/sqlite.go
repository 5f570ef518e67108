package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/cryptobot/pkg/id"
)

// SQLite stores entries in a single table. Insertion order is kept in seq.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrPersistence, path, err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: schema: %v", ErrPersistence, err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Append(e Entry) error {
	if e.ID == "" {
		e.ID = id.NewAt(e.Time)
	}
	_, err := j.db.Exec(`
		INSERT INTO entries
		(id, time, symbol, action, price, amount, tag, realized_pnl, equity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Time.UTC(), e.Symbol, string(e.Action), e.Price,
		e.Amount, e.Tag, e.RealizedPnL, e.Equity,
	)
	if err != nil {
		return fmt.Errorf("%w: insert %s: %v", ErrPersistence, e.ID, err)
	}
	return nil
}

func (j *SQLite) ReplayAll() ([]Entry, error) {
	return j.query(`SELECT ` + entryColumns + ` FROM entries ORDER BY seq ASC`)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
