package supply

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/woodpecker/puzzle"
)

// SQLiteCache keeps puzzle records in a sqlite database, one JSON record per id.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLite opens or creates the cache database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS puzzles(id TEXT NOT NULL PRIMARY KEY, record TEXT NOT NULL, stored INTEGER DEFAULT (UNIXEPOCH()))`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create puzzles table")
	}
	return &SQLiteCache{db: db}, nil
}

func (c *SQLiteCache) Get(ctx context.Context, id string) (*puzzle.Puzzle, error) {
	var record string
	if err := c.db.QueryRowContext(ctx, `select record from puzzles where id = ?`, id).Scan(&record); errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", id)
	}
	var p puzzle.Puzzle
	if err := json.Unmarshal([]byte(record), &p); err != nil {
		return nil, errors.Wrapf(err, "corrupt record for %s", id)
	}
	return &p, nil
}

func (c *SQLiteCache) Put(ctx context.Context, p *puzzle.Puzzle) error {
	if p.ID == "" {
		return errors.New("cannot cache a puzzle without id")
	}
	rec := *p
	rec.Attempts = 0
	b, err := json.Marshal(&rec)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := c.db.ExecContext(ctx, `insert into puzzles(id, record) values(?, ?) on conflict(id) do update set record = excluded.record, stored = UNIXEPOCH()`, p.ID, string(b)); err != nil {
		return errors.Wrapf(err, "failed to store %s", p.ID)
	}
	return nil
}

func (c *SQLiteCache) IDs(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `select id from puzzles order by id`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()
	var retVal []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.WithStack(err)
		}
		retVal = append(retVal, id)
	}
	return retVal, errors.WithStack(rows.Err())
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `delete from puzzles`)
	return errors.WithStack(err)
}

func (c *SQLiteCache) Close() error { return c.db.Close() }
