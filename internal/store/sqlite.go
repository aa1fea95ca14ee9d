package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteTable is a sheet stored in a local SQLite file.
type SQLiteTable struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path, table string) (*SQLiteTable, error) {
	name, err := checkTableName(table)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	st := &SQLiteTable{db: db, table: name}
	if err := st.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *SQLiteTable) Close() error {
	return s.db.Close()
}

func (s *SQLiteTable) migrate() error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			row_id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL,
			cells TEXT NOT NULL
		);`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_key ON %s(key);`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns every row in insertion order.
func (s *SQLiteTable) Rows(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT row_id, key, cells FROM %s ORDER BY row_id ASC`, s.table))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []Row
	for rows.Next() {
		var row Row
		var cells string
		if err := rows.Scan(&row.ID, &row.Key, &cells); err != nil {
			return nil, err
		}
		row.Record = decodeCells(cells)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Find returns the first row stored under key.
func (s *SQLiteTable) Find(ctx context.Context, key string) (Row, bool, error) {
	var row Row
	var cells string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT row_id, key, cells FROM %s WHERE key = ? ORDER BY row_id ASC LIMIT 1`, s.table), key,
	).Scan(&row.ID, &row.Key, &cells)
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, false, nil
	}
	if err != nil {
		return Row{}, false, err
	}
	row.Record = decodeCells(cells)
	return row, true, nil
}

// UpdateRow overwrites every cell of an existing row.
func (s *SQLiteTable) UpdateRow(ctx context.Context, id int64, key string, rec Record) error {
	cells, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET key = ?, cells = ? WHERE row_id = ?`, s.table), key, string(cells), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRowNotFound
	}
	return nil
}

// AppendRow adds a new row and returns its handle.
func (s *SQLiteTable) AppendRow(ctx context.Context, key string, rec Record) (int64, error) {
	cells, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, cells) VALUES (?, ?)`, s.table), key, string(cells))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// decodeCells tolerates hand-edited rows: anything that is not a JSON object of
// strings yields whatever string cells could be recovered.
func decodeCells(text string) Record {
	rec := Record{}
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return rec
	}
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			rec[k] = val
		case float64:
			rec[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			rec[k] = strconv.FormatBool(val)
		}
	}
	return rec
}
