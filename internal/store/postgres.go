package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTable is a sheet shared through a PostgreSQL database.
type PostgresTable struct {
	pool  *pgxpool.Pool
	table string
}

// OpenPostgres connects to dsn and creates the table when missing.
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresTable, error) {
	name, err := checkTableName(table)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	pt := &PostgresTable{pool: pool, table: name}
	if err := pt.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pt, nil
}

func (p *PostgresTable) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			row_id BIGSERIAL PRIMARY KEY,
			key TEXT NOT NULL,
			cells TEXT NOT NULL
		)`, p.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_key ON %s(key)`, p.table, p.table),
	}
	for _, stmt := range stmts {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the pool.
func (p *PostgresTable) Close() error {
	p.pool.Close()
	return nil
}

// Rows returns every row in insertion order.
func (p *PostgresTable) Rows(ctx context.Context) ([]Row, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`SELECT row_id, key, cells FROM %s ORDER BY row_id ASC`, p.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
	return result, rows.Err()
}

// Find returns the first row stored under key.
func (p *PostgresTable) Find(ctx context.Context, key string) (Row, bool, error) {
	var row Row
	var cells string
	err := p.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT row_id, key, cells FROM %s WHERE key = $1 ORDER BY row_id ASC LIMIT 1`, p.table), key,
	).Scan(&row.ID, &row.Key, &cells)
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, false, nil
	}
	if err != nil {
		return Row{}, false, err
	}
	row.Record = decodeCells(cells)
	return row, true, nil
}

// UpdateRow overwrites every cell of an existing row.
func (p *PostgresTable) UpdateRow(ctx context.Context, id int64, key string, rec Record) error {
	cells, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET key = $1, cells = $2 WHERE row_id = $3`, p.table), key, string(cells), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRowNotFound
	}
	return nil
}

// AppendRow adds a new row and returns its handle.
func (p *PostgresTable) AppendRow(ctx context.Context, key string, rec Record) (int64, error) {
	cells, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	var id int64
	err = p.pool.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, cells) VALUES ($1, $2) RETURNING row_id`, p.table), key, string(cells),
	).Scan(&id)
	return id, err
}
