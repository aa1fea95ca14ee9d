package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/idiomquiz/internal/model"
)

// Gateway loads and upserts whole profiles. Writes are read-modify-write
// without transactions: two sessions saving the same name race and the later
// write replaces the whole record.
type Gateway struct {
	table      Table
	maxStamina int
	now        func() time.Time
	log        logrus.FieldLogger
}

// NewGateway wraps a table. maxStamina bounds decoded HP values.
func NewGateway(table Table, maxStamina int, log logrus.FieldLogger) *Gateway {
	return &Gateway{table: table, maxStamina: maxStamina, now: time.Now, log: log}
}

// LoadAll reads every profile, named by row key. A store failure yields an empty, non-nil map
// together with the error, so "no users" and "unreachable" look the same to
// callers that only inspect the map. Undecodable rows are skipped.
func (g *Gateway) LoadAll(ctx context.Context) (map[string]model.Profile, error) {
	profiles := map[string]model.Profile{}
	rows, err := g.table.Rows(ctx)
	if err != nil {
		return profiles, fmt.Errorf("failed to load profiles: %w", err)
	}
	now := g.now()
	for _, row := range rows {
		p, ok := DecodeProfile(keyedRecord(row), now, g.maxStamina)
		if !ok {
			g.log.WithField("row", row.ID).Warn("skipping profile row without a name")
			continue
		}
		if _, dup := profiles[p.Name]; dup {
			// Find resolves to the first row, so keep that one.
			continue
		}
		profiles[p.Name] = p
	}
	return profiles, nil
}

// keyedRecord names the record after its row key, which is what Find and
// Upsert match on, so every row Upsert could overwrite is visible to LoadAll.
func keyedRecord(row Row) Record {
	key := strings.TrimSpace(row.Key)
	if key == "" || key == strings.TrimSpace(row.Record[ColName]) {
		return row.Record
	}
	rec := make(Record, len(row.Record)+1)
	for k, v := range row.Record {
		rec[k] = v
	}
	rec[ColName] = key
	return rec
}

// Upsert overwrites the record stored under the profile name or appends one.
func (g *Gateway) Upsert(ctx context.Context, p model.Profile) error {
	rec := EncodeProfile(p)
	row, found, err := g.table.Find(ctx, p.Name)
	if err != nil {
		return fmt.Errorf("failed to find profile %q: %w", p.Name, err)
	}
	if found {
		if err := g.table.UpdateRow(ctx, row.ID, p.Name, rec); err != nil {
			return fmt.Errorf("failed to update profile %q: %w", p.Name, err)
		}
		return nil
	}
	if _, err := g.table.AppendRow(ctx, p.Name, rec); err != nil {
		return fmt.Errorf("failed to append profile %q: %w", p.Name, err)
	}
	return nil
}

// Close closes the underlying table.
func (g *Gateway) Close() error {
	return g.table.Close()
}
