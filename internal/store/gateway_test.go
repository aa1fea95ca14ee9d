package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/idiomquiz/internal/logging"
	"github.com/verte-zerg/idiomquiz/internal/model"
)

type brokenTable struct{}

var errOffline = errors.New("offline")

func (brokenTable) Rows(context.Context) ([]Row, error) {
	return nil, errOffline
}

func (brokenTable) Find(context.Context, string) (Row, bool, error) {
	return Row{}, false, errOffline
}

func (brokenTable) UpdateRow(context.Context, int64, string, Record) error {
	return errOffline
}

func (brokenTable) AppendRow(context.Context, string, Record) (int64, error) {
	return 0, errOffline
}

func (brokenTable) Close() error { return nil }

func TestGatewayUpsertUpdatesInPlace(t *testing.T) {
	st := openTestTable(t)
	gw := NewGateway(st, 10, logging.Discard())
	ctx := context.Background()

	p := model.NewProfile("Harry", "1234", 10, time.Unix(1_700_000_000, 0))
	if err := gw.Upsert(ctx, p); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	p.XP = 50
	p.Badges = []string{"Apprentice"}
	if err := gw.Upsert(ctx, p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if err := gw.Upsert(ctx, model.NewProfile("Ron", "5678", 10, time.Unix(1_700_000_000, 0))); err != nil {
		t.Fatalf("third upsert: %v", err)
	}

	rows, err := st.Rows(ctx)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after update+append, got %d", len(rows))
	}

	profiles, err := gw.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	harry := profiles["Harry"]
	if harry.XP != 50 || len(harry.Badges) != 1 || harry.Credential != "1234" {
		t.Fatalf("unexpected Harry: %+v", harry)
	}
}

func TestGatewayLoadAllSkipsNamelessRows(t *testing.T) {
	st := openTestTable(t)
	ctx := context.Background()
	if _, err := st.AppendRow(ctx, "", Record{ColXP: "5"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := st.AppendRow(ctx, "Luna", Record{ColName: "Luna", ColXP: "abc"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	profiles, err := NewGateway(st, 10, logging.Discard()).LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(profiles) != 1 || profiles["Luna"].XP != 0 {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}

func TestGatewayUnreachableStore(t *testing.T) {
	gw := NewGateway(brokenTable{}, 10, logging.Discard())
	ctx := context.Background()

	profiles, err := gw.LoadAll(ctx)
	if !errors.Is(err, errOffline) {
		t.Fatalf("expected offline error, got %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Fatalf("expected empty non-nil map, got %#v", profiles)
	}
	if err := gw.Upsert(ctx, model.Profile{Name: "x"}); !errors.Is(err, errOffline) {
		t.Fatalf("expected offline error on upsert, got %v", err)
	}
}

func TestGatewayLoadAllNamesRowsByKey(t *testing.T) {
	st := openTestTable(t)
	ctx := context.Background()
	if _, err := st.AppendRow(ctx, "Harry", Record{ColPassword: "9999", ColXP: "500"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := st.AppendRow(ctx, "Ron", Record{ColName: "  ", ColXP: "20"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	profiles, err := NewGateway(st, 10, logging.Discard()).LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	harry, ok := profiles["Harry"]
	if !ok || harry.XP != 500 || harry.Credential != "9999" {
		t.Fatalf("expected Harry from row key, got %+v", profiles)
	}
	if profiles["Ron"].XP != 20 {
		t.Fatalf("expected Ron from row key, got %+v", profiles)
	}
}
