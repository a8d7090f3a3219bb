package vector

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/viant/ktree/engine"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	if err := engine.RegisterVectorFunctions(); err != nil {
		t.Fatalf("RegisterVectorFunctions: %v", err)
	}
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := NewSQLiteStore(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

func TestSQLiteStore_PutCountGet(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	records := []Record{
		{Ordinal: 1, Embedding: []float32{0, 0}},
		{Ordinal: 2, Embedding: []float32{1, 1}},
		{Ordinal: 3, Embedding: []float32{2, 2}},
	}
	if err := store.Put(ctx, records); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	n, err := store.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count = %d, %v; want 3", n, err)
	}
	got, err := store.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get(2) failed: %v", err)
	}
	if got.Embedding[0] != 1 || got.Embedding[1] != 1 {
		t.Fatalf("Get(2) = %v, want [1 1]", got.Embedding)
	}
	if _, err := store.Get(ctx, 9); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("Get(9) err = %v, want sql.ErrNoRows", err)
	}

	// replacing keeps the count stable
	if err := store.Put(ctx, []Record{{Ordinal: 2, Embedding: []float32{5, 5}}}); err != nil {
		t.Fatalf("Put replace failed: %v", err)
	}
	if n, _ := store.Count(ctx); n != 3 {
		t.Fatalf("Count after replace = %d, want 3", n)
	}
}

func TestSQLiteStore_PutRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	err := store.Put(ctx, []Record{
		{Ordinal: 1, Embedding: []float32{1}},
		{Ordinal: 0, Embedding: []float32{1}},
	})
	if err == nil {
		t.Fatalf("expected error for ordinal 0")
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Fatalf("failed batch must roll back, found %d rows", n)
	}
	if err := store.Put(ctx, []Record{{Ordinal: 1}}); err == nil {
		t.Fatalf("expected error for missing embedding")
	}
	if err := store.Put(ctx, nil); err != nil {
		t.Fatalf("empty Put failed: %v", err)
	}
}

func TestSQLiteStore_Nearest(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	if err := store.Put(ctx, []Record{
		{Ordinal: 1, Embedding: []float32{0, 0}},
		{Ordinal: 2, Embedding: []float32{10, 10}},
		{Ordinal: 3, Embedding: []float32{3, 4}},
	}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	matches, err := store.Nearest(ctx, []float32{3, 3}, 2)
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Nearest returned %d matches, want 2", len(matches))
	}
	if matches[0].Ordinal != 3 || matches[1].Ordinal != 1 {
		t.Fatalf("Nearest order = [%d %d], want [3 1]", matches[0].Ordinal, matches[1].Ordinal)
	}
	if matches[0].Distance != 1 {
		t.Fatalf("Nearest distance = %v, want 1", matches[0].Distance)
	}
	if matches[1].Similarity != 0 {
		t.Fatalf("similarity to the zero vector = %v, want 0", matches[1].Similarity)
	}

	if none, err := store.Nearest(ctx, []float32{1, 2, 3}, 5); err != nil || len(none) != 0 {
		t.Fatalf("Nearest with other dims = %v, %v; want empty", none, err)
	}
}

func TestSQLiteStore_Meta(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	if err := store.SetMeta(ctx, "order", "4"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}
	if err := store.SetMeta(ctx, "order", "8"); err != nil {
		t.Fatalf("SetMeta overwrite failed: %v", err)
	}
	v, err := store.Meta(ctx, "order")
	if err != nil || v != "8" {
		t.Fatalf("Meta(order) = %q, %v; want 8", v, err)
	}
	if _, err := store.Meta(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("Meta(missing) err = %v, want sql.ErrNoRows", err)
	}
}

func TestSQLiteStore_Replace(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	if err := store.Replace(ctx, []Record{
		{Ordinal: 1, Embedding: []float32{1}},
		{Ordinal: 2, Embedding: []float32{2}},
		{Ordinal: 3, Embedding: []float32{3}},
	}, map[string]string{"vectors": "3", "stale": "yes"}); err != nil {
		t.Fatalf("first Replace failed: %v", err)
	}
	if err := store.Replace(ctx, []Record{{Ordinal: 1, Embedding: []float32{9}}}, map[string]string{"vectors": "1"}); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Fatalf("Count after Replace = %d, want 1", n)
	}
	if v, _ := store.Meta(ctx, "vectors"); v != "1" {
		t.Fatalf("Meta(vectors) = %q, want 1", v)
	}
	if _, err := store.Meta(ctx, "stale"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("Meta(stale) err = %v, want sql.ErrNoRows", err)
	}

	// a failing batch keeps the previous content
	if err := store.Replace(ctx, []Record{{Ordinal: 0, Embedding: []float32{1}}}, nil); err == nil {
		t.Fatalf("expected error for ordinal 0")
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Fatalf("Count after failed Replace = %d, want 1", n)
	}
	if v, _ := store.Meta(ctx, "vectors"); v != "1" {
		t.Fatalf("Meta(vectors) after failed Replace = %q, want 1", v)
	}
}
