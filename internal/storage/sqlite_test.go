package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_EmptyDatabaseIsEmptyCorpus(t *testing.T) {
	store := newTestSQLiteStore(t)
	statutes, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(statutes) != 0 {
		t.Errorf("got %d statutes, want 0", len(statutes))
	}
}

func TestSQLiteStore_RoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	want := testStatutes()
	if err := store.SaveAll(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSQLiteStore_SaveAllReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	if err := store.SaveAll(ctx, testStatutes()); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAll(ctx, testStatutes()[1:]); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "공정거래법" {
		t.Errorf("got %+v, want single 공정거래법 statute", got)
	}
	count, err := store.CountStatutes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("CountStatutes = %d, want 1", count)
	}
}

func TestSQLiteStore_ArticleOrderWithinStatute(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	if err := store.SaveAll(ctx, testStatutes()); err != nil {
		t.Fatal(err)
	}
	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	articles := got[0].Articles
	if len(articles) != 2 || articles[0].Number != "1" || articles[1].Number != "5의2" {
		t.Errorf("article order not preserved: %+v", articles)
	}
}
