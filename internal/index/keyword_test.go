package index

import (
	"context"
	"testing"

	"github.com/hanbeop/lawdex/internal/models"
)

func TestBuildKeyword_EmptyCorpus(t *testing.T) {
	idx, err := BuildKeyword(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	results, err := idx.Query(context.Background(), "하도급", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestKeywordIndex_MatchRanksRelevantFirst(t *testing.T) {
	idx, err := BuildKeyword(testDocs())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	results, err := idx.Query(context.Background(), "시장지배적 지위의 남용", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result")
	}
	if results[0].Document.ID != "공정거래법#full" {
		t.Errorf("top result = %s, want 공정거래법#full", results[0].Document.ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Errorf("not sorted descending at %d", i)
		}
	}
}

func TestKeywordIndex_NoMatchesReturnsEmpty(t *testing.T) {
	idx, err := BuildKeyword(testDocs())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	results, err := idx.Query(context.Background(), "zzzzz", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestKeywordIndex_RepeatedTitleKeepsBothDocuments(t *testing.T) {
	// The same law collected under two keywords appears twice in the corpus
	// with distinct position-keyed IDs; both copies must stay addressable.
	docs := []models.Document{
		{ID: "s0#full", Text: "하도급법 하도급거래의 공정화를 도모한다", Label: "하도급법", Kind: models.KindFullStatute},
		{ID: "s1#full", Text: "하도급법 하도급거래의 공정화를 도모한다", Label: "하도급법", Kind: models.KindFullStatute},
	}
	idx, err := BuildKeyword(docs)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	results, err := idx.Query(context.Background(), "하도급거래 공정화", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both copies in results, got %d", len(results))
	}
	if results[0].Document.ID == results[1].Document.ID {
		t.Errorf("both results carry ID %s", results[0].Document.ID)
	}
}

func TestKeywordIndex_RespectsK(t *testing.T) {
	idx, err := BuildKeyword(testDocs())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	results, err := idx.Query(context.Background(), "하도급법", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 1 {
		t.Errorf("k=1 returned %d results", len(results))
	}
}
