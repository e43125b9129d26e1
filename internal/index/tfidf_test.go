package index

import (
	"context"
	"math"
	"testing"

	"github.com/hanbeop/lawdex/internal/models"
)

func testDocs() []models.Document {
	return []models.Document{
		{ID: "하도급법#full", Text: "하도급법 하도급거래 공정화에 관한 법률 전체 내용", Label: "하도급법", Kind: models.KindFullStatute},
		{ID: "하도급법#a0", Text: "하도급법 제1조 목적 하도급거래의 공정화를 도모한다", Label: "하도급법 제1조", Kind: models.KindArticle},
		{ID: "하도급법#a1", Text: "하도급법 제4조 부당한 하도급대금의 결정 금지 원사업자는 부당하게 대금을 결정하여서는 아니 된다", Label: "하도급법 제4조", Kind: models.KindArticle},
		{ID: "공정거래법#full", Text: "공정거래법 시장지배적 지위의 남용과 과도한 경제력의 집중을 방지한다", Label: "공정거래법", Kind: models.KindFullStatute},
	}
}

func TestBuildTFIDF_EmptyCorpus(t *testing.T) {
	idx := BuildTFIDF(nil, 1000)
	if idx.Size() != 0 {
		t.Errorf("Size = %d, want 0", idx.Size())
	}
	results, err := idx.Query(context.Background(), "하도급 대금", 5)
	if err != nil {
		t.Fatalf("empty index query must not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestTFIDF_QueryReturnsMinKDocs(t *testing.T) {
	idx := BuildTFIDF(testDocs(), 1000)
	ctx := context.Background()

	for _, k := range []int{1, 2, 4, 10} {
		results, err := idx.Query(ctx, "하도급 대금", k)
		if err != nil {
			t.Fatal(err)
		}
		want := k
		if want > idx.Size() {
			want = idx.Size()
		}
		if len(results) != want {
			t.Errorf("k=%d: got %d results, want %d", k, len(results), want)
		}
	}
}

func TestTFIDF_ScoresInRangeSortedDescending(t *testing.T) {
	idx := BuildTFIDF(testDocs(), 1000)
	results, err := idx.Query(context.Background(), "부당한 하도급대금 결정", 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r.Score < 0 || r.Score > 1+1e-9 {
			t.Errorf("score %v out of [0,1]", r.Score)
		}
		if r.Rank != i {
			t.Errorf("rank = %d at position %d", r.Rank, i)
		}
		if i > 0 && results[i-1].Score < r.Score {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
}

func TestTFIDF_ExactMatchRanksFirstWithMaxScore(t *testing.T) {
	docs := testDocs()
	idx := BuildTFIDF(docs, 1000)
	// Scenario identical to an indexed article's surface text.
	results, err := idx.Query(context.Background(), docs[2].Text, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Document.ID != docs[2].ID {
		t.Errorf("top result = %s, want %s", results[0].Document.ID, docs[2].ID)
	}
	if results[0].Rank != 0 {
		t.Errorf("rank = %d, want 0", results[0].Rank)
	}
	if math.Abs(results[0].Score-1.0) > 1e-9 {
		t.Errorf("exact match score = %v, want 1.0", results[0].Score)
	}
}

func TestTFIDF_TiesPreserveDocumentOrder(t *testing.T) {
	docs := []models.Document{
		{ID: "a", Text: "동일한 본문 내용", Label: "a"},
		{ID: "b", Text: "동일한 본문 내용", Label: "b"},
		{ID: "c", Text: "동일한 본문 내용", Label: "c"},
	}
	idx := BuildTFIDF(docs, 1000)
	results, err := idx.Query(context.Background(), "동일한 본문", 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].Document.ID != want {
			t.Errorf("position %d = %s, want %s (stable tie-break)", i, results[i].Document.ID, want)
		}
	}
}

func TestTFIDF_QueryOutsideVocabulary(t *testing.T) {
	idx := BuildTFIDF(testDocs(), 1000)
	results, err := idx.Query(context.Background(), "quantum entanglement", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Score != 0 {
			t.Errorf("out-of-vocabulary query should score 0, got %v", r.Score)
		}
	}
}

func TestTFIDF_BoundedVocabulary(t *testing.T) {
	idx := BuildTFIDF(testDocs(), 3)
	if idx.VocabularySize() != 3 {
		t.Errorf("VocabularySize = %d, want 3", idx.VocabularySize())
	}
}

func TestTFIDF_Deterministic(t *testing.T) {
	a := BuildTFIDF(testDocs(), 10)
	b := BuildTFIDF(testDocs(), 10)
	ra, _ := a.Query(context.Background(), "하도급 대금 부당 결정", 4)
	rb, _ := b.Query(context.Background(), "하도급 대금 부당 결정", 4)
	if len(ra) != len(rb) {
		t.Fatalf("result lengths differ: %d vs %d", len(ra), len(rb))
	}
	for i := range ra {
		if ra[i].Document.ID != rb[i].Document.ID || ra[i].Score != rb[i].Score {
			t.Errorf("rebuild changed result %d: %+v vs %+v", i, ra[i], rb[i])
		}
	}
}

func TestSelectVocabulary_FrequencyThenAlphabetical(t *testing.T) {
	freq := map[string]int{"나나": 5, "가가": 5, "다다": 3, "라라": 1}
	terms := selectVocabulary(freq, 3)
	want := []string{"가가", "나나", "다다"}
	if len(terms) != len(want) {
		t.Fatalf("got %v", terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms = %v, want %v", terms, want)
		}
	}
}
