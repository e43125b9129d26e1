package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hanbeop/lawdex/internal/engine"
	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/internal/segment"
	"github.com/hanbeop/lawdex/internal/storage"
)

// corpusJSON is a snapshot in the collector's on-disk format.
const corpusJSON = `[
  {
    "title": "하도급거래 공정화에 관한 법률",
    "url": "https://law.example/하도급법",
    "content": "제1조(목적) 이 법은 공정한 하도급거래 질서를 확립한다. 제4조(부당한 하도급대금의 결정 금지) 원사업자는 부당하게 하도급대금을 결정하여서는 아니 된다.",
    "articles": [
      {"number": "1", "title": "목적", "content": "이 법은 공정한 하도급거래 질서를 확립한다."},
      {"number": "4", "title": "부당한 하도급대금의 결정 금지", "content": "원사업자는 부당하게 하도급대금을 결정하여서는 아니 된다."}
    ],
    "keyword": "하도급"
  },
  {
    "title": "독점규제 및 공정거래에 관한 법률",
    "content": "제3조의2(시장지배적지위의 남용금지) 시장지배적사업자는 지위를 남용하는 행위를 하여서는 아니 된다.",
    "articles": [
      {"number": "3의2", "title": "시장지배적지위의 남용금지", "content": "시장지배적사업자는 지위를 남용하는 행위를 하여서는 아니 된다."}
    ],
    "keyword": "공정거래"
  }
]`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fair_trade_laws.json")
	if err := os.WriteFile(path, []byte(corpusJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestPipeline_SnapshotToAnalysis walks the full flow: JSON snapshot on disk,
// corpus load and index build, scenario retrieval, local analysis.
func TestPipeline_SnapshotToAnalysis(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDiskStore(writeSnapshot(t))
	eng := engine.New(store, engine.Options{MaxVocabulary: 1000})
	defer eng.Close()

	if err := eng.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	st := eng.Status()
	// 2 full-statute documents + 3 article documents.
	if st.StatuteCount != 2 || st.DocumentCount != 5 {
		t.Fatalf("status = %+v", st)
	}

	resp, err := eng.Search(ctx, models.ScenarioQuery{
		Scenario: "원사업자가 하도급대금을 부당하게 결정했다",
		TopK:     3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total != 3 {
		t.Fatalf("Total = %d", resp.Total)
	}
	top := resp.Results[0]
	if top.Rank != 0 || !strings.Contains(top.Document.Label, "하도급") {
		t.Errorf("top result = %+v", top)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i-1].Score < resp.Results[i].Score {
			t.Errorf("results not sorted at %d", i)
		}
	}

	analysis, err := eng.Analyze(ctx, models.ScenarioQuery{
		Scenario: "원사업자가 하도급대금을 부당하게 결정했다",
		Mode:     models.ModeLocal,
	})
	if err != nil {
		t.Fatal(err)
	}
	if analysis.Mode != models.ModeLocal || analysis.FallbackReason != "" {
		t.Errorf("analysis = %+v", analysis)
	}
	if !strings.Contains(analysis.Text, "관련 법령 분석") || !strings.Contains(analysis.Text, "유사도") {
		t.Errorf("analysis text = %q", analysis.Text)
	}

	summary, err := eng.Summarize(ctx, "하도급거래 공정화에 관한 법률", models.ModeLocal)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(summary.Text, "요약") {
		t.Errorf("summary = %q", summary.Text)
	}
}

// TestPipeline_SegmentationMatchesSnapshotArticles re-segments the snapshot's
// full text and checks the markers line up with the stored articles.
func TestPipeline_SegmentationMatchesSnapshotArticles(t *testing.T) {
	store := storage.NewDiskStore(writeSnapshot(t))
	statutes, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range statutes {
		got := segment.Segment(st.Content)
		if len(got) != len(st.Articles) {
			t.Errorf("%s: segmented %d articles, snapshot has %d", st.Title, len(got), len(st.Articles))
			continue
		}
		for i := range got {
			if got[i].Number != st.Articles[i].Number {
				t.Errorf("%s article %d: number %q, want %q", st.Title, i, got[i].Number, st.Articles[i].Number)
			}
		}
	}
}

// TestPipeline_KeywordStrategy runs the same corpus through the Bleve index.
func TestPipeline_KeywordStrategy(t *testing.T) {
	ctx := context.Background()
	store := storage.NewDiskStore(writeSnapshot(t))
	eng := engine.New(store, engine.Options{Strategy: "keyword"})
	defer eng.Close()

	if err := eng.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	resp, err := eng.Search(ctx, models.ScenarioQuery{Scenario: "시장지배적 남용", TopK: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total == 0 {
		t.Fatal("keyword strategy returned nothing")
	}
	if !strings.Contains(resp.Results[0].Document.Label, "독점규제") {
		t.Errorf("top result = %+v", resp.Results[0])
	}
}

// TestPipeline_RebuildAfterSnapshotChange verifies rebuild-then-swap picks up
// an updated snapshot wholesale.
func TestPipeline_RebuildAfterSnapshotChange(t *testing.T) {
	ctx := context.Background()
	path := writeSnapshot(t)
	store := storage.NewDiskStore(path)
	eng := engine.New(store, engine.Options{})
	defer eng.Close()

	if err := eng.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAll(ctx, []models.Statute{
		{Title: "상생협력법", Content: "제1조(목적) 대기업과 중소기업 간 상생협력을 촉진한다."},
	}); err != nil {
		t.Fatal(err)
	}
	if err := eng.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	st := eng.Status()
	if st.StatuteCount != 1 || st.DocumentCount != 1 {
		t.Errorf("status after rebuild = %+v", st)
	}
}
