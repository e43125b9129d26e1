package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hanbeop/lawdex/internal/models"
)

func sampleResponse() models.SearchResponse {
	return models.SearchResponse{
		Scenario:  "하도급대금 감액",
		Total:     1,
		QueryTime: 3,
		Results: []models.RankedResult{
			{
				Document: models.Document{
					ID:    "하도급법#a3",
					Label: "하도급법 제4조",
					Text:  "하도급법 제4조 부당한 하도급대금의 결정 금지",
					Kind:  models.KindArticle,
				},
				Score: 0.81,
				Rank:  0,
			},
		},
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "1개 결과") {
		t.Errorf("missing count: %q", out)
	}
	if !strings.Contains(out, "1. 하도급법 제4조") || !strings.Contains(out, "유사도 0.810") {
		t.Errorf("missing result line: %q", out)
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Total != 1 || decoded.Results[0].Document.Label != "하도급법 제4조" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteAnalysis_FallbackNotice(t *testing.T) {
	var buf bytes.Buffer
	result := models.AnalysisResult{
		Text:           "## 관련 법령 분석",
		Mode:           models.ModeLocal,
		FallbackReason: "service unavailable",
	}
	if err := WriteAnalysis(&buf, result, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "로컬 분석으로 대체") || !strings.Contains(out, "service unavailable") {
		t.Errorf("missing fallback notice: %q", out)
	}
	if !strings.Contains(out, "## 관련 법령 분석") {
		t.Errorf("missing analysis text: %q", out)
	}
}

func TestWriteStatutes_Text(t *testing.T) {
	var buf bytes.Buffer
	statutes := []models.Statute{
		{Title: "하도급법", Keyword: "하도급", Articles: []models.Article{{Number: "1"}}},
	}
	if err := WriteStatutes(&buf, statutes, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"수집된 법령 1건", "1. 하도급법", "키워드: 하도급", "조문 수: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
