package corpus

import (
	"reflect"
	"testing"

	"github.com/hanbeop/lawdex/internal/models"
)

func sampleStatutes() []models.Statute {
	return []models.Statute{
		{
			Title:   "하도급법",
			Content: "제1조(목적) 이 법의 목적은 ... 제2조 정의 ...",
			Articles: []models.Article{
				{Number: "1", Heading: "목적", Body: "이 법의 목적은 ..."},
				{Number: "2", Heading: "", Body: "정의 ..."},
			},
			Keyword: "하도급법",
		},
		{
			Title:   "공정거래법",
			Content: "제1조(목적) 공정하고 자유로운 경쟁을 촉진한다.",
			Articles: []models.Article{
				{Number: "1", Heading: "목적", Body: "공정하고 자유로운 경쟁을 촉진한다."},
			},
		},
	}
}

func TestBuilder_Build(t *testing.T) {
	docs := NewBuilder().Build(sampleStatutes())
	if len(docs) != 5 {
		t.Fatalf("expected 5 documents, got %d", len(docs))
	}

	// Full statute first, then articles in segmentation order.
	if docs[0].Kind != models.KindFullStatute || docs[0].Label != "하도급법" {
		t.Errorf("doc 0 = %+v", docs[0])
	}
	if docs[0].Text != "하도급법 제1조(목적) 이 법의 목적은 ... 제2조 정의 ..." {
		t.Errorf("doc 0 text = %q", docs[0].Text)
	}
	if docs[1].Kind != models.KindArticle || docs[1].Label != "하도급법 제1조" {
		t.Errorf("doc 1 = %+v", docs[1])
	}
	if docs[1].Text != "하도급법 제1조 목적 이 법의 목적은 ..." {
		t.Errorf("doc 1 text = %q", docs[1].Text)
	}
	// Empty heading yields a double space, which is acceptable.
	if docs[2].Text != "하도급법 제2조  정의 ..." {
		t.Errorf("doc 2 text = %q", docs[2].Text)
	}
	if docs[3].Label != "공정거래법" || docs[4].Label != "공정거래법 제1조" {
		t.Errorf("statute ordering broken: %q, %q", docs[3].Label, docs[4].Label)
	}
}

func TestBuilder_Build_Deterministic(t *testing.T) {
	b := NewBuilder()
	first := b.Build(sampleStatutes())
	second := b.Build(sampleStatutes())
	if !reflect.DeepEqual(first, second) {
		t.Error("Build is not deterministic for identical input")
	}
}

func TestBuilder_Build_NoDuplicateIDs(t *testing.T) {
	// Overlapping collection keywords return the same law twice; the repeated
	// title must still yield distinct document IDs.
	statutes := append(sampleStatutes(), models.Statute{
		Title:   "하도급법",
		Content: "제1조(목적) 이 법의 목적은 ... 제2조 정의 ...",
		Articles: []models.Article{
			{Number: "1", Heading: "목적", Body: "이 법의 목적은 ..."},
		},
		Keyword: "하도급거래",
	})
	docs := NewBuilder().Build(statutes)
	seen := make(map[string]bool)
	for _, d := range docs {
		if seen[d.ID] {
			t.Errorf("duplicate document ID %q", d.ID)
		}
		seen[d.ID] = true
	}
	if len(docs) != 7 {
		t.Fatalf("expected 7 documents, got %d", len(docs))
	}
}

func TestBuilder_Build_SkipsMalformed(t *testing.T) {
	statutes := []models.Statute{
		{Title: "", Content: "본문"},               // no title
		{Title: "빈법령"},                           // no content, no articles
		{Title: "유효법령", Content: "제1조 본문"},   // valid
	}
	docs := NewBuilder().Build(statutes)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].StatuteTitle != "유효법령" {
		t.Errorf("unexpected document %+v", docs[0])
	}
}

func TestBuilder_Build_EmptyInput(t *testing.T) {
	if docs := NewBuilder().Build(nil); len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestBuilder_Build_SubNumberedArticle(t *testing.T) {
	statutes := []models.Statute{{
		Title:    "하도급법",
		Articles: []models.Article{{Number: "5의2", Heading: "보복조치의 금지", Body: "본문"}},
	}}
	docs := NewBuilder().Build(statutes)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Label != "하도급법 제5조의2" {
		t.Errorf("label = %q", docs[0].Label)
	}
	if docs[0].Text != "하도급법 제5조의2 보복조치의 금지 본문" {
		t.Errorf("text = %q", docs[0].Text)
	}
}

func TestBuilder_Build_ArticlesOnlyStatute(t *testing.T) {
	// A statute with articles but no full text emits only article documents.
	statutes := []models.Statute{{
		Title:    "조문만있는법",
		Articles: []models.Article{{Number: "1", Body: "본문"}},
	}}
	docs := NewBuilder().Build(statutes)
	if len(docs) != 1 || docs[0].Kind != models.KindArticle {
		t.Fatalf("expected single article document, got %+v", docs)
	}
}
