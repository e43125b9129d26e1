package retrieve

import (
	"context"
	"fmt"
	"strings"

	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/pkg/utils"
)

// localExcerptRunes bounds each citation's excerpt in the local markdown
// rendering. Shorter than the context-block budget since this is for direct
// display rather than downstream reasoning.
const localExcerptRunes = 300

// LocalAnalyzer renders a deterministic markdown summary of the ranked
// citations. It never makes an external call, so it doubles as the fallback
// when the external analyzer fails.
type LocalAnalyzer struct{}

// NewLocalAnalyzer returns the deterministic analyzer.
func NewLocalAnalyzer() *LocalAnalyzer { return &LocalAnalyzer{} }

// Analyze lists each ranked citation with its similarity score and a bounded
// excerpt, followed by a fixed guidance footer.
func (a *LocalAnalyzer) Analyze(_ context.Context, _ string, results []models.RankedResult) (string, error) {
	if len(results) == 0 {
		return "", ErrNoProvisions
	}
	var b strings.Builder
	b.WriteString("## 관련 법령 분석\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "### %d. %s\n", i+1, r.Document.Label)
		fmt.Fprintf(&b, "**유사도:** %.3f\n\n", r.Score)
		fmt.Fprintf(&b, "**내용:** %s\n\n", utils.TruncateRunes(r.Document.Text, localExcerptRunes))
		b.WriteString("---\n\n")
	}
	b.WriteString("## 분석 요약\n\n")
	b.WriteString("위의 관련 법령들을 검토하여 케이스의 법적 쟁점을 파악하시기 바랍니다.")
	return b.String(), nil
}

// Summarize lists each provision with a bounded excerpt, grouped under the
// subject heading when one is given.
func (a *LocalAnalyzer) Summarize(_ context.Context, subject string, results []models.RankedResult) (string, error) {
	if len(results) == 0 {
		return "", ErrNoProvisions
	}
	var b strings.Builder
	if subject != "" {
		fmt.Fprintf(&b, "## %s 요약\n\n", subject)
	} else {
		b.WriteString("## 법령 요약\n\n")
	}
	for i, r := range results {
		fmt.Fprintf(&b, "%d. **%s**: %s\n\n", i+1, r.Document.Label, utils.TruncateRunes(r.Document.Text, localExcerptRunes))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
