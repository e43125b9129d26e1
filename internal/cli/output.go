// Package cli provides output formatting for the lawdex command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes a search response to w in the given format.
func WriteSearchResults(w io.Writer, response models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\n%d개 결과 (%dms)\n\n", response.Total, response.QueryTime)
	for _, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s (유사도 %.3f)\n", result.Rank+1, result.Document.Label, result.Score)
		fmt.Fprintf(w, "%s\n\n", utils.TruncateRunes(result.Document.Text, 200))
	}
	return nil
}

// WriteAnalysis writes an analysis result to w in the given format. In text
// mode the analysis prose is printed as-is, with a fallback notice when the
// external service was unavailable.
func WriteAnalysis(w io.Writer, result models.AnalysisResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	if result.FallbackReason != "" {
		fmt.Fprintf(w, "(외부 분석 불가, 로컬 분석으로 대체: %s)\n\n", result.FallbackReason)
	}
	fmt.Fprintln(w, result.Text)
	return nil
}

// WriteStatutes writes the statute list to w in the given format.
func WriteStatutes(w io.Writer, statutes []models.Statute, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, statutes)
	}
	fmt.Fprintf(w, "\n수집된 법령 %d건\n\n", len(statutes))
	for i, st := range statutes {
		fmt.Fprintf(w, "%d. %s\n", i+1, st.Title)
		if st.Keyword != "" {
			fmt.Fprintf(w, "   키워드: %s\n", st.Keyword)
		}
		fmt.Fprintf(w, "   조문 수: %d\n", len(st.Articles))
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
