package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/parquet"
	"github.com/huangsam/sunspot/schema"
)

// PrintRecommendation outputs deployment advice to the configured destination.
func PrintRecommendation(rec schema.Recommendation, cfg *contract.Config, duration time.Duration) error {
	return render(cfg, func(w io.Writer) error {
		return WriteRecommendation(w, rec, cfg, duration)
	}, func(path string) error {
		return parquet.WriteRecords(parquet.ConvertRecommendation(rec), path)
	})
}

// WriteRecommendation writes the advice, dispatching based on the output format configured.
func WriteRecommendation(w io.Writer, rec schema.Recommendation, cfg *contract.Config, duration time.Duration) error {
	fmtValue, csvValue := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, rec)
	case schema.CSVOut:
		return writeCSVResultsForRecommendation(w, rec, csvValue)
	default:
		writeRecommendationText(w, rec, cfg, fmtValue)
		_, _ = fmt.Fprintf(w, "Recommendation derived in %v\n", duration)
		return nil
	}
}

// writeCSVResultsForRecommendation writes one row per finding.
func writeCSVResultsForRecommendation(w io.Writer, rec schema.Recommendation, csvValue func(schema.Value) string) error {
	findings := parquet.ConvertRecommendation(rec)
	return writeCSVWithHeader(w, []string{"kind", "origin", "label", "value"}, func(cw *csv.Writer) error {
		for _, f := range findings {
			origin := ""
			if f.Origin != nil {
				origin = *f.Origin
			}
			value := schema.None()
			if f.Value != nil {
				value = schema.Some(*f.Value)
			}
			if err := cw.Write([]string{f.Kind, origin, f.Label, csvValue(value)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRecommendationText renders the advice as a short report.
func writeRecommendationText(w io.Writer, rec schema.Recommendation, cfg *contract.Config, fmtValue func(schema.Value) string) {
	candidate := func(c *schema.Candidate) string {
		if c == nil {
			return "n/a"
		}
		return fmt.Sprintf("%s (%s)", contract.Highlight(string(c.Origin), cfg.UseColors), fmtValue(c.Value))
	}
	prefix := func(emoji, plain string) string {
		if cfg.UseEmojis {
			return emoji + " " + plain
		}
		return plain
	}

	_, _ = fmt.Fprintf(w, "%s: %s\n", prefix("🎯", "Primary target (highest mean GHI)"), candidate(rec.PrimaryTarget))
	_, _ = fmt.Fprintf(w, "%s: %s\n", prefix("🥈", "Secondary target (highest median GHI)"), candidate(rec.SecondaryTarget))
	_, _ = fmt.Fprintf(w, "%s: %s\n", prefix("📏", "Most consistent (lowest GHI std)"), candidate(rec.MostConsistent))

	_, _ = fmt.Fprintf(w, "%s: %s\n", prefix("☀️ ", "Technology"), rec.Technology)
	for _, c := range rec.CSPCandidates {
		_, _ = fmt.Fprintf(w, "  - CSP candidate %s with mean DNI %s\n", c.Origin, fmtValue(c.Value))
	}

	if len(rec.RiskFlags) == 0 {
		_, _ = fmt.Fprintf(w, "%s: none\n", prefix("⚠️ ", "Risk flags"))
		return
	}
	_, _ = fmt.Fprintf(w, "%s:\n", prefix("⚠️ ", "Risk flags"))
	for _, f := range rec.RiskFlags {
		_, _ = fmt.Fprintf(w, "  - %s at %s (%s)\n", contract.GetRiskLabel(f.Kind, cfg.UseColors), f.Origin, fmtValue(f.Value))
	}
}
