package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
)

// LogAnalysisHeader prints a concise, 2-line header describing what is analyzed.
// It only prints for text output so machine formats on stdout stay clean.
func LogAnalysisHeader(cfg *contract.Config, command string) {
	if cfg.Output != schema.TextOut && cfg.Output != "" {
		return
	}
	origins := schema.JoinOrigins(cfg.SelectedOrigins(), ", ")
	if cfg.UseEmojis {
		fmt.Printf("🔎 Origins: %s (Command: %s)\n", origins, command)
		fmt.Printf("☀️  Metric: %s, Granularity: %s\n", schema.FieldDisplayName(cfg.Field), cfg.Granularity)
		return
	}
	fmt.Printf("Origins: %s (Command: %s)\n", origins, command)
	fmt.Printf("Metric: %s, Granularity: %s\n", schema.FieldDisplayName(cfg.Field), cfg.Granularity)
}

// LogPartialMerge warns about every origin that could not be loaded.
func LogPartialMerge(result schema.UnifyResult) {
	for _, f := range result.Failures {
		contract.LogWarn("source unavailable", f)
	}
}

func writeFooter(w io.Writer, cfg *contract.Config, rows int, duration time.Duration) {
	_, _ = fmt.Fprintf(w, "Analysis completed in %v over %d rows. Cache backend: %s\n", duration, rows, cfg.CacheBackend)
}
