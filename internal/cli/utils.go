// Package cli provides CLI utilities for Tensaku.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/tensaku/internal/models"
)

// ResultOutputFormat is the format for analysis result output.
type ResultOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText ResultOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON ResultOutputFormat = "json"
)

// WriteAnalysisResult writes an analysis result to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteAnalysisResult(w io.Writer, result *models.AnalysisResult, format ResultOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		writeAnalysisResultText(w, result)
		return nil
	}
}

func writeAnalysisResultText(w io.Writer, result *models.AnalysisResult) {
	fmt.Fprintf(w, "\n%s\n", result.Summary)
	fmt.Fprintf(w, "(%d chunks, %d findings, %d dropped, %dms",
		result.Stats.TotalChunks, result.Stats.TotalFindings,
		result.Stats.DroppedFindings, result.Stats.ProcessingTimeMs)
	if result.Stats.TotalCost > 0 {
		fmt.Fprintf(w, ", $%.4f", result.Stats.TotalCost)
	}
	fmt.Fprintln(w, ")")
	for _, e := range result.Stats.PluginErrors {
		fmt.Fprintf(w, "plugin %s failed: %s\n", e.Plugin, e.Message)
	}
	fmt.Fprintln(w)
	for _, ann := range result.Annotations {
		writeOneAnnotation(w, ann)
	}
}

func writeOneAnnotation(w io.Writer, ann *models.Annotation) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "[%s] Importance: %d | Strategy: %s (confidence %.2f)\n",
		ann.Plugin, ann.Importance, ann.Strategy, ann.Confidence)
	fmt.Fprintf(w, "At %d-%d: %q\n", ann.Highlight.StartOffset, ann.Highlight.EndOffset,
		Truncate(ann.Highlight.QuotedText, 80))
	fmt.Fprintf(w, "\n%s\n", Truncate(ann.Description, 200))
	fmt.Fprintln(w)
}

// PrintAnalysisResult prints an analysis result to stdout in text format.
func PrintAnalysisResult(result *models.AnalysisResult) {
	_ = WriteAnalysisResult(os.Stdout, result, OutputText)
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
