package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *AnalyzeResponse:
		return formatAnalyzeHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatAnalyzeHuman(resp *AnalyzeResponse) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Analyzed %d file(s) under %s\n", len(resp.Files), resp.Root))
	b.WriteString(strings.Repeat("=", 60) + "\n")

	for _, f := range resp.Files {
		b.WriteString(fmt.Sprintf("\n%s\n", f.Path))
		if len(f.Classes) > 0 {
			b.WriteString(fmt.Sprintf("  Classes:   %s\n", strings.Join(f.Classes, ", ")))
		}
		if len(f.Functions) > 0 {
			b.WriteString(fmt.Sprintf("  Functions: %s\n", strings.Join(f.Functions, ", ")))
		}
		if len(f.Imports) > 0 {
			b.WriteString(fmt.Sprintf("  Imports:   %s\n", strings.Join(f.Imports, ", ")))
		}
		if len(f.CallCounts) > 0 {
			b.WriteString(fmt.Sprintf("  Calls:     %s\n", formatCounts(f.CallCounts)))
		}
		if len(f.NodeKindCounts) > 0 {
			b.WriteString(fmt.Sprintf("  Nodes:     %s\n", formatCounts(f.NodeKindCounts)))
		}
	}

	if len(resp.Skipped) > 0 {
		b.WriteString("\nSkipped:\n")
		for _, s := range resp.Skipped {
			b.WriteString(fmt.Sprintf("  %s (%s): %s\n", s.Path, s.Code, s.Reason))
		}
	}

	if resp.Comparison.Sufficient {
		if len(resp.Comparison.Common) == 0 {
			b.WriteString(fmt.Sprintf("\nThere are no common functions between '%s' and '%s'.\n",
				resp.Comparison.FileA, resp.Comparison.FileB))
		} else {
			b.WriteString(fmt.Sprintf("\nCommon functions between '%s' and '%s': %s\n",
				resp.Comparison.FileA, resp.Comparison.FileB,
				strings.Join(resp.Comparison.Common, ", ")))
		}
	}

	if resp.RunID != "" {
		b.WriteString(fmt.Sprintf("\nSaved run: %s\n", resp.RunID))
	}

	return b.String(), nil
}

// formatCounts renders a count map as "name=1, other=2" with sorted keys
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
