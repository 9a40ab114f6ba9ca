// Package qa is the thin glue toward an external question-answering
// collaborator: it matches a free-text question to an analyzed file,
// formats that file's facts into a prompt, and persists answered
// questions. It never calls a completion service itself.
package qa

import (
	"fmt"
	"strings"

	"codeatlas/internal/aggregate"
	"codeatlas/internal/analyzer"
	"codeatlas/internal/paths"
)

const promptTemplate = `Given the analysis results from the file '%[1]s', please answer the question based only on the provided data.

Details from file '%[1]s':
- Classes: %[2]s
- Functions and Methods: %[3]s
- Imports: %[4]s
- Common functions: %[5]s

Question: %[6]s

Please use only the details provided above to formulate your response.`

// BuildPrompt formats one file's facts and the run's common-function
// comparison into a prompt for the external completion service.
func BuildPrompt(rec *analyzer.FactRecord, cmp aggregate.Comparison, question string) string {
	return fmt.Sprintf(promptTemplate,
		paths.BaseName(rec.Path),
		orPlaceholder(strings.Join(rec.Classes, ", "), "No classes"),
		orPlaceholder(strings.Join(rec.FunctionNames.Sorted(), ", "), "No functions/methods"),
		orPlaceholder(strings.Join(rec.Imports, ", "), "No imports"),
		formatComparison(cmp),
		question,
	)
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func formatComparison(cmp aggregate.Comparison) string {
	if !cmp.Sufficient {
		return "Not enough files to compare functions."
	}
	a, b := paths.BaseName(cmp.FileA), paths.BaseName(cmp.FileB)
	if len(cmp.Common) == 0 {
		return fmt.Sprintf("There are no common functions between '%s' and '%s'.", a, b)
	}
	return fmt.Sprintf("Common functions between '%s' and '%s': %s",
		a, b, strings.Join(cmp.Common, ", "))
}
