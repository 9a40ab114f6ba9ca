// Package diagram renders an AnalysisSet as Mermaid classDiagram text.
package diagram

import (
	"fmt"
	"strings"

	"codeatlas/internal/analyzer"
	"codeatlas/internal/paths"
)

// Header is the literal first line of every generated diagram
const Header = "classDiagram"

// Generate deterministically renders the class/file/import relationships
// of an AnalysisSet. Output is fully determined by the set's content and
// iteration order.
//
// For each file, in set order:
//   - one class block per declared class, with that class's methods as
//     members (unqualified suffix only);
//   - a "contains" relation from the file identifier to the first declared
//     class only. Files with multiple classes link only to the first; the
//     asymmetry is inherited behavior, kept deliberately.
//   - a synthetic class named after the file holding its standalone
//     functions, when any exist;
//   - one "imports" relation per import string, reduced to its last
//     dot-separated segment. Duplicate reductions are kept.
func Generate(set *analyzer.AnalysisSet) string {
	var b strings.Builder
	b.WriteString(Header + "\n")

	set.Each(func(rec *analyzer.FactRecord) {
		ident := paths.FileIdent(rec.Path)

		if len(rec.Classes) > 0 {
			for _, class := range rec.Classes {
				writeClassBlock(&b, class, rec.QualifiedBy(class))
			}
			fmt.Fprintf(&b, "    %s -- %s : contains\n", ident, rec.Classes[0])
		}

		if standalone := rec.Standalone(); len(standalone) > 0 {
			writeClassBlock(&b, ident, standalone)
		}

		for _, imp := range rec.Imports {
			fmt.Fprintf(&b, "    %s ..> %s : imports\n", ident, paths.ReduceImport(imp))
		}
	})

	return b.String()
}

func writeClassBlock(b *strings.Builder, name string, members []string) {
	fmt.Fprintf(b, "    class %s {\n", name)
	for _, member := range members {
		fmt.Fprintf(b, "        +%s()\n", member)
	}
	b.WriteString("    }\n")
}
