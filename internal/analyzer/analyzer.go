package analyzer

import (
	"context"
	"os"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	atlaserr "codeatlas/internal/errors"
	"codeatlas/internal/logging"
)

// Analyzer produces a FactRecord from one file's source text via a single
// depth-first traversal of its syntax tree. Not safe for concurrent use;
// each worker owns its own Analyzer.
type Analyzer struct {
	parser *Parser
	logger *logging.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(logger *logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Analyzer{
		parser: NewParser(),
		logger: logger,
	}
}

// AnalyzeFile reads and analyzes a single file. Unreadable or undecodable
// content yields a READ_ERROR, malformed syntax a PARSE_ERROR; both are
// per-file and recoverable.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FactRecord, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, atlaserr.NewReadError(path, err)
	}
	if !utf8.Valid(source) {
		return nil, atlaserr.NewReadError(path, nil)
	}

	return a.AnalyzeSource(ctx, path, source)
}

// AnalyzeSource analyzes source text and returns a reconciled FactRecord.
func (a *Analyzer) AnalyzeSource(ctx context.Context, path string, source []byte) (*FactRecord, error) {
	root, err := a.parser.Parse(ctx, path, source)
	if err != nil {
		return nil, err
	}

	rec := NewFactRecord(path)
	a.traverse(root, source, "", rec)
	rec.FunctionNames = Reconcile(rec.FunctionNames)

	return rec, nil
}

// traverse walks one node and its subtree, carrying the enclosing class
// name as an explicit context value. A fault while processing a node is
// recovered here so that sibling subtrees keep being analyzed.
func (a *Analyzer) traverse(node *sitter.Node, source []byte, enclosingClass string, rec *FactRecord) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("Recovered from node processing fault", map[string]interface{}{
				"path":  rec.Path,
				"node":  node.Type(),
				"fault": r,
			})
		}
	}()

	nodeType := node.Type()
	rec.NodeKindCounts[nodeType]++

	// Context for the children. A class definition rebinds it for its own
	// subtree; functions and everything else pass it through unchanged.
	childClass := enclosingClass

	switch classifyNode(nodeType) {
	case KindClassDef:
		if name := nodeText(node.ChildByFieldName("name"), source); name != "" {
			rec.Classes = append(rec.Classes, name)
			childClass = name
		}

	case KindFunctionDef:
		if name := nodeText(node.ChildByFieldName("name"), source); name != "" {
			if enclosingClass != "" {
				rec.FunctionNames.Add(enclosingClass + "." + name)
			} else {
				rec.FunctionNames.Add(name)
			}
		}

	case KindImport:
		a.collectImport(node, source, rec)

	case KindImportFrom:
		a.collectImportFrom(node, source, rec)

	case KindCall:
		if callee := calleeName(node, source); callee != "" {
			rec.CallCounts[callee]++
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		a.traverse(child, source, childClass, rec)
	}
}

// collectImport records each module of a plain import statement:
// "import os, sys" yields "os" and "sys"; aliases keep the module name.
func (a *Analyzer) collectImport(node *sitter.Node, source []byte, rec *FactRecord) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case typeDottedName:
			if name := nodeText(child, source); name != "" {
				rec.Imports = append(rec.Imports, name)
			}
		case typeAliasedImport:
			if name := nodeText(child.ChildByFieldName("name"), source); name != "" {
				rec.Imports = append(rec.Imports, name)
			}
		}
	}
}

// collectImportFrom records each name of a from-import as "module.name".
// A relative import with no named package yields the bare name.
func (a *Analyzer) collectImportFrom(node *sitter.Node, source []byte, rec *FactRecord) {
	moduleNode := node.ChildByFieldName("module_name")
	module := ""
	if moduleNode != nil {
		if moduleNode.Type() == typeRelativeImport {
			// "from .pkg import x" keeps "pkg"; "from . import x" has none
			for i := 0; i < int(moduleNode.NamedChildCount()); i++ {
				if c := moduleNode.NamedChild(i); c != nil && c.Type() == typeDottedName {
					module = nodeText(c, source)
					break
				}
			}
		} else {
			module = nodeText(moduleNode, source)
		}
	}

	record := func(name string) {
		if name == "" {
			return
		}
		if module != "" {
			rec.Imports = append(rec.Imports, module+"."+name)
		} else {
			rec.Imports = append(rec.Imports, name)
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil || sameNode(child, moduleNode) {
			continue
		}
		switch child.Type() {
		case typeDottedName:
			record(nodeText(child, source))
		case typeAliasedImport:
			record(nodeText(child.ChildByFieldName("name"), source))
		case typeWildcardImport:
			record("*")
		}
	}
}

// calleeName returns the terminal name at a call site: the identifier for
// a direct call, the attribute name for "obj.method(...)". The receiver is
// discarded; call counts are per-terminal-name, not per-qualified-path.
func calleeName(node *sitter.Node, source []byte) string {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}

	switch fn.Type() {
	case typeIdentifier:
		return nodeText(fn, source)
	case typeAttribute:
		return nodeText(fn.ChildByFieldName("attribute"), source)
	default:
		return ""
	}
}
