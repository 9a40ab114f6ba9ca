package analyzer

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	atlaserr "codeatlas/internal/errors"
)

// Parser wraps a tree-sitter parser fixed to the Python grammar. It is the
// syntax-tree construction primitive the analyzer builds on; it is not safe
// for concurrent use, so each analysis worker owns its own Parser.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new Python parser
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses source text and returns the syntax tree root. A tree
// containing syntax errors is rejected as a whole; the aggregator skips
// the file instead of analyzing a partial tree.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*sitter.Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, atlaserr.NewParseError(path, err)
	}

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, atlaserr.NewParseError(path, nil)
	}

	return root, nil
}

// nodeText returns the source text covered by a node
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// sameNode reports whether two nodes cover the same source span. Used to
// skip field children while iterating a node's named children.
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}
