package analyzer

// NodeKind is the closed set of syntax-node categories the traversal
// dispatches on. Everything else is KindOther: still counted, still
// descended into, but carrying no facts of its own.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindClassDef
	KindFunctionDef
	KindImport
	KindImportFrom
	KindCall
)

// Python grammar node type names
const (
	typeClassDefinition     = "class_definition"
	typeFunctionDefinition  = "function_definition"
	typeImportStatement     = "import_statement"
	typeImportFromStatement = "import_from_statement"
	typeCall                = "call"
	typeDottedName          = "dotted_name"
	typeAliasedImport       = "aliased_import"
	typeWildcardImport      = "wildcard_import"
	typeRelativeImport      = "relative_import"
	typeIdentifier          = "identifier"
	typeAttribute           = "attribute"
)

// classifyNode maps a grammar node type to its NodeKind
func classifyNode(nodeType string) NodeKind {
	switch nodeType {
	case typeClassDefinition:
		return KindClassDef
	case typeFunctionDefinition:
		return KindFunctionDef
	case typeImportStatement:
		return KindImport
	case typeImportFromStatement:
		return KindImportFrom
	case typeCall:
		return KindCall
	default:
		return KindOther
	}
}
