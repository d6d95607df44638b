package ast

// Type is the symbolic node type. Grouping nodes render as their type name in
// values, terminals render as their token text.
type Type uint8

const (
	Nil Type = iota
	Terminal
	XQuery
	MainModule
	LibraryModule
	VersionDecl
	VersionValue
	VersionEncoding
	ModuleDecl
	ModulePrefix
	Prolog
	ModuleImport
	ModuleNamespace
	ModuleAtHints
	SchemaImport
	NamespaceDecl
	DefaultNamespaceDecl
	Setter
	OrderedDecls
	Annotations
	Annotation
	VarDecl
	VarName
	VarType
	VarValue
	VarExternal
	ContextItemDecl
	FunctionDecl
	FunctionName
	ParamList
	Param
	ParamName
	TypeDeclaration
	ReturnType
	FunctionBody
	FunctionExternal
	OptionDecl
	QueryBody
	FLWORExpr
	ForClause
	ForName
	ForType
	ForAt
	ForBinding
	LetClause
	LetName
	LetType
	LetBinding
	WhereClause
	OrderByClause
	OrderSpecList
	OrderSpec
	OrderModifier
	GroupByClause
	GroupingSpec
	CountClause
	ReturnClause
	QuantifiedExpr
	QuantifiedBinding
	QuantifiedName
	QuantifiedType
	QuantifiedIn
	QuantifiedSatisfies
	IfExpr
	IfPredicate
	IfThen
	IfElse
	SwitchExpr
	SwitchOperand
	SwitchCase
	SwitchCaseValue
	SwitchDefault
	TypeswitchExpr
	TypeswitchPredicate
	TypeswitchCases
	CaseClause
	CaseName
	CaseType
	CaseReturn
	TypeswitchDefault
	TryCatchExpr
	TryClause
	CatchClause
	CatchError
	CatchErrorList
	CatchExpr
	UnaryExpr
	PathExpr
	PredicateList
	Predicate
	QName
	StringLiteral
	FunctionCall
	ArgumentList
	Argument
	ParenthesizedExpr
	InlineFunctionExpr
	KindTest
	ItemTest
	BinaryTest
	DirElemConstructor
	DirAttributeList
	DirAttribute
	DirAttributeValue
	DirElemContent
	DirComConstructor
	DirPIConstructor
	CDataSection

	typeCount
)

var typeNames = [...]string{
	Nil:                  "nil",
	Terminal:             "Terminal",
	XQuery:               "XQuery",
	MainModule:           "MainModule",
	LibraryModule:        "LibraryModule",
	VersionDecl:          "VersionDecl",
	VersionValue:         "VersionValue",
	VersionEncoding:      "VersionEncoding",
	ModuleDecl:           "ModuleDecl",
	ModulePrefix:         "ModulePrefix",
	Prolog:               "Prolog",
	ModuleImport:         "ModuleImport",
	ModuleNamespace:      "ModuleNamespace",
	ModuleAtHints:        "ModuleAtHints",
	SchemaImport:         "SchemaImport",
	NamespaceDecl:        "NamespaceDecl",
	DefaultNamespaceDecl: "DefaultNamespaceDecl",
	Setter:               "Setter",
	OrderedDecls:         "OrderedDecls",
	Annotations:          "Annotations",
	Annotation:           "Annotation",
	VarDecl:              "VarDecl",
	VarName:              "VarName",
	VarType:              "VarType",
	VarValue:             "VarValue",
	VarExternal:          "VarExternal",
	ContextItemDecl:      "ContextItemDecl",
	FunctionDecl:         "FunctionDecl",
	FunctionName:         "FunctionName",
	ParamList:            "ParamList",
	Param:                "Param",
	ParamName:            "ParamName",
	TypeDeclaration:      "TypeDeclaration",
	ReturnType:           "ReturnType",
	FunctionBody:         "FunctionBody",
	FunctionExternal:     "FunctionExternal",
	OptionDecl:           "OptionDecl",
	QueryBody:            "QueryBody",
	FLWORExpr:            "FLWORExpr",
	ForClause:            "ForClause",
	ForName:              "ForName",
	ForType:              "ForType",
	ForAt:                "ForAt",
	ForBinding:           "ForBinding",
	LetClause:            "LetClause",
	LetName:              "LetName",
	LetType:              "LetType",
	LetBinding:           "LetBinding",
	WhereClause:          "WhereClause",
	OrderByClause:        "OrderByClause",
	OrderSpecList:        "OrderSpecList",
	OrderSpec:            "OrderSpec",
	OrderModifier:        "OrderModifier",
	GroupByClause:        "GroupByClause",
	GroupingSpec:         "GroupingSpec",
	CountClause:          "CountClause",
	ReturnClause:         "ReturnClause",
	QuantifiedExpr:       "QuantifiedExpr",
	QuantifiedBinding:    "QuantifiedBinding",
	QuantifiedName:       "QuantifiedName",
	QuantifiedType:       "QuantifiedType",
	QuantifiedIn:         "QuantifiedIn",
	QuantifiedSatisfies:  "QuantifiedSatisfies",
	IfExpr:               "IfExpr",
	IfPredicate:          "IfPredicate",
	IfThen:               "IfThen",
	IfElse:               "IfElse",
	SwitchExpr:           "SwitchExpr",
	SwitchOperand:        "SwitchOperand",
	SwitchCase:           "SwitchCase",
	SwitchCaseValue:      "SwitchCaseValue",
	SwitchDefault:        "SwitchDefault",
	TypeswitchExpr:       "TypeswitchExpr",
	TypeswitchPredicate:  "TypeswitchPredicate",
	TypeswitchCases:      "TypeswitchCases",
	CaseClause:           "CaseClause",
	CaseName:             "CaseName",
	CaseType:             "CaseType",
	CaseReturn:           "CaseReturn",
	TypeswitchDefault:    "TypeswitchDefault",
	TryCatchExpr:         "TryCatchExpr",
	TryClause:            "TryClause",
	CatchClause:          "CatchClause",
	CatchError:           "CatchError",
	CatchErrorList:       "CatchErrorList",
	CatchExpr:            "CatchExpr",
	UnaryExpr:            "UnaryExpr",
	PathExpr:             "PathExpr",
	PredicateList:        "PredicateList",
	Predicate:            "Predicate",
	QName:                "QName",
	StringLiteral:        "StringLiteral",
	FunctionCall:         "FunctionCall",
	ArgumentList:         "ArgumentList",
	Argument:             "Argument",
	ParenthesizedExpr:    "ParenthesizedExpr",
	InlineFunctionExpr:   "InlineFunctionExpr",
	KindTest:             "KindTest",
	ItemTest:             "ItemTest",
	BinaryTest:           "BinaryTest",
	DirElemConstructor:   "DirElemConstructor",
	DirAttributeList:     "DirAttributeList",
	DirAttribute:         "DirAttribute",
	DirAttributeValue:    "DirAttributeValue",
	DirElemContent:       "DirElemContent",
	DirComConstructor:    "DirComConstructor",
	DirPIConstructor:     "DirPIConstructor",
	CDataSection:         "CDataSection",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for i, name := range typeNames {
		m[name] = Type(i)
	}
	return m
}()

func (t Type) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return "Type(?)"
}

// TypeByName maps a type name back to its Type.
func TypeByName(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}

// Types lists every node type in declaration order.
func Types() []Type {
	out := make([]Type, 0, typeCount)
	for t := Nil; t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}
