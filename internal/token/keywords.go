package token

// reservedFunctionNames cannot be used as unprefixed function names:
// `name(` with one of these starts a different construct.
var reservedFunctionNames = map[string]struct{}{
	"attribute":              {},
	"binary":                 {},
	"comment":                {},
	"document-node":          {},
	"element":                {},
	"empty-sequence":         {},
	"function":               {},
	"if":                     {},
	"item":                   {},
	"namespace-node":         {},
	"node":                   {},
	"processing-instruction": {},
	"schema-attribute":       {},
	"schema-element":         {},
	"switch":                 {},
	"text":                   {},
	"typeswitch":             {},
	"array":                  {},
	"map":                    {},
}

// kindTests are the names that start a kind test such as `text()`.
var kindTests = map[string]struct{}{
	"attribute":              {},
	"binary":                 {},
	"comment":                {},
	"document-node":          {},
	"element":                {},
	"namespace-node":         {},
	"node":                   {},
	"processing-instruction": {},
	"schema-attribute":       {},
	"schema-element":         {},
	"text":                   {},
}

var axes = map[string]struct{}{
	"ancestor":           {},
	"ancestor-or-self":   {},
	"attribute":          {},
	"child":              {},
	"descendant":         {},
	"descendant-or-self": {},
	"following":          {},
	"following-sibling":  {},
	"namespace":          {},
	"parent":             {},
	"preceding":          {},
	"preceding-sibling":  {},
	"property":           {}, // MarkLogic
	"self":               {},
}

// IsReservedFunctionName reports whether an unprefixed name followed by '('
// must not be treated as a function call.
func IsReservedFunctionName(name string) bool {
	_, ok := reservedFunctionNames[name]
	return ok
}

// IsKindTest reports whether name followed by '(' is a kind test.
func IsKindTest(name string) bool {
	_, ok := kindTests[name]
	return ok
}

// IsAxis reports whether name followed by '::' names an axis.
func IsAxis(name string) bool {
	_, ok := axes[name]
	return ok
}
