package symbols

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolKind separates the variable and function namespaces: `$status` and
// `status()` never collide.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Key is the identity of a declaration. NS is empty for names outside any
// namespace.
type Key struct {
	Kind SymbolKind
	Name string // local part, never prefixed
	NS   string
}

// VariableKey builds the key of a variable; a prefix in qname is dropped.
func VariableKey(qname, ns string) Key {
	return Key{Kind: SymbolVariable, Name: LocalName(qname), NS: ns}
}

// FunctionKey builds the key of a function; a prefix in qname is dropped.
func FunctionKey(qname, ns string) Key {
	return Key{Kind: SymbolFunction, Name: LocalName(qname), NS: ns}
}

// LocalName strips the prefix of a QName.
func LocalName(qname string) string {
	if _, local, ok := strings.Cut(qname, ":"); ok {
		return local
	}
	return qname
}

// Prefix returns the part in front of ':'. A name without a colon is returned
// whole, so a bare prefix resolves like a prefixed name.
func Prefix(qname string) string {
	prefix, _, _ := strings.Cut(qname, ":")
	return prefix
}

// Symbol is anything a frame holds.
type Symbol interface {
	Decl() *Declaration
}

// Declaration is a variable, a parameter, or the head of a function.
type Declaration struct {
	Kind      SymbolKind
	Name      string
	Namespace string
	Type      string // rendered sequence type, "" when undeclared
	Line      uint32
}

// NewVariable declares a variable; the prefix of qname is dropped.
func NewVariable(qname, ns, typ string, line uint32) *Declaration {
	return &Declaration{Kind: SymbolVariable, Name: LocalName(qname), Namespace: ns, Type: typ, Line: line}
}

func (d *Declaration) Decl() *Declaration { return d }

func (d *Declaration) Key() Key {
	return Key{Kind: d.Kind, Name: d.Name, NS: d.Namespace}
}

func (d *Declaration) String() string {
	var b strings.Builder
	b.WriteString(d.Kind.String())
	b.WriteByte(' ')
	if d.Namespace != "" {
		fmt.Fprintf(&b, "{%s}", d.Namespace)
	}
	b.WriteString(d.Name)
	if d.Type != "" {
		b.WriteString(" as ")
		b.WriteString(d.Type)
	}
	fmt.Fprintf(&b, " (%d)", d.Line)
	return b.String()
}

// Function is a declared function with its parameters by name.
type Function struct {
	Declaration
	Params map[string]*Declaration
}

// NewFunction declares a function; Type is its return type.
func NewFunction(qname, ns, typ string, line uint32) *Function {
	return &Function{
		Declaration: Declaration{Kind: SymbolFunction, Name: LocalName(qname), Namespace: ns, Type: typ, Line: line},
		Params:      make(map[string]*Declaration),
	}
}

// AddParam records a parameter, replacing one of the same name.
func (f *Function) AddParam(p *Declaration) {
	f.Params[p.Name] = p
}

func (f *Function) Param(name string) *Declaration {
	return f.Params[LocalName(name)]
}

// ParamNames lists the parameter names in sorted order.
func (f *Function) ParamNames() []string {
	names := make([]string, 0, len(f.Params))
	for name := range f.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Import is one `import module` of the current file.
type Import struct {
	Prefix    string
	Namespace string
	Hints     []string
	Line      uint32
}

// Hint is the first location hint, "" without one.
func (i *Import) Hint() string {
	if len(i.Hints) == 0 {
		return ""
	}
	return i.Hints[0]
}
