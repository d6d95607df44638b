package ast

import (
	"strings"
	"unicode"
)

// LookupValue joins the trimmed texts of the children with single spaces. ok is
// false when nothing is there to join, except for string literals, whose empty
// value is a real "".
func (n *Node) LookupValue() (string, bool) {
	if n == nil {
		return "", false
	}
	var b strings.Builder
	for _, c := range n.Children {
		text := strings.TrimSpace(c.Text())
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}
	if b.Len() > 0 {
		return b.String(), true
	}
	return "", n.Type == StringLiteral
}

// Value is LookupValue without the presence flag.
func (n *Node) Value() string {
	v, _ := n.LookupValue()
	return v
}

// TextValue is Value with all whitespace removed; meant for names.
func (n *Node) TextValue() string {
	return stripSpace(n.Value())
}

// ValueOf is the Value of Find(path).
func (n *Node) ValueOf(path string) string {
	return n.Find(path).Value()
}

// TextValueOf is the TextValue of Find(path).
func (n *Node) TextValueOf(path string) string {
	return n.Find(path).TextValue()
}

// ChildValue is the Value of FindPath(path, false).
func (n *Node) ChildValue(path string) string {
	return n.FindPath(path, false).Value()
}

// ChildTextValue is the TextValue of FindPath(path, false).
func (n *Node) ChildTextValue(path string) string {
	return n.FindPath(path, false).TextValue()
}

// TypeValue renders the sequence type found at path, without its occurrence
// indicator: "xs:string", "element(article)", "item()". Empty when there is none.
func (n *Node) TypeValue(path string) string {
	typ := n.Find(path)
	if typ == nil {
		return ""
	}
	value := typ.TextValueOf("KindTest")
	if value != "" && strings.Contains(value, "QName") {
		value = strings.ReplaceAll(value, "QName", typ.TextValueOf("KindTest.QName"))
	}
	for _, alt := range []string{"QName", "ItemTest", "BinaryTest"} {
		if value != "" {
			break
		}
		value = typ.TextValueOf(alt)
	}
	return value
}

func stripSpace(s string) string {
	if s == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
