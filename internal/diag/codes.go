package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	LexInfo                 Code = 1000
	LexUnknownChar          Code = 1001
	LexUnterminatedComment  Code = 1002
	LexBadEntity            Code = 1003
	LexBadNumber            Code = 1004
	LexUnterminatedMarkup   Code = 1005
	LexUnexpectedInAttrBody Code = 1006

	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectedToken      Code = 2002
	SynUnterminatedString Code = 2003
	SynMismatchedTag      Code = 2004
	SynFeatureDisabled    Code = 2005
	SynUnsupported        Code = 2006
	SynExpectedExpr       Code = 2007
	SynTrailingInput      Code = 2008

	DirInfo    Code = 3000
	DirUnknown Code = 3001
)

var codeDescription = map[Code]string{
	UnknownCode:             "unknown error",
	LexInfo:                 "lexical information",
	LexUnknownChar:          "unknown character",
	LexUnterminatedComment:  "unterminated comment",
	LexBadEntity:            "malformed entity or character reference",
	LexBadNumber:            "malformed numeric literal",
	LexUnterminatedMarkup:   "unterminated comment, CDATA or processing instruction",
	LexUnexpectedInAttrBody: "character not allowed in attribute value",
	SynInfo:                 "syntax information",
	SynUnexpectedToken:      "unexpected token",
	SynExpectedToken:        "missing token",
	SynUnterminatedString:   "unterminated string literal",
	SynMismatchedTag:        "mismatched end tag",
	SynFeatureDisabled:      "syntax not available in the declared dialect",
	SynUnsupported:          "unsupported construct",
	SynExpectedExpr:         "expression expected",
	SynTrailingInput:        "unexpected input after the query body",
	DirInfo:                 "suppression comment information",
	DirUnknown:              "malformed suppression comment",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DIR%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
