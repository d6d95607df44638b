package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token. It is already reported by the lexer.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Whitespace // blanks, tabs, newlines
	Comment    // (: ... :)

	NCName     // name without a colon; keywords too
	IntegerLit // 42
	DecimalLit // 4.2
	DoubleLit  // 4.2e1

	Apos // '
	Quot // "

	Dollar     // $
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	LBrace     // {
	RBrace     // }
	Comma      // ,
	Semicolon  // ;
	Colon      // :
	ColonColon // ::
	Assign     // :=
	Dot        // .
	DotDot     // ..
	Slash      // /
	SlashSlash // //
	At         // @
	Star       // *
	Plus       // +
	Minus      // -
	Question   // ?
	Pipe       // |
	Concat     // ||
	Bang       // !
	Hash       // #
	Percent    // %
	Eq         // =
	Ne         // !=
	Lt         // <
	Le         // <=
	Gt         // >
	Ge         // >=
	Precedes   // <<
	Follows    // >>
	Arrow      // =>

	// whole direct constructors recognised in one go
	DirComment // <!-- ... -->
	DirPI      // <? ... ?>
	CData      // <![CDATA[ ... ]]>

	// string and attribute bodies
	Chunk       // literal characters
	EntityRef   // &amp;
	CharRef     // &#10; &#xA;
	EscapedQuot // '' or ""

	// markup
	EndTagOpen  // </
	EmptyClose  // />
	ElementText // element content characters
	LBraceEsc   // {{
	RBraceEsc   // }}
	S           // whitespace inside a tag

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Whitespace:  "Whitespace",
	Comment:     "Comment",
	NCName:      "NCName",
	IntegerLit:  "IntegerLiteral",
	DecimalLit:  "DecimalLiteral",
	DoubleLit:   "DoubleLiteral",
	Apos:        "APOS",
	Quot:        "QUOT",
	Dollar:      "DOLLAR",
	LParen:      "LPAREN",
	RParen:      "RPAREN",
	LBracket:    "LSQUARE",
	RBracket:    "RSQUARE",
	LBrace:      "LBRACKET",
	RBrace:      "RBRACKET",
	Comma:       "COMMA",
	Semicolon:   "SEMICOLON",
	Colon:       "COLON",
	ColonColon:  "COLON_COLON",
	Assign:      "BIND",
	Dot:         "DOT",
	DotDot:      "DOT_DOT",
	Slash:       "SLASH",
	SlashSlash:  "SLASH_SLASH",
	At:          "ATTR_SIGN",
	Star:        "STAR",
	Plus:        "PLUS",
	Minus:       "MINUS",
	Question:    "QUESTION",
	Pipe:        "VBAR",
	Concat:      "CONCAT",
	Bang:        "BANG",
	Hash:        "HASH",
	Percent:     "ANN_PERCENT",
	Eq:          "EQUAL",
	Ne:          "NOTEQUAL",
	Lt:          "SMALLER",
	Le:          "SMALLEREQ",
	Gt:          "GREATER",
	Ge:          "GREATEREQ",
	Precedes:    "SMALLER_SMALLER",
	Follows:     "GREATER_GREATER",
	Arrow:       "ARROW",
	DirComment:  "XML_COMMENT",
	DirPI:       "XML_PI",
	CData:       "CDATA",
	Chunk:       "Chunk",
	EntityRef:   "PredefinedEntityRef",
	CharRef:     "CharRef",
	EscapedQuot: "EscapeQuot",
	EndTagOpen:  "END_TAG_START",
	EmptyClose:  "EMPTY_CLOSE_TAG",
	ElementText: "ElementContentChar",
	LBraceEsc:   "ESCAPE_LBRACKET",
	RBraceEsc:   "ESCAPE_RBRACKET",
	S:           "S",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}
