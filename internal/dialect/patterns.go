package dialect

import (
	"xqlint/internal/lexer"
	"xqlint/internal/token"
)

type pairSignal struct {
	Dialect   Kind
	Extension lexer.Features
	Score     int
	Reason    string
}

// pairSignals are keyword pairs, keyed by "first second".
var pairSignals = map[string]pairSignal{
	"insert node":        {Extension: lexer.Update, Score: 6, Reason: "update expression `insert node`"},
	"insert nodes":       {Extension: lexer.Update, Score: 6, Reason: "update expression `insert nodes`"},
	"delete node":        {Extension: lexer.Update, Score: 6, Reason: "update expression `delete node`"},
	"delete nodes":       {Extension: lexer.Update, Score: 6, Reason: "update expression `delete nodes`"},
	"replace node":       {Extension: lexer.Update, Score: 6, Reason: "update expression `replace node`"},
	"replace value":      {Extension: lexer.Update, Score: 4, Reason: "update expression `replace value of`"},
	"rename node":        {Extension: lexer.Update, Score: 6, Reason: "update expression `rename node`"},
	"declare updating":   {Extension: lexer.Update, Score: 6, Reason: "updating function declaration"},
	"contains text":      {Extension: lexer.FullText, Score: 6, Reason: "full-text `contains text`"},
	"exit returning":     {Extension: lexer.Scripting, Score: 6, Reason: "scripting `exit returning`"},
	"declare sequential": {Extension: lexer.Scripting, Score: 6, Reason: "sequential function declaration"},
	"group by":           {Dialect: XQuery30, Score: 3, Reason: "FLWOR `group by`"},
	"count $":            {Dialect: XQuery30, Score: 2, Reason: "FLWOR count clause"},
	"declare context":    {Dialect: XQuery30, Score: 2, Reason: "context item declaration"},
}

// ObserveTokenPair records the evidence a pair of adjacent visible tokens
// carries. Tokens must come in source order.
func ObserveTokenPair(e *Evidence, prev, tok token.Token) {
	if e == nil {
		return
	}
	adjacent := prev.Span.File == tok.Span.File && prev.Span.End == tok.Span.Start

	// prefix:local
	if prev.Kind == token.NCName && tok.Kind == token.Colon && adjacent {
		RecordPrefix(e, prev.Text, prev.Span.Cover(tok.Span))
	}

	if prev.Kind == token.NCName {
		second := tok.Text
		if tok.Kind == token.Dollar {
			second = "$"
		}
		if sig, ok := pairSignals[prev.Text+" "+second]; ok {
			e.Add(Hint{
				Dialect:   sig.Dialect,
				Extension: sig.Extension,
				Score:     sig.Score,
				Reason:    sig.Reason,
				Span:      prev.Span.Cover(tok.Span),
			})
		}
	}

	switch tok.Kind {
	case token.Concat:
		e.Add(Hint{Dialect: XQuery30, Score: 3, Reason: "string concatenation `||`", Span: tok.Span})
	case token.Arrow:
		e.Add(Hint{Dialect: XQuery30, Score: 3, Reason: "arrow operator `=>`", Span: tok.Span})
	case token.Percent:
		if prev.Kind == token.NCName && prev.Text == "declare" {
			e.Add(Hint{Dialect: XQuery30, Score: 3, Reason: "annotation `declare %`", Span: tok.Span})
		}
	}
}
