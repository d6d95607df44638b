package dialect

import (
	"xqlint/internal/lexer"
	"xqlint/internal/source"
)

type prefixSignal struct {
	Dialect   Kind
	Extension lexer.Features
	Score     int
	Reason    string
}

// prefixSignals are function and namespace prefixes bound by default in one
// dialect only.
var prefixSignals = map[string]prefixSignal{
	"xdmp":   {Dialect: MarkLogic, Score: 6, Reason: "MarkLogic builtin prefix `xdmp:`"},
	"cts":    {Dialect: MarkLogic, Score: 6, Reason: "MarkLogic search prefix `cts:`"},
	"sem":    {Dialect: MarkLogic, Score: 4, Reason: "MarkLogic semantics prefix `sem:`"},
	"spell":  {Dialect: MarkLogic, Score: 3, Reason: "MarkLogic prefix `spell:`"},
	"dls":    {Dialect: MarkLogic, Score: 3, Reason: "MarkLogic library services prefix `dls:`"},
	"sec":    {Dialect: MarkLogic, Score: 2, Reason: "MarkLogic security prefix `sec:`"},
	"admin":  {Dialect: MarkLogic, Score: 2, Reason: "MarkLogic admin prefix `admin:`"},
	"prof":   {Dialect: MarkLogic, Score: 2, Reason: "MarkLogic profiler prefix `prof:`"},
	"array":  {Dialect: XQuery30, Score: 3, Reason: "XQuery 3.1 prefix `array:`"},
	"math":   {Dialect: XQuery30, Score: 2, Reason: "XQuery 3.0 prefix `math:`"},
	"ft":     {Extension: lexer.FullText, Score: 3, Reason: "full-text prefix `ft:`"},
	"zorba":  {Extension: lexer.Zorba, Score: 5, Reason: "Zorba prefix `zorba:`"},
	"thesau": {Extension: lexer.FullText, Score: 2, Reason: "full-text thesaurus prefix"},
}

// RecordPrefix adds the evidence of a prefix used in a QName.
func RecordPrefix(e *Evidence, prefix string, span source.Span) {
	sig, ok := prefixSignals[prefix]
	if !ok {
		return
	}
	e.Add(Hint{
		Dialect:   sig.Dialect,
		Extension: sig.Extension,
		Score:     sig.Score,
		Reason:    sig.Reason,
		Span:      span,
	})
}

// versionScore outweighs any amount of other evidence.
const versionScore = 1000

// RecordVersion adds the evidence of an `xquery version` declaration.
func RecordVersion(e *Evidence, version string, span source.Span) {
	f, ok := lexer.FeaturesForVersion(version)
	if !ok {
		return
	}
	kind := XQuery10
	switch {
	case f.Has(lexer.MarkLogic):
		kind = MarkLogic
	case f.Has(lexer.XQuery30):
		kind = XQuery30
	}
	e.Add(Hint{Dialect: kind, Score: versionScore, Reason: "version declaration " + version, Span: span})
}
