package dialect

import "xqlint/internal/lexer"

// Classification is the result of scoring the evidence of a file.
type Classification struct {
	Kind            Kind
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Kind
	RunnerUpScore   int
	ObservedSignals int
	// Extensions are the extension features with at least MinExtensionScore.
	Extensions lexer.Features
}

// Features is the starting feature set for parsing: the base dialect plus
// the extensions. An unknown dialect falls back to fallback.
func (c Classification) Features(fallback lexer.Features) lexer.Features {
	f := fallback
	if c.Kind != Unknown {
		f = c.Kind.Features()
	}
	f.Enable(c.Extensions)
	return f
}

// MinExtensionScore is the score an extension needs before it is enabled.
// A single strong pair is enough.
const MinExtensionScore = 6

var extensionFlags = []lexer.Features{lexer.Update, lexer.Scripting, lexer.FullText, lexer.Zorba}

// Classifier scores evidence and picks the dominant base dialect.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e.Len() == 0 {
		return Classification{Kind: Unknown}
	}

	var scores [kindCount]int
	ext := make(map[lexer.Features]int, len(extensionFlags))
	total := 0
	observed := 0
	for _, h := range e.hints {
		observed++
		if h.Score <= 0 {
			continue
		}
		if h.Extension != 0 {
			ext[h.Extension] += h.Score
		}
		if h.Dialect <= Unknown || h.Dialect >= kindCount {
			continue
		}
		scores[h.Dialect] += h.Score
		total += h.Score
	}

	bestKind := Unknown
	bestScore := 0
	runnerKind := Unknown
	runnerScore := 0
	for k := XQuery10; k < kindCount; k++ {
		score := scores[k]
		if score > bestScore {
			runnerKind, runnerScore = bestKind, bestScore
			bestKind, bestScore = k, score
			continue
		}
		if score > runnerScore {
			runnerKind, runnerScore = k, score
		}
	}

	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}

	var extensions lexer.Features
	for _, flag := range extensionFlags {
		if ext[flag] >= MinExtensionScore {
			extensions.Enable(flag)
		}
	}

	return Classification{
		Kind:            bestKind,
		Score:           bestScore,
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runnerKind,
		RunnerUpScore:   runnerScore,
		ObservedSignals: observed,
		Extensions:      extensions,
	}
}
