// Package signal implements the three denial-evidence extractors (payer code
// lookup, keyword scan, regex scan) and the weighted-vote combiner that fuses
// their verdicts into one classification.
package signal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/helixbill/denialflow/internal/model"
)

// Fixed extractor confidences. A keyword or regex hit is strong but imperfect
// evidence; non-empty text with no hit still carries a little signal that the
// denial is unusual.
const (
	textHitConfidence     = 0.8
	textMissConfidence    = 0.3
	patternHitConfidence  = 0.9
	patternMissConfidence = 0.2
)

// CodeExtractor maps payer denial codes to a cause via the static code table.
type CodeExtractor struct {
	causeFor map[string]model.DenialCause
	order    []model.DenialCause
}

// NewCodeExtractor builds the extractor from the code table.
func NewCodeExtractor() *CodeExtractor {
	e := &CodeExtractor{
		causeFor: make(map[string]model.DenialCause, len(codeTable)),
	}
	seen := make(map[model.DenialCause]bool)
	for _, m := range codeTable {
		e.causeFor[m.code] = m.cause
		if !seen[m.cause] {
			seen[m.cause] = true
			e.order = append(e.order, m.cause)
		}
	}
	return e
}

// Extract returns the plurality cause among the mapped codes, with confidence
// equal to that cause's share of all mapped codes. Unmapped codes are not
// evidence. Ties resolve to the cause declared first in the code table. Zero
// mapped codes yields (OTHER, 0.0).
func (e *CodeExtractor) Extract(denial model.DenialCase) model.Signal {
	counts := make(map[model.DenialCause]int)
	total := 0
	for _, code := range denial.DenialCodes {
		cause, ok := e.causeFor[strings.TrimSpace(code)]
		if !ok {
			continue
		}
		counts[cause]++
		total++
	}

	if total == 0 {
		return model.Signal{Source: model.SignalCode, Cause: model.CauseOther, Confidence: 0.0}
	}

	best := model.CauseOther
	bestCount := 0
	for _, cause := range e.order {
		if counts[cause] > bestCount {
			best = cause
			bestCount = counts[cause]
		}
	}

	return model.Signal{
		Source:     model.SignalCode,
		Cause:      best,
		Confidence: float64(bestCount) / float64(total),
	}
}

// TextExtractor scans the free-text denial reason for per-cause keywords.
type TextExtractor struct{}

// NewTextExtractor returns a keyword-based text extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract scans causes in declaration order and returns the first with a
// case-insensitive keyword hit. Non-empty text with no hit yields a weak
// OTHER signal; empty text yields (OTHER, 0.0).
func (e *TextExtractor) Extract(denial model.DenialCase) model.Signal {
	text := strings.ToLower(denial.DenialReasonText)
	if strings.TrimSpace(text) == "" {
		return model.Signal{Source: model.SignalText, Cause: model.CauseOther, Confidence: 0.0}
	}

	for _, row := range keywordTable {
		for _, keyword := range row.keywords {
			if strings.Contains(text, keyword) {
				return model.Signal{
					Source:     model.SignalText,
					Cause:      row.cause,
					Confidence: textHitConfidence,
				}
			}
		}
	}

	return model.Signal{Source: model.SignalText, Cause: model.CauseOther, Confidence: textMissConfidence}
}

// PatternExtractor scans the free-text denial reason with per-cause regular
// expressions.
type PatternExtractor struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	regex *regexp.Regexp
	cause model.DenialCause
}

// NewPatternExtractor compiles the pattern table. Expressions are made
// case-insensitive if not already.
func NewPatternExtractor() (*PatternExtractor, error) {
	compiled := make([]compiledPattern, 0, len(patternTable))
	for _, row := range patternTable {
		expr := row.regex
		if !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for cause %s: %w", row.cause, err)
		}
		compiled = append(compiled, compiledPattern{cause: row.cause, regex: re})
	}
	return &PatternExtractor{patterns: compiled}, nil
}

// Extract scans causes in declaration order and returns the first whose
// regex matches. Non-empty text with no match yields a weak OTHER signal;
// empty text yields (OTHER, 0.0).
func (e *PatternExtractor) Extract(denial model.DenialCase) model.Signal {
	if strings.TrimSpace(denial.DenialReasonText) == "" {
		return model.Signal{Source: model.SignalPattern, Cause: model.CauseOther, Confidence: 0.0}
	}

	for _, p := range e.patterns {
		if p.regex.MatchString(denial.DenialReasonText) {
			return model.Signal{
				Source:     model.SignalPattern,
				Cause:      p.cause,
				Confidence: patternHitConfidence,
			}
		}
	}

	return model.Signal{Source: model.SignalPattern, Cause: model.CauseOther, Confidence: patternMissConfidence}
}
