package signal

import (
	"github.com/helixbill/denialflow/internal/knowledge"
	"github.com/helixbill/denialflow/internal/model"
)

// Signal weights. Structured payer codes are the strongest evidence, the
// keyword scan next, the regex scan last.
const (
	codeWeight    = 0.5
	textWeight    = 0.3
	patternWeight = 0.2
)

// Combiner fuses the three extractor signals into one classification result.
type Combiner struct {
	kb *knowledge.Base
}

// NewCombiner returns a combiner that resolves subcategories through the
// knowledge base.
func NewCombiner(kb *knowledge.Base) *Combiner {
	return &Combiner{kb: kb}
}

// Combine runs a plurality vote over the three signals and computes the
// weighted confidence.
//
// Signals with zero confidence abstain from the vote: a signal that saw no
// evidence at all must not drag the result toward OTHER. Ties resolve in
// signal priority order (code, then text, then pattern). The confidence is
// the weighted sum over all three signals, abstainers included, whether or
// not they voted for the winner.
func (c *Combiner) Combine(code, text, pattern model.Signal) model.ClassificationResult {
	ordered := []model.Signal{code, text, pattern}

	votes := make(map[model.DenialCause]int, 3)
	for _, s := range ordered {
		if s.Confidence > 0 {
			votes[s.Cause]++
		}
	}

	winner := model.CauseOther
	bestVotes := 0
	for _, s := range ordered {
		if s.Confidence <= 0 {
			continue
		}
		if votes[s.Cause] > bestVotes {
			winner = s.Cause
			bestVotes = votes[s.Cause]
		}
	}

	confidence := codeWeight*code.Confidence +
		textWeight*text.Confidence +
		patternWeight*pattern.Confidence

	subcategory := ""
	if entry, ok := c.kb.Lookup(winner); ok {
		subcategory = entry.Subcategory
	}

	return model.ClassificationResult{
		Cause:       winner,
		Confidence:  confidence,
		Subcategory: subcategory,
		Signals:     ordered,
	}
}

// Classifier runs the three extractors over a denial case and combines their
// signals. Extractors are pure functions of the case, so a classifier is safe
// for concurrent use.
type Classifier struct {
	codes    *CodeExtractor
	text     *TextExtractor
	patterns *PatternExtractor
	combiner *Combiner
}

// NewClassifier builds the extractors and combiner. It fails only if a regex
// in the pattern table does not compile.
func NewClassifier(kb *knowledge.Base) (*Classifier, error) {
	patterns, err := NewPatternExtractor()
	if err != nil {
		return nil, err
	}
	return &Classifier{
		codes:    NewCodeExtractor(),
		text:     NewTextExtractor(),
		patterns: patterns,
		combiner: NewCombiner(kb),
	}, nil
}

// Classify produces the combined classification for one denial case.
func (c *Classifier) Classify(denial model.DenialCase) model.ClassificationResult {
	return c.combiner.Combine(
		c.codes.Extract(denial),
		c.text.Extract(denial),
		c.patterns.Extract(denial),
	)
}
