// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score rates each paper's relevance to a topic with a language-model
// call. Every paper gets an explicit Outcome: Scored with a value in [0, 100],
// or Unscored with the reason and the raw reply. Unparseable replies never
// stop the loop; backend errors do.
package score

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/paperscout/pkg/types"
)

// MaxScore is the top of the relevance scale.
const MaxScore = 100

// Backend abstracts the inference API so tests can supply a mock. Complete
// sends one system + user exchange and returns the model's text reply.
type Backend interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Outcome is the per-paper result of scoring: Scored or Unscored.
type Outcome interface {
	isOutcome()
}

// Scored carries a parsed relevance score.
type Scored struct {
	Value int
}

// Unscored records why a reply could not be turned into a score.
type Unscored struct {
	Reason   string
	Response string
}

func (Scored) isOutcome()   {}
func (Unscored) isOutcome() {}

// Summary holds the outcomes of a scoring run, parallel to its input.
type Summary struct {
	Outcomes []Outcome
	Scored   int
	Unscored int
}

// Total returns the number of papers processed.
func (s Summary) Total() int {
	return s.Scored + s.Unscored
}

// Scorer scores papers one at a time against a fixed topic.
type Scorer struct {
	Backend      Backend
	SystemPrompt string
}

// New returns a Scorer using backend and the configured system prompt, or
// the built-in one when cfg leaves it empty.
func New(backend Backend, cfg types.ScoringConfig) *Scorer {
	sys := cfg.SystemPrompt
	if sys == "" {
		sys = DefaultSystemPrompt
	}
	return &Scorer{Backend: backend, SystemPrompt: sys}
}

// ScoreAll sends each paper's abstract to the backend, sequentially, and
// applies the outcomes to papers in place. A reply without a usable number
// leaves that paper's score unset, writes a diagnostic line to w, and
// continues. A backend error aborts the run; outcomes gathered so far are
// returned with it.
func (s *Scorer) ScoreAll(ctx context.Context, papers []types.PaperRecord, topic string, w io.Writer) (Summary, error) {
	summary := Summary{Outcomes: make([]Outcome, 0, len(papers))}

	for i := range papers {
		p := &papers[i]

		prompt, err := BuildPrompt(s.SystemPrompt, topic, p.Abstract)
		if err != nil {
			return summary, err
		}

		reply, err := s.Backend.Complete(ctx, prompt)
		if err != nil {
			return summary, eris.Wrapf(err, "score: paper %d (%s)", i, p.Title)
		}

		outcome := ExtractScore(reply)
		Apply(p, outcome)
		summary.Outcomes = append(summary.Outcomes, outcome)

		switch o := outcome.(type) {
		case Scored:
			summary.Scored++
			fmt.Fprintf(w, "scored:   %3d  %s\n", o.Value, p.Title)
		case Unscored:
			summary.Unscored++
			fmt.Fprintf(w, "error:    %s: response %q, title %q\n", o.Reason, o.Response, p.Title)
			zap.L().Warn("score: unparseable reply",
				zap.Int("index", i),
				zap.String("title", p.Title),
				zap.String("response", o.Response),
				zap.String("reason", o.Reason),
			)
		}
	}

	fmt.Fprintf(w, "\nScoring summary: %d scored, %d unscored (total: %d)\n",
		summary.Scored, summary.Unscored, summary.Total())
	return summary, nil
}

// Apply records an outcome on a paper. Unscored clears any previous score.
func Apply(p *types.PaperRecord, o Outcome) {
	switch o := o.(type) {
	case Scored:
		p.SetScore(o.Value)
	default:
		p.Score = nil
	}
}

var digitRun = regexp.MustCompile(`\d+`)

// ExtractScore parses the first run of decimal digits anywhere in reply
// ("Score: 87" → 87). No digits or a number too large to convert yields
// Unscored. The first run must also lie in [0, MaxScore]: a reply such as
// "Published 2024. Relevance: 85" is Unscored rather than 2024, and later
// digit runs are never consulted.
func ExtractScore(reply string) Outcome {
	m := digitRun.FindString(reply)
	if m == "" {
		return Unscored{Reason: "no number in reply", Response: reply}
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return Unscored{Reason: fmt.Sprintf("cannot convert %q", m), Response: reply}
	}
	if v > MaxScore {
		return Unscored{Reason: fmt.Sprintf("score %d above %d", v, MaxScore), Response: reply}
	}
	return Scored{Value: v}
}
