// Package insight decides whether a freshly written note is worth surfacing
// to the user. It runs up to three completion calls — a single-note check, a
// cross-note echo check, and a question-only fallback — and merges their
// verdicts into one decision carrying at most one follow-up question.
//
// The external completion capability is a hard dependency at the transport
// level and a soft one at the parsing level: an unreachable provider aborts
// the evaluation, while a verdict that cannot be parsed degrades that one
// check to "not worth".
package insight

import (
	"context"
	"strings"
	"time"

	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/logging"
	"github.com/reverblab/reverb/provider"
)

// DefaultTimeout bounds each individual completion call.
const DefaultTimeout = 60 * time.Second

// Options configure a Judge.
type Options struct {
	// Timeout bounds each completion call; a timeout is a transport failure.
	Timeout time.Duration
	// Logger receives degraded-parse warnings and call diagnostics.
	Logger logging.Logger
}

// Judge orchestrates the worthiness checks against a completion capability.
type Judge struct {
	completer provider.Completer
	opts      Options
}

// NewJudge creates a Judge over the given completion capability.
func NewJudge(completer provider.Completer, optFns ...func(o *Options)) *Judge {
	opts := Options{
		Timeout: DefaultTimeout,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Judge{completer: completer, opts: opts}
}

// Evaluate runs the full decision protocol for one note and its echoes.
//
// The single-note check always runs. The echo check runs only when matches is
// non-empty. If the echo check fired and found the echo worth surfacing, its
// question and rationale win; otherwise, if only the single-note check fired,
// a third question-only call composes the follow-up. At most one question is
// ever produced.
func (j *Judge) Evaluate(ctx context.Context, note core.Note, matches []core.EchoMatch) (core.Verdict, error) {
	single, err := j.check(ctx, "single-note", singleNotePrompt(note))
	if err != nil {
		return core.Verdict{}, err
	}

	var echoVerdict core.Verdict
	if len(matches) > 0 {
		echoVerdict, err = j.check(ctx, "echo", echoPrompt(note, matches))
		if err != nil {
			return core.Verdict{}, err
		}
	}

	return j.merge(ctx, note, single, echoVerdict)
}

// Summarize produces the cross-date summary over all echo groups, or the
// default no-echo summary when groups is empty.
func (j *Judge) Summarize(ctx context.Context, groups []core.EchoGroup) (string, error) {
	if len(groups) == 0 {
		return DefaultNoEchoSummary, nil
	}
	text, err := j.complete(ctx, "summary", provider.CompletionRequest{Prompt: summaryPrompt(groups)})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// check performs one structured judgment call. Transport failures propagate;
// parse failures degrade to a "not worth" verdict.
func (j *Judge) check(ctx context.Context, purpose, prompt string) (core.Verdict, error) {
	raw, err := j.complete(ctx, purpose, provider.CompletionRequest{Prompt: prompt, Structured: true})
	if err != nil {
		return core.Verdict{}, err
	}
	verdict, err := ParseVerdict(raw)
	if err != nil {
		j.opts.Logger.Warn("verdict parse degraded to not-worth", "purpose", purpose, "error", err)
		return core.Verdict{}, nil
	}
	return verdict, nil
}

// merge combines the two check outcomes and, when only the single-note check
// fired, runs the question-only fallback call.
func (j *Judge) merge(ctx context.Context, note core.Note, single, echoVerdict core.Verdict) (core.Verdict, error) {
	merged := core.Verdict{Worth: single.Worth || echoVerdict.Worth}
	switch {
	case echoVerdict.Worth:
		merged.Question = echoVerdict.Question
		merged.Rationale = echoVerdict.Rationale
	case single.Worth:
		question, err := j.complete(ctx, "follow-up", provider.CompletionRequest{Prompt: followUpPrompt(note)})
		if err != nil {
			return core.Verdict{}, err
		}
		merged.Question = strings.TrimSpace(question)
		merged.Rationale = single.Rationale
	}
	return merged, nil
}

func (j *Judge) complete(ctx context.Context, purpose string, req provider.CompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, j.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, err := j.completer.Complete(callCtx, req)
	if err != nil {
		j.opts.Logger.Error("completion call failed", "purpose", purpose, "duration", time.Since(start), "error", err)
		return "", err
	}
	j.opts.Logger.Debug("completion call completed", "purpose", purpose, "duration", time.Since(start))
	return text, nil
}
