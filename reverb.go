// Package reverb surfaces moments in a user's journaling history that echo
// something just written. It maintains a vector fingerprint per note,
// retrieves the most similar prior notes under a similarity threshold, and
// decides — combining a single-note judgment with a cross-note echo judgment —
// whether a note is worth surfacing, producing at most one follow-up prompt.
//
// Most applications interact with this package by:
//  1. Creating an Engine via New() with provider adapters (see provider/openai,
//     provider/anthropic) or any custom capability implementations
//  2. Calling CheckInsight for a freshly written note, or CrossDateInsight for
//     a whole day against the history
//  3. Calling Converse once a surfaced question drew a reply
//
// The engine holds no durable storage: cached fingerprints come in with each
// call and newly computed ones go back out for the caller to persist.
package reverb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reverblab/reverb/conversation"
	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/echo"
	"github.com/reverblab/reverb/fingerprint"
	"github.com/reverblab/reverb/insight"
	"github.com/reverblab/reverb/logging"
	"github.com/reverblab/reverb/provider"
)

// ErrNoNotes is returned when an operation is invoked without any notes to
// work on.
var ErrNoNotes = errors.New("no notes provided")

// Options configure the Engine.
type Options struct {
	// Threshold is the exclusive minimum similarity for an echo.
	Threshold float64
	// Limit caps the echoes returned per note.
	Limit int
	// EmbedTimeout bounds one batched embedding call.
	EmbedTimeout time.Duration
	// CompletionTimeout bounds each judgment completion call.
	CompletionTimeout time.Duration
	// StreamTimeout bounds one full streamed conversation reply.
	StreamTimeout time.Duration
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Engine wires the fingerprint resolver, echo matcher, insight judge and
// conversation sessions behind the three operations a hosting transport layer
// needs. Safe for concurrent use; no state is shared across requests.
type Engine struct {
	resolver *fingerprint.Resolver
	matcher  *echo.Matcher
	judge    *insight.Judge
	streamer provider.StreamCompleter
	opts     Options
}

// New creates an Engine. The embedder and completer are hard dependencies;
// streamer may be nil if Converse is never used.
func New(embedder provider.Embedder, completer provider.Completer, streamer provider.StreamCompleter, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Threshold:         echo.DefaultThreshold,
		Limit:             echo.DefaultLimit,
		EmbedTimeout:      fingerprint.DefaultTimeout,
		CompletionTimeout: insight.DefaultTimeout,
		StreamTimeout:     conversation.DefaultTimeout,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		resolver: fingerprint.NewResolver(embedder, func(o *fingerprint.Options) {
			o.Timeout = opts.EmbedTimeout
			o.Logger = opts.Logger
		}),
		matcher: echo.NewMatcher(func(o *echo.Options) {
			o.Threshold = opts.Threshold
			o.Limit = opts.Limit
		}),
		judge: insight.NewJudge(completer, func(o *insight.Options) {
			o.Timeout = opts.CompletionTimeout
			o.Logger = opts.Logger
		}),
		streamer: streamer,
		opts:     opts,
	}
}

// InsightResult is the outcome of CheckInsight. Rationale is intended for
// feeding a later conversation turn, never for direct display.
type InsightResult struct {
	Worth           bool               `json:"worth"`
	Question        string             `json:"question,omitempty"`
	Rationale       string             `json:"rationale,omitempty"`
	Echoes          []core.EchoMatch   `json:"echoes,omitempty"`
	NewFingerprints []core.Fingerprint `json:"newlyComputedFingerprints,omitempty"`
}

// CheckInsight decides whether a freshly written note is worth surfacing.
// History notes may arrive with precomputed fingerprints; every miss is
// embedded in one batched call and handed back via NewFingerprints for the
// caller to persist. Embedding failure is fatal (no verdict without a
// fingerprint); an individual judgment call only degrades its own check.
func (e *Engine) CheckInsight(ctx context.Context, note core.Note, history []core.Note, fingerprints map[int64]core.Fingerprint) (*InsightResult, error) {
	logger := e.invocationLogger("check_insight")

	notes := make([]core.Note, 0, len(history)+1)
	notes = append(notes, note)
	notes = append(notes, history...)

	resolved, computed, err := e.resolver.Resolve(ctx, notes, fingerprints)
	if err != nil {
		return nil, fmt.Errorf("check insight: %w", err)
	}

	matches, err := e.matcher.Rank(resolved[note.ID], candidates(history, resolved), note.ID)
	if err != nil {
		return nil, fmt.Errorf("check insight: %w", err)
	}
	logger.Debug("echo ranking completed", "note_id", note.ID, "matches", len(matches))

	verdict, err := e.judge.Evaluate(ctx, note, matches)
	if err != nil {
		return nil, fmt.Errorf("check insight: %w", err)
	}
	logger.Info("insight decided", "note_id", note.ID, "worth", verdict.Worth, "echoes", len(matches))

	return &InsightResult{
		Worth:           verdict.Worth,
		Question:        verdict.Question,
		Rationale:       verdict.Rationale,
		Echoes:          matches,
		NewFingerprints: computed,
	}, nil
}

// CrossDateResult is the outcome of CrossDateInsight.
type CrossDateResult struct {
	Echoes          []core.EchoGroup   `json:"echoes"`
	Summary         string             `json:"summary"`
	NewFingerprints []core.Fingerprint `json:"newlyComputedFingerprints,omitempty"`
}

// CrossDateInsight ranks each of today's notes against the history and, when
// any echoes exist, composes one summary of the surfacing pattern. With an
// empty history it returns immediately — no embedding calls, empty echoes and
// the default no-echo summary.
func (e *Engine) CrossDateInsight(ctx context.Context, todayNotes, historyNotes []core.Note, fingerprints map[int64]core.Fingerprint) (*CrossDateResult, error) {
	logger := e.invocationLogger("cross_date_insight")

	if len(todayNotes) == 0 {
		return nil, fmt.Errorf("cross-date insight: today: %w", ErrNoNotes)
	}
	if len(historyNotes) == 0 {
		logger.Debug("no history, skipping echo analysis")
		return &CrossDateResult{Echoes: []core.EchoGroup{}, Summary: insight.DefaultNoEchoSummary}, nil
	}

	notes := make([]core.Note, 0, len(todayNotes)+len(historyNotes))
	notes = append(notes, todayNotes...)
	notes = append(notes, historyNotes...)

	resolved, computed, err := e.resolver.Resolve(ctx, notes, fingerprints)
	if err != nil {
		return nil, fmt.Errorf("cross-date insight: %w", err)
	}

	history := candidates(historyNotes, resolved)
	groups := make([]core.EchoGroup, 0, len(todayNotes))
	for _, today := range todayNotes {
		matches, err := e.matcher.Rank(resolved[today.ID], history, today.ID)
		if err != nil {
			return nil, fmt.Errorf("cross-date insight: %w", err)
		}
		if len(matches) > 0 {
			groups = append(groups, core.EchoGroup{Note: today, Matches: matches})
		}
	}
	logger.Info("echo analysis completed", "today_notes", len(todayNotes), "echo_groups", len(groups))

	summary, err := e.judge.Summarize(ctx, groups)
	if err != nil {
		return nil, fmt.Errorf("cross-date insight: %w", err)
	}

	return &CrossDateResult{Echoes: groups, Summary: summary, NewFingerprints: computed}, nil
}

// ConverseRequest carries one turn of a surfaced-question dialogue.
type ConverseRequest struct {
	ContextNotes    []core.Note    // Today's notes, as conversational context
	InitialQuestion string         // The question that opened the dialogue
	Rationale       string         // Internal judge rationale, never shown
	History         []core.Message // Prior turns; roles are normalized
	NewMessage      string         // The user's current message
}

// Converse streams the companion's next reply. See the conversation package
// for frame semantics (escape-encoded deltas, explicit done, empty-stream
// error).
func (e *Engine) Converse(ctx context.Context, req ConverseRequest) (<-chan conversation.Event, <-chan error) {
	session := conversation.NewSession(e.streamer, func(o *conversation.Options) {
		o.Timeout = e.opts.StreamTimeout
		o.Logger = e.opts.Logger
	})
	return session.Reply(ctx, conversation.ReplyRequest{
		ContextNotes:    req.ContextNotes,
		InitialQuestion: req.InitialQuestion,
		Rationale:       req.Rationale,
		History:         req.History,
		NewMessage:      req.NewMessage,
	})
}

// invocationLogger tags a request-scoped logger when the configured logger
// supports contextual cloning.
func (e *Engine) invocationLogger(op string) logging.Logger {
	if el, ok := e.opts.Logger.(*logging.EngineLogger); ok {
		return el.WithComponent(op).WithInvocation(uuid.NewString())
	}
	return e.opts.Logger
}

// candidates pairs notes with their resolved fingerprints for ranking.
func candidates(notes []core.Note, resolved map[int64]core.Fingerprint) []core.Candidate {
	out := make([]core.Candidate, len(notes))
	for i, n := range notes {
		out[i] = core.Candidate{Note: n, Fingerprint: resolved[n.ID]}
	}
	return out
}
