// Package conversation turns a surfaced question and a running dialogue into
// streamed replies. Replies arrive as delta frames with escape-encoded
// newlines, terminated by an explicit done frame; a stream that produces no
// content at all terminates with core.ErrEmptyStream instead of closing
// silently.
package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reverblab/reverb/core"
	"github.com/reverblab/reverb/logging"
	"github.com/reverblab/reverb/provider"
)

// DefaultTimeout bounds one full streamed reply.
const DefaultTimeout = 2 * time.Minute

// Options configure a Session.
type Options struct {
	// Timeout bounds the whole streamed reply; hitting it is a transport
	// failure.
	Timeout time.Duration
	// Logger receives stream diagnostics.
	Logger logging.Logger
}

// ReplyRequest carries everything a reply turn needs.
type ReplyRequest struct {
	// ContextNotes are today's notes, injected into the system prompt.
	ContextNotes []core.Note
	// InitialQuestion is the surfaced question that opened the dialogue.
	InitialQuestion string
	// Rationale is the judge's internal reasoning. It shapes the reply but is
	// never shown to the user.
	Rationale string
	// History is the running dialogue. Roles are normalized: anything that is
	// not an assistant turn counts as a user turn.
	History []core.Message
	// NewMessage is the user's current message.
	NewMessage string
}

// Session streams companion replies over a streaming completion capability.
type Session struct {
	id       string
	streamer provider.StreamCompleter
	opts     Options
}

// NewSession creates a Session with a fresh identifier.
func NewSession(streamer provider.StreamCompleter, optFns ...func(o *Options)) *Session {
	opts := Options{
		Timeout: DefaultTimeout,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Session{id: uuid.NewString(), streamer: streamer, opts: opts}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Reply streams the next companion reply. Delta frames carry escape-encoded
// text increments; a done frame closes a non-empty reply. Errors — transport
// failures and the empty-reply condition — arrive on the second channel.
// Cancelling ctx stops the underlying provider call.
func (s *Session) Reply(ctx context.Context, req ReplyRequest) (<-chan Event, <-chan error) {
	out := make(chan Event, 32)
	errCh := make(chan error, 1)

	messages := buildMessages(req)
	system := systemPrompt(req.ContextNotes, req.InitialQuestion, req.Rationale)

	go func() {
		defer close(out)
		defer close(errCh)

		callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()

		chunks, streamErrs := s.streamer.CompleteStream(callCtx, system, messages)

		var total strings.Builder
		for chunk := range chunks {
			if chunk == "" {
				continue
			}
			total.WriteString(chunk)
			select {
			case <-ctx.Done():
				errCh <- core.TransportError("reply stream", ctx.Err())
				return
			case out <- Event{Type: EventDelta, Data: EncodeChunk(chunk)}:
			}
		}
		if err := <-streamErrs; err != nil {
			s.opts.Logger.Error("reply stream failed", "session_id", s.id, "error", err)
			errCh <- err
			return
		}
		if strings.TrimSpace(total.String()) == "" {
			s.opts.Logger.Warn("reply stream produced no content", "session_id", s.id)
			errCh <- core.ErrEmptyStream
			return
		}
		out <- Event{Type: EventDone}
	}()
	return out, errCh
}

// buildMessages normalizes the dialogue history and appends the current user
// message. Empty turns are dropped.
func buildMessages(req ReplyRequest) []core.Message {
	messages := make([]core.Message, 0, len(req.History)+1)
	for _, m := range req.History {
		if m.Content == "" {
			continue
		}
		messages = append(messages, core.Message{Role: core.NormalizeRole(m.Role), Content: m.Content})
	}
	if req.NewMessage != "" {
		messages = append(messages, core.Message{Role: core.RoleUser, Content: req.NewMessage})
	}
	return messages
}
