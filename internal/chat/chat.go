// Package chat keeps the per-visitor chatbot conversation and relays
// questions to the backend.
package chat

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"finitefield.org/folio-web/internal/backend"
)

// ErrorReply is shown in place of an answer when the backend fails.
const ErrorReply = "Sorry, I encountered an error. Please try again later."

const maxMessageRunes = 600

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one line of the transcript.
type Message struct {
	Role Role   `json:"r"`
	Text string `json:"t"`
}

// State is the conversation stored in the visitor's session.
type State struct {
	SessionID  string    `json:"sid,omitempty"`
	Messages   []Message `json:"m,omitempty"`
	LastActive time.Time `json:"at,omitempty"`
}

// Expire clears the conversation when it has been idle for at least inactivity.
func (s *State) Expire(now time.Time, inactivity time.Duration) bool {
	if s.LastActive.IsZero() || now.Sub(s.LastActive) < inactivity {
		return false
	}
	s.Reset()
	return true
}

func (s *State) Reset() {
	s.SessionID = ""
	s.Messages = nil
	s.LastActive = time.Time{}
}

// Append adds m and drops the oldest messages until both limits hold.
func (s *State) Append(m Message, maxMessages, maxBytes int) {
	m.Text = truncate(strings.TrimSpace(m.Text), maxMessageRunes)
	s.Messages = append(s.Messages, m)
	if maxMessages > 0 && len(s.Messages) > maxMessages {
		s.Messages = s.Messages[len(s.Messages)-maxMessages:]
	}
	for maxBytes > 0 && len(s.Messages) > 1 && s.encodedSize() > maxBytes {
		s.Messages = s.Messages[1:]
	}
}

func (s *State) encodedSize() int {
	b, err := json.Marshal(s)
	if err != nil {
		return 0
	}
	return len(b)
}

// Greeting is the bot's first line for an empty conversation.
func Greeting(owner string) string {
	if owner == "" {
		return "Hello! Ask me anything about this portfolio."
	}
	return "Hello! Ask me about " + owner + "'s projects, experience, or skills."
}

// Backend answers chat queries.
type Backend interface {
	Chat(ctx context.Context, query, sessionID string) (backend.ChatReply, error)
}

// Options tunes a Service.
type Options struct {
	Inactivity  time.Duration
	MaxMessages int
	// MaxBytes bounds the encoded State so it fits in a cookie.
	MaxBytes int
	Logger   *zap.Logger
}

// Service applies one chat turn to a State.
type Service struct {
	backend Backend
	opts    Options
	now     func() time.Time
	log     *zap.Logger
}

func NewService(b Backend, opts Options) *Service {
	if opts.Inactivity <= 0 {
		opts.Inactivity = 5 * time.Minute
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 2500
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: b, opts: opts, now: time.Now, log: logger.Named("chat")}
}

// Inactivity is the idle period after which a conversation is discarded.
func (s *Service) Inactivity() time.Duration { return s.opts.Inactivity }

// Expire drops an idle conversation and reports whether it did.
func (s *Service) Expire(st *State) bool {
	return st.Expire(s.now(), s.opts.Inactivity)
}

// Ask records query and the bot's reply in st. On backend failure the
// reply is ErrorReply and the error is returned as well.
func (s *Service) Ask(ctx context.Context, st *State, query string) (Message, error) {
	now := s.now()
	if st.Expire(now, s.opts.Inactivity) {
		s.log.Debug("chat session expired")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Message{}, backend.ErrEmptyQuery
	}
	st.Append(Message{Role: RoleUser, Text: query}, s.opts.MaxMessages, s.opts.MaxBytes)
	st.LastActive = now

	reply, err := s.backend.Chat(ctx, query, st.SessionID)
	if err != nil {
		s.log.Warn("chat backend failed", zap.Error(err))
		msg := Message{Role: RoleBot, Text: ErrorReply}
		st.Append(msg, s.opts.MaxMessages, s.opts.MaxBytes)
		return msg, err
	}
	if reply.SessionID != "" {
		st.SessionID = reply.SessionID
	}
	msg := Message{Role: RoleBot, Text: reply.Answer}
	st.Append(msg, s.opts.MaxMessages, s.opts.MaxBytes)
	return st.Messages[len(st.Messages)-1], nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
