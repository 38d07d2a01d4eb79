package backend

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyQuery is returned when a chat message has no text.
var ErrEmptyQuery = errors.New("backend: empty chat query")

// SendContactMessage posts the contact form.
func (c *Client) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if c.Offline() {
		c.fake.recordMessage(msg)
		return nil
	}
	return c.postJSON(ctx, "messages/", msg, "message", nil)
}

// Chat forwards a question to the chatbot. An empty sessionID starts a new conversation.
func (c *Client) Chat(ctx context.Context, query, sessionID string) (ChatReply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return ChatReply{}, ErrEmptyQuery
	}
	if c.Offline() {
		return c.fake.chat(query, sessionID), nil
	}
	body := map[string]any{"query": query}
	if sessionID != "" {
		body["session_id"] = sessionID
	}
	var reply ChatReply
	if err := c.postJSON(ctx, "chatbot/", body, "chat reply", &reply); err != nil {
		return ChatReply{}, err
	}
	if strings.TrimSpace(reply.Answer) == "" {
		return ChatReply{}, &DecodeError{Resource: "chat reply", Err: errors.New("empty answer")}
	}
	if reply.SessionID == "" {
		reply.SessionID = sessionID
	}
	return reply, nil
}

// RecordVisit increments the site visitor counter and returns the new total.
func (c *Client) RecordVisit(ctx context.Context) (VisitorCount, error) {
	if c.Offline() {
		return c.fake.visit(), nil
	}
	var out VisitorCount
	if err := c.postJSON(ctx, "visitor-count/", map[string]any{}, "visitor count", &out); err != nil {
		return VisitorCount{}, err
	}
	return out, nil
}
