package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// QueryRequest is the chat query body the assistant expects.
type QueryRequest struct {
	Query     string `json:"query"`
	UserID    int64  `json:"id"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	SessionID string `json:"session_id"`
}

// Query sends one chat query and returns the reply payload untouched.
// Classification happens in the normalizer, never here.
func (c *Client) Query(ctx context.Context, req QueryRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/query", nil, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// HistoryEntry is one stored transcript line. Content stays raw because
// stored replies have the same unpredictable shapes live ones do.
type HistoryEntry struct {
	Role      string          `json:"role"`
	Content   json.RawMessage `json:"content"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// History replays a stored conversation.
func (c *Client) History(ctx context.Context, userID int64, sessionID string) ([]HistoryEntry, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("session_id", sessionID)

	var resp struct {
		History []HistoryEntry `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/history", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// ConversationMeta is one row in the conversation list.
type ConversationMeta struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Conversations lists the user's stored sessions.
func (c *Client) Conversations(ctx context.Context, userID int64) ([]ConversationMeta, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))

	var resp struct {
		Conversations []ConversationMeta `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/conversations", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// DeleteConversation removes one stored session. This is the only way a
// transcript ever disappears.
func (c *Client) DeleteConversation(ctx context.Context, userID int64, sessionID string) error {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	q.Set("session_id", sessionID)
	return c.do(ctx, http.MethodDelete, "/api/conversations", q, nil, nil)
}
