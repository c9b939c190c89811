// Package chat maintains per-session transcripts and routes replies to the
// renderer matching their classified shape. One in-flight query per session;
// a reply always lands on the placeholder matching its own request id, so
// slow completions can never corrupt another session's transcript.
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"buschat/internal/domain"
	"buschat/internal/domain/models"
	"buschat/internal/normalize"
	"buschat/internal/offers"
	"buschat/internal/upstream"
	"buschat/internal/utils"
)

// Querier is the upstream call the orchestrator dispatches through.
type Querier interface {
	Query(ctx context.Context, req upstream.QueryRequest) (json.RawMessage, error)
}

// Orchestrator owns one user's sessions.
type Orchestrator struct {
	mu       sync.Mutex
	sessions map[string]*session

	querier Querier
	// SaveReply, when set, records the raw reply for later re-render.
	SaveReply func(ctx context.Context, sessionID string, raw []byte)
	now       func() time.Time
}

type session struct {
	data     models.ChatSession
	inFlight bool
}

func NewOrchestrator(q Querier) *Orchestrator {
	return &Orchestrator{
		sessions: map[string]*session{},
		querier:  q,
		now:      time.Now,
	}
}

// Session returns a copy of the transcript, creating the session on first
// touch. Copies keep callers from mutating the live message list.
func (o *Orchestrator) Session(id string) models.ChatSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.ensureLocked(id)
	return copySession(s.data)
}

// Drop forgets a session locally. Upstream deletion is the caller's job.
func (o *Orchestrator) Drop(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, id)
}

// Send appends the user message plus a loading placeholder, dispatches the
// query, and swaps the classified reply into the placeholder's slot. Only
// one request may be in flight per session.
func (o *Orchestrator) Send(ctx context.Context, sessionID string, user models.User, text string) (models.Message, error) {
	text = utils.NormalizeSpace(text)
	if text == "" {
		return models.Message{}, domain.ValidationError{Field: "query", Msg: "message is empty"}
	}

	requestID := uuid.NewString()

	o.mu.Lock()
	s := o.ensureLocked(sessionID)
	if s.inFlight {
		o.mu.Unlock()
		return models.Message{}, domain.ConflictError{Resource: "session", Msg: "a reply is still pending"}
	}
	s.inFlight = true
	now := o.now()
	s.data.Messages = append(s.data.Messages,
		models.Message{
			ID:        uuid.NewString(),
			Role:      models.RoleUser,
			Content:   models.MessageContent{Kind: models.ContentText, Text: text},
			CreatedAt: now,
		},
		models.Message{
			ID:        requestID,
			Role:      models.RoleAssistant,
			Content:   models.MessageContent{Kind: models.ContentLoading},
			CreatedAt: now,
		},
	)
	s.data.UpdatedAt = now
	o.mu.Unlock()

	raw, err := o.querier.Query(ctx, upstream.QueryRequest{
		Query:     text,
		UserID:    user.ID,
		Name:      user.Name,
		Mobile:    user.Mobile,
		SessionID: sessionID,
	})

	var content models.MessageContent
	switch {
	case err == nil:
		if o.SaveReply != nil {
			o.SaveReply(ctx, sessionID, raw)
		}
		content = RenderContent(normalize.ClassifyRaw(raw))
	case domain.IsSessionExpired(err):
		content = models.MessageContent{Kind: models.ContentError, Text: "Your session has expired. Please log in again."}
	default:
		content = models.MessageContent{Kind: models.ContentError, Text: "Something went wrong while fetching a reply. Please try again."}
	}

	msg := o.resolve(sessionID, requestID, content)
	return msg, err
}

// resolve swaps the final content into the placeholder slot, keyed strictly
// by request id.
func (o *Orchestrator) resolve(sessionID, requestID string, content models.MessageContent) models.Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.ensureLocked(sessionID)
	s.inFlight = false
	s.data.UpdatedAt = o.now()
	for i := range s.data.Messages {
		if s.data.Messages[i].ID == requestID {
			s.data.Messages[i].Content = content
			return s.data.Messages[i]
		}
	}
	// Placeholder vanished (session dropped mid-flight). The result is
	// simply abandoned, as navigation away would.
	return models.Message{ID: requestID, Role: models.RoleAssistant, Content: content}
}

// Restore replays stored history through the normalizer so old raw replies
// render as cards again.
func (o *Orchestrator) Restore(sessionID string, entries []upstream.HistoryEntry) models.ChatSession {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.ensureLocked(sessionID)
	if s.inFlight {
		return copySession(s.data)
	}

	msgs := make([]models.Message, 0, len(entries))
	for _, e := range entries {
		msg := models.Message{ID: uuid.NewString(), CreatedAt: parseTimestamp(e.Timestamp, o.now)}
		if e.Role == models.RoleUser {
			msg.Role = models.RoleUser
			var text string
			if err := json.Unmarshal(e.Content, &text); err != nil {
				text = string(e.Content)
			}
			msg.Content = models.MessageContent{Kind: models.ContentText, Text: text}
		} else {
			msg.Role = models.RoleAssistant
			msg.Content = RenderContent(normalize.ClassifyRaw(e.Content))
		}
		msgs = append(msgs, msg)
	}
	s.data.Messages = msgs
	s.data.UpdatedAt = o.now()
	return copySession(s.data)
}

// RenderContent maps a normalizer result onto the message payload the
// client renders. NoValidData with recovered prose renders as plain text;
// with nothing at all it renders as the empty state, never as an error page.
func RenderContent(res normalize.Result) models.MessageContent {
	content := models.MessageContent{
		Discounts:  res.Discounts,
		Passengers: res.Passengers,
	}
	switch res.Kind {
	case normalize.KindOffers:
		content.Kind = models.ContentOffers
		content.Offers = offers.FlattenAll(res.Offers)
		if len(content.Offers) == 0 {
			for _, offer := range res.Offers {
				content.Offers = append(content.Offers, offers.Bare(offer))
			}
		}
	case normalize.KindEmpty:
		content.Kind = models.ContentEmpty
		content.Text = "No buses found for that search."
	case normalize.KindCancellation:
		content.Kind = models.ContentCancellation
		content.Cancellation = res.Cancellation
	case normalize.KindTicket:
		content.Kind = models.ContentTicket
		content.Ticket = res.Ticket
	default:
		if res.Text != "" {
			content.Kind = models.ContentText
			content.Text = res.Text
		} else {
			content.Kind = models.ContentEmpty
			content.Text = "I couldn't find anything for that. Try rephrasing?"
		}
	}
	return content
}

func (o *Orchestrator) ensureLocked(id string) *session {
	s, ok := o.sessions[id]
	if !ok {
		s = &session{data: models.ChatSession{ID: id, UpdatedAt: o.now()}}
		o.sessions[id] = s
	}
	return s
}

func copySession(s models.ChatSession) models.ChatSession {
	out := s
	out.Messages = make([]models.Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

func parseTimestamp(s string, now func() time.Time) time.Time {
	if s == "" {
		return now()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := utils.ParseDateTime(s); err == nil {
		return t
	}
	return now()
}
