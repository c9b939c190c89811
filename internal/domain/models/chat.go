package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentKind tags what a message carries so the client can pick a renderer.
type ContentKind string

const (
	ContentText         ContentKind = "text"
	ContentOffers       ContentKind = "offers"
	ContentEmpty        ContentKind = "empty"
	ContentCancellation ContentKind = "cancellation"
	ContentTicket       ContentKind = "ticket"
	ContentLoading      ContentKind = "loading"
	ContentError        ContentKind = "error"
)

// MessageContent is the tagged payload of a chat message. Exactly the fields
// matching Kind are populated; everything else stays zero.
type MessageContent struct {
	Kind         ContentKind          `json:"kind"`
	Text         string               `json:"text,omitempty"`
	Offers       []CategoryOffer      `json:"offers,omitempty"`
	Cancellation *CancellationRecord  `json:"cancellation,omitempty"`
	Ticket       *TicketSummary       `json:"ticket,omitempty"`
	Discounts    *DiscountInstruments `json:"discounts,omitempty"`
	Passengers   []Passenger          `json:"passengers,omitempty"`
}

// Message is one transcript entry. ID doubles as the correlation key that
// lets a reply find its own loading placeholder.
type Message struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Content   MessageContent `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// ChatSession is one continuous conversation. Messages are append-only and
// never reordered; a session disappears only on explicit user deletion.
type ChatSession struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}
