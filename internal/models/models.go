// Package models defines the core data structures for the LINE chatbot.
//
// It includes the conversation identity used as the session key, inbound
// webhook events, and outgoing message shapes shared across modules.
package models

import "errors"

// SourceType identifies the kind of chat context an event belongs to.
type SourceType string

const (
	// SourceUser is a one-to-one chat with a single user.
	SourceUser SourceType = "user"
	// SourceGroup is a multi-party group chat.
	SourceGroup SourceType = "group"
	// SourceRoom is a multi-party room chat.
	SourceRoom SourceType = "room"
)

// IsMultiParty reports whether the source type is a group or room context.
func (s SourceType) IsMultiParty() bool {
	return s == SourceGroup || s == SourceRoom
}

// ConversationID is the addressable chat context a message belongs to.
// Two identities are equal iff both the source type and the provider-assigned
// identifier match; the struct is comparable and used directly as a map key.
type ConversationID struct {
	Type SourceType
	ID   string
}

// PushAddress returns the durable push target for this conversation and
// whether one is resolvable.
func (c ConversationID) PushAddress() (string, bool) {
	if c.ID == "" {
		return "", false
	}
	return c.ID, true
}

// EventKind distinguishes inbound message payloads.
type EventKind string

const (
	// EventText carries a plain text payload.
	EventText EventKind = "text"
	// EventImage carries a binary attachment reference (provider message id).
	EventImage EventKind = "image"
)

// Event is one inbound messaging-platform event, already reduced to the
// fields the bot needs: where it came from, the single-use reply token, and
// either a text payload or an attachment reference.
type Event struct {
	Conversation ConversationID
	UserID       string // sender's provider user id; may be empty in rooms
	ReplyToken   string
	Kind         EventKind
	Text         string // set when Kind == EventText
	MessageID    string // set when Kind == EventImage
	Time         int64  // unix seconds
}

// Outgoing is the single content message produced for one inbound event.
// Exactly one of Text or ImageURL is set.
type Outgoing struct {
	Text         string
	QuickReplies []string // exact-text quick-reply labels, optional
	ImageURL     string
}

// IsImage reports whether the outgoing message is an image message.
func (o Outgoing) IsImage() bool {
	return o.ImageURL != ""
}

// TextMessage builds a plain text outgoing message.
func TextMessage(text string) Outgoing {
	return Outgoing{Text: text}
}

// ImageMessage builds an image outgoing message referencing a fetchable URL.
func ImageMessage(url string) Outgoing {
	return Outgoing{ImageURL: url}
}

// Error variables shared across modules.
var (
	ErrNoPushAddress = errors.New("no push address resolvable for conversation")
	ErrNoResult      = errors.New("provider returned no result")
	ErrNotConfigured = errors.New("no AI backend configured")
)

// Asset describes one stored user upload served by the static asset host.
type Asset struct {
	Name      string `json:"name"`       // generated filename, unique
	SourceID  string `json:"source_id"`  // provider message id the content came from
	MediaType string `json:"media_type"` // e.g. image/jpeg
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"created_at"` // unix seconds
}
