package bot

import (
	"context"
	"log/slog"

	"github.com/Arwei0/line-chatbot/internal/messaging"
	"github.com/Arwei0/line-chatbot/internal/models"
)

// AttachmentStore persists inbound binary attachments and returns the public
// URL they are served at.
type AttachmentStore interface {
	StoreAttachment(ctx context.Context, messageID string) (string, error)
}

// imageReceivedReply is the safe default when an attachment cannot be
// stored.
const imageReceivedReply = "圖片已收到！"

// Handler is the per-event unit of work: it filters, arms the speculative
// notice, routes, cancels the notice, and hands the single content reply to
// the delivery guard.
type Handler struct {
	router      *Router
	notifier    *messaging.Notifier
	guard       *messaging.Guard
	attachments AttachmentStore // nil disables attachment storage
}

// NewHandler wires the conversational core together.
func NewHandler(router *Router, notifier *messaging.Notifier, guard *messaging.Guard, attachments AttachmentStore) *Handler {
	return &Handler{
		router:      router,
		notifier:    notifier,
		guard:       guard,
		attachments: attachments,
	}
}

// HandleEvent processes one inbound event end to end. Nothing escapes to
// crash the caller: panics are recovered and logged, provider failures are
// already absorbed below, and delivery failures are terminal and logged.
func (h *Handler) HandleEvent(ctx context.Context, ev models.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Handler.HandleEvent: recovered panic", "panic", r, "conversation", ev.Conversation.ID)
		}
	}()

	switch ev.Kind {
	case models.EventImage:
		h.handleAttachment(ctx, ev)
	case models.EventText:
		h.handleText(ctx, ev)
	default:
		slog.Debug("Handler.HandleEvent: ignoring event kind", "kind", string(ev.Kind))
	}
}

func (h *Handler) handleText(ctx context.Context, ev models.Event) {
	stripped, ok := FilterTrigger(ev.Conversation.Type, ev.Text)
	if !ok {
		// Filtered, intentionally unanswered.
		slog.Debug("Handler.handleText: event filtered", "conversation", ev.Conversation.ID, "type", string(ev.Conversation.Type))
		return
	}

	// Armed before dispatch so slow paths surface the notice; cancelled
	// right after the answer is computed, before it is sent.
	notice := h.notifier.Arm(ctx, ev.Conversation)
	cmd := Classify(stripped)
	msg := h.router.Route(ctx, ev, cmd)
	notice.Cancel()

	if err := h.guard.Deliver(ctx, ev.ReplyToken, ev.Conversation, msg); err != nil {
		slog.Error("Handler.handleText: delivery failed", "error", err, "conversation", ev.Conversation.ID)
	}
}

func (h *Handler) handleAttachment(ctx context.Context, ev models.Event) {
	// Attachments cannot carry a trigger token, so multi-party contexts
	// never get an attachment reply.
	if ev.Conversation.Type.IsMultiParty() {
		return
	}
	if h.attachments == nil {
		slog.Debug("Handler.handleAttachment: attachment storage disabled")
		return
	}

	notice := h.notifier.Arm(ctx, ev.Conversation)
	var msg models.Outgoing
	url, err := h.attachments.StoreAttachment(ctx, ev.MessageID)
	if err != nil {
		slog.Warn("Handler.handleAttachment: failed to store attachment", "error", err, "message_id", ev.MessageID)
		msg = models.TextMessage(imageReceivedReply)
	} else {
		msg = models.ImageMessage(url)
	}
	notice.Cancel()

	if err := h.guard.Deliver(ctx, ev.ReplyToken, ev.Conversation, msg); err != nil {
		slog.Error("Handler.handleAttachment: delivery failed", "error", err, "conversation", ev.Conversation.ID)
	}
}
