package messaging

import (
	"context"
	"log/slog"

	"github.com/Arwei0/line-chatbot/internal/models"
)

// Guard delivers the single content message for one inbound event: reply
// channel first, one push fallback on failure, nothing beyond that.
type Guard struct {
	gateway Gateway
}

// NewGuard creates a delivery guard over the given gateway.
func NewGuard(gateway Gateway) *Guard {
	return &Guard{gateway: gateway}
}

// Deliver sends msg via the reply channel for replyToken. On failure it
// falls back to the push channel if the conversation resolves to a push
// address. A double failure (or a missing push address) is terminal for the
// event and logged only; the returned error reports it for observability but
// callers must not surface it to the user.
func (g *Guard) Deliver(ctx context.Context, replyToken string, conv models.ConversationID, msg models.Outgoing) error {
	err := g.reply(ctx, replyToken, msg)
	if err == nil {
		slog.Debug("Guard.Deliver: reply channel succeeded", "conversation", conv.ID)
		return nil
	}
	slog.Warn("Guard.Deliver: reply channel failed, attempting push fallback", "error", err, "conversation", conv.ID)

	to, ok := conv.PushAddress()
	if !ok {
		slog.Error("Guard.Deliver: no push address, delivery failed terminally", "conversation", conv.ID)
		return models.ErrNoPushAddress
	}

	if pushErr := g.push(ctx, to, msg); pushErr != nil {
		slog.Error("Guard.Deliver: push fallback failed, delivery failed terminally", "error", pushErr, "to", to)
		return pushErr
	}
	slog.Info("Guard.Deliver: delivered via push fallback", "to", to)
	return nil
}

func (g *Guard) reply(ctx context.Context, replyToken string, msg models.Outgoing) error {
	if msg.IsImage() {
		return g.gateway.ReplyImage(ctx, replyToken, msg.ImageURL)
	}
	return g.gateway.ReplyText(ctx, replyToken, msg.Text, msg.QuickReplies)
}

func (g *Guard) push(ctx context.Context, to string, msg models.Outgoing) error {
	if msg.IsImage() {
		return g.gateway.PushImage(ctx, to, msg.ImageURL)
	}
	return g.gateway.PushText(ctx, to, msg.Text)
}
