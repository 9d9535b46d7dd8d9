// Package line wraps the LINE Messaging API SDK for use by the bot.
//
// It converts webhook callbacks into the bot's event model and implements
// the outbound gateway (reply/push, text/image) plus attachment download
// and rich menu management.
package line

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/Arwei0/line-chatbot/internal/models"
)

// Opts holds configuration options for the LINE client.
type Opts struct {
	ChannelToken  string
	ChannelSecret string
}

// Option defines a configuration option for the LINE client.
type Option func(*Opts)

// WithChannelToken sets the channel access token.
func WithChannelToken(token string) Option {
	return func(o *Opts) { o.ChannelToken = token }
}

// WithChannelSecret sets the channel secret used for webhook signature
// validation.
func WithChannelSecret(secret string) Option {
	return func(o *Opts) { o.ChannelSecret = secret }
}

// Client wraps the Messaging API for modular use.
type Client struct {
	api    *messaging_api.MessagingApiAPI
	blob   *messaging_api.MessagingApiBlobAPI
	secret string
}

// NewClient creates a new LINE client, applying any provided options.
// The channel token and secret are both mandatory.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ChannelToken == "" || cfg.ChannelSecret == "" {
		return nil, fmt.Errorf("LINE channel access token and channel secret are required")
	}

	api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging API client: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(cfg.ChannelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob API client: %w", err)
	}

	slog.Debug("LINE client created")
	return &Client{api: api, blob: blob, secret: cfg.ChannelSecret}, nil
}

// ParseRequest validates the webhook signature and converts the callback
// into bot events. Unsupported event and message types are skipped.
func (c *Client) ParseRequest(r *http.Request) ([]models.Event, error) {
	cb, err := webhook.ParseRequest(c.secret, r)
	if err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(cb.Events))
	for _, raw := range cb.Events {
		me, ok := raw.(webhook.MessageEvent)
		if !ok {
			slog.Debug("line.ParseRequest: skipping non-message event")
			continue
		}

		conv, userID, ok := convertSource(me.Source)
		if !ok {
			slog.Debug("line.ParseRequest: skipping event with unknown source")
			continue
		}

		ev := models.Event{
			Conversation: conv,
			UserID:       userID,
			ReplyToken:   me.ReplyToken,
			Time:         me.Timestamp / 1000,
		}

		switch msg := me.Message.(type) {
		case webhook.TextMessageContent:
			ev.Kind = models.EventText
			ev.Text = msg.Text
		case webhook.ImageMessageContent:
			ev.Kind = models.EventImage
			ev.MessageID = msg.Id
		default:
			slog.Debug("line.ParseRequest: skipping unsupported message type")
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// convertSource maps a webhook source to the conversation identity and the
// sender's user id.
func convertSource(src webhook.SourceInterface) (models.ConversationID, string, bool) {
	switch s := src.(type) {
	case webhook.UserSource:
		return models.ConversationID{Type: models.SourceUser, ID: s.UserId}, s.UserId, true
	case webhook.GroupSource:
		return models.ConversationID{Type: models.SourceGroup, ID: s.GroupId}, s.UserId, true
	case webhook.RoomSource:
		return models.ConversationID{Type: models.SourceRoom, ID: s.RoomId}, s.UserId, true
	default:
		return models.ConversationID{}, "", false
	}
}

// ReplyText sends a text reply, optionally with exact-text quick-reply
// options.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string, quickReplies []string) error {
	msg := messaging_api.TextMessage{Text: text}
	if len(quickReplies) > 0 {
		msg.QuickReply = buildQuickReply(quickReplies)
	}
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   []messaging_api.MessageInterface{msg},
	})
	if err != nil {
		return fmt.Errorf("reply text failed: %w", err)
	}
	return nil
}

// ReplyImage sends an image reply referencing a fetchable URL.
func (c *Client) ReplyImage(ctx context.Context, replyToken, imageURL string) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.ImageMessage{
				OriginalContentUrl: imageURL,
				PreviewImageUrl:    imageURL,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("reply image failed: %w", err)
	}
	return nil
}

// PushText sends a text message over the durable push channel.
func (c *Client) PushText(ctx context.Context, to, text string) error {
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To:       to,
		Messages: []messaging_api.MessageInterface{messaging_api.TextMessage{Text: text}},
	}, "")
	if err != nil {
		return fmt.Errorf("push text failed: %w", err)
	}
	return nil
}

// PushImage sends an image message over the durable push channel.
func (c *Client) PushImage(ctx context.Context, to, imageURL string) error {
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To: to,
		Messages: []messaging_api.MessageInterface{
			messaging_api.ImageMessage{
				OriginalContentUrl: imageURL,
				PreviewImageUrl:    imageURL,
			},
		},
	}, "")
	if err != nil {
		return fmt.Errorf("push image failed: %w", err)
	}
	return nil
}

// DownloadContent fetches the binary payload of an inbound message by id.
// The caller owns the returned reader.
func (c *Client) DownloadContent(ctx context.Context, messageID string) (io.ReadCloser, string, error) {
	resp, err := c.blob.GetMessageContent(messageID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download message content: %w", err)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func buildQuickReply(labels []string) *messaging_api.QuickReply {
	items := make([]messaging_api.QuickReplyItem, 0, len(labels))
	for _, label := range labels {
		items = append(items, messaging_api.QuickReplyItem{
			Action: &messaging_api.MessageAction{Label: label, Text: label},
		})
	}
	return &messaging_api.QuickReply{Items: items}
}
