// Package messaging provides the outbound delivery abstractions: the
// platform gateway interface, the delivery guard, and the speculative
// notifier.
package messaging

import "context"

// Gateway defines the minimal messaging-platform surface the bot consumes.
// Reply calls use a single-use reply token tied to one inbound event; push
// calls use a durable conversation address. All calls fail with a transport
// error when the token/address is invalid or the network call fails.
type Gateway interface {
	ReplyText(ctx context.Context, replyToken, text string, quickReplies []string) error
	ReplyImage(ctx context.Context, replyToken, imageURL string) error
	PushText(ctx context.Context, to, text string) error
	PushImage(ctx context.Context, to, imageURL string) error
}
