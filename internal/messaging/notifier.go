package messaging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Arwei0/line-chatbot/internal/models"
)

// DefaultNoticeDelay is how long the notifier waits before pushing the
// "working…" notice when the real answer has not arrived yet.
const DefaultNoticeDelay = 2 * time.Second

// NoticeText is the fixed notice pushed when answer computation is slow.
const NoticeText = "稍等一下，我正在想…"

// notice lifecycle states. The only legal transitions are
// armed → fired and armed → cancelled.
const (
	noticeArmed = iota
	noticeFired
	noticeCancelled
)

// Notifier arms delayed "working…" notices, one per inbound event.
type Notifier struct {
	gateway Gateway
	delay   time.Duration
}

// NewNotifier creates a Notifier pushing through the given gateway after the
// given delay. A non-positive delay falls back to DefaultNoticeDelay.
func NewNotifier(gateway Gateway, delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultNoticeDelay
	}
	return &Notifier{gateway: gateway, delay: delay}
}

// PendingNotice is a one-shot cancellable delayed action. It is owned by the
// single in-flight event handler and must be released (fired or cancelled)
// before that handler returns.
type PendingNotice struct {
	mu    sync.Mutex
	state int
	timer *time.Timer
}

// Arm schedules the notice for the conversation's push address. If the
// conversation has no push address the returned handle is inert: it never
// fires and Cancel is a no-op.
func (n *Notifier) Arm(ctx context.Context, conv models.ConversationID) *PendingNotice {
	p := &PendingNotice{state: noticeArmed}

	to, ok := conv.PushAddress()
	if !ok {
		p.state = noticeCancelled
		slog.Debug("Notifier.Arm: no push address, notice disabled", "type", string(conv.Type))
		return p
	}

	p.timer = time.AfterFunc(n.delay, func() {
		p.mu.Lock()
		if p.state != noticeArmed {
			p.mu.Unlock()
			return
		}
		p.state = noticeFired
		p.mu.Unlock()

		// Push failures are swallowed: the user simply doesn't see the notice.
		if err := n.gateway.PushText(ctx, to, NoticeText); err != nil {
			slog.Warn("Notifier: notice push failed", "error", err, "to", to)
			return
		}
		slog.Debug("Notifier: notice fired", "to", to, "delay", n.delay)
	})
	return p
}

// Cancel transitions armed → cancelled and reports whether it preempted the
// firing. Calling Cancel after the notice fired, or calling it again, is an
// idempotent no-op returning false.
func (p *PendingNotice) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != noticeArmed {
		return false
	}
	p.state = noticeCancelled
	if p.timer != nil {
		p.timer.Stop()
	}
	return true
}
