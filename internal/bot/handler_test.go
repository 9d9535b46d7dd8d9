package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Arwei0/line-chatbot/internal/messaging"
	"github.com/Arwei0/line-chatbot/internal/models"
	"github.com/Arwei0/line-chatbot/internal/session"
)

type stubAttachments struct {
	url string
	err error
	ids []string
}

func (s *stubAttachments) StoreAttachment(ctx context.Context, messageID string) (string, error) {
	s.ids = append(s.ids, messageID)
	return s.url, s.err
}

func newTestHandler(gw *messaging.MockGateway, attachments AttachmentStore) *Handler {
	router := NewRouter(session.NewStore(), &stubResponder{answer: "好的"}, &stubImages{}, "")
	notifier := messaging.NewNotifier(gw, time.Minute) // never fires during a test
	guard := messaging.NewGuard(gw)
	return NewHandler(router, notifier, guard, attachments)
}

func TestHandleTextDelivered(t *testing.T) {
	gw := messaging.NewMockGateway()
	h := newTestHandler(gw, nil)

	h.HandleEvent(context.Background(), userEvent("hi"))

	sent := gw.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected exactly 1 outbound message, got %d", len(sent))
	}
	if sent[0].Channel != "reply" || sent[0].Target != "token-1" {
		t.Errorf("unexpected delivery %+v", sent[0])
	}
	if sent[0].Text != "哈囉，我是你的小助理！輸入 /help 看功能。" {
		t.Errorf("unexpected reply text %q", sent[0].Text)
	}
}

func TestHandleFilteredGroupTextStaysSilent(t *testing.T) {
	gw := messaging.NewMockGateway()
	h := newTestHandler(gw, nil)

	ev := userEvent("大家午餐吃什麼")
	ev.Conversation = models.ConversationID{Type: models.SourceGroup, ID: "G1"}
	h.HandleEvent(context.Background(), ev)

	// Deliberate silence: no reply, no notice, no fallback.
	time.Sleep(20 * time.Millisecond)
	if sent := gw.Sent(); len(sent) != 0 {
		t.Errorf("expected no outbound messages, got %+v", sent)
	}
}

func TestHandleGroupTriggerStripped(t *testing.T) {
	gw := messaging.NewMockGateway()
	h := newTestHandler(gw, nil)

	ev := userEvent("@bot hi")
	ev.Conversation = models.ConversationID{Type: models.SourceGroup, ID: "G1"}
	h.HandleEvent(context.Background(), ev)

	sent := gw.Sent()
	if len(sent) != 1 || sent[0].Text != "哈囉，我是你的小助理！輸入 /help 看功能。" {
		t.Errorf("expected greeting after trigger strip, got %+v", sent)
	}
}

func TestHandleTextCancelsNoticeBeforeDelivery(t *testing.T) {
	gw := messaging.NewMockGateway()
	router := NewRouter(session.NewStore(), &stubResponder{answer: "答案"}, &stubImages{}, "")
	// Tiny delay: the notice would certainly fire if routing didn't cancel it,
	// because the responder below blocks past the delay.
	notifier := messaging.NewNotifier(gw, 10*time.Millisecond)
	guard := messaging.NewGuard(gw)

	slow := &slowResponder{delay: 50 * time.Millisecond, answer: "答案"}
	router.responder = slow
	h := NewHandler(router, notifier, guard, nil)

	h.HandleEvent(context.Background(), userEvent("慢問題"))
	time.Sleep(30 * time.Millisecond)

	sent := gw.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected notice + answer, got %+v", sent)
	}
	// The notice fired first on the push channel, then the answer.
	if sent[0].Channel != "push" || sent[0].Text != messaging.NoticeText {
		t.Errorf("expected notice first, got %+v", sent[0])
	}
	if sent[1].Channel != "reply" || sent[1].Text != "答案" {
		t.Errorf("expected answer second, got %+v", sent[1])
	}
}

type slowResponder struct {
	delay  time.Duration
	answer string
}

func (s *slowResponder) Ask(ctx context.Context, text string) (string, error) {
	time.Sleep(s.delay)
	return s.answer, nil
}

func (s *slowResponder) Engine() string { return "slow" }

func TestHandleTextFastAnswerSuppressesNotice(t *testing.T) {
	gw := messaging.NewMockGateway()
	h := newTestHandler(gw, nil) // notifier armed with a one-minute delay

	h.HandleEvent(context.Background(), userEvent("hi"))
	time.Sleep(20 * time.Millisecond)

	for _, msg := range gw.Sent() {
		if msg.Text == messaging.NoticeText {
			t.Errorf("notice should have been cancelled: %+v", msg)
		}
	}
}

func TestHandleAttachmentStoredAndEchoed(t *testing.T) {
	gw := messaging.NewMockGateway()
	attachments := &stubAttachments{url: "https://bot.example/static/abc.jpg"}
	h := newTestHandler(gw, attachments)

	ev := models.Event{
		Conversation: models.ConversationID{Type: models.SourceUser, ID: "U1"},
		UserID:       "U1",
		ReplyToken:   "token-1",
		Kind:         models.EventImage,
		MessageID:    "msg-9",
	}
	h.HandleEvent(context.Background(), ev)

	if len(attachments.ids) != 1 || attachments.ids[0] != "msg-9" {
		t.Errorf("attachment store called with %v", attachments.ids)
	}
	sent := gw.Sent()
	if len(sent) != 1 || sent[0].ImageURL != "https://bot.example/static/abc.jpg" {
		t.Errorf("unexpected attachment reply %+v", sent)
	}
}

func TestHandleAttachmentStoreFailureFallsBack(t *testing.T) {
	gw := messaging.NewMockGateway()
	h := newTestHandler(gw, &stubAttachments{err: errors.New("disk full")})

	ev := models.Event{
		Conversation: models.ConversationID{Type: models.SourceUser, ID: "U1"},
		ReplyToken:   "token-1",
		Kind:         models.EventImage,
		MessageID:    "msg-9",
	}
	h.HandleEvent(context.Background(), ev)

	sent := gw.Sent()
	if len(sent) != 1 || sent[0].Text != "圖片已收到！" {
		t.Errorf("expected fixed fallback reply, got %+v", sent)
	}
}

func TestHandleAttachmentIgnoredInGroups(t *testing.T) {
	gw := messaging.NewMockGateway()
	attachments := &stubAttachments{url: "https://bot.example/static/abc.jpg"}
	h := newTestHandler(gw, attachments)

	ev := models.Event{
		Conversation: models.ConversationID{Type: models.SourceGroup, ID: "G1"},
		ReplyToken:   "token-1",
		Kind:         models.EventImage,
		MessageID:    "msg-9",
	}
	h.HandleEvent(context.Background(), ev)

	if len(attachments.ids) != 0 {
		t.Errorf("group attachment should not be stored, got %v", attachments.ids)
	}
	if sent := gw.Sent(); len(sent) != 0 {
		t.Errorf("expected no reply for group attachment, got %+v", sent)
	}
}

func TestHandleEventRecoversPanic(t *testing.T) {
	gw := messaging.NewMockGateway()
	router := NewRouter(session.NewStore(), &panicResponder{}, &stubImages{}, "")
	h := NewHandler(router, messaging.NewNotifier(gw, time.Minute), messaging.NewGuard(gw), nil)

	// Must not propagate the panic.
	h.HandleEvent(context.Background(), userEvent("trigger panic"))
}

type panicResponder struct{}

func (p *panicResponder) Ask(ctx context.Context, text string) (string, error) {
	panic("responder exploded")
}

func (p *panicResponder) Engine() string { return "panic" }
