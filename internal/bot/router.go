package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Arwei0/line-chatbot/internal/models"
	"github.com/Arwei0/line-chatbot/internal/session"
)

// Responder is the external AI collaborator.
type Responder interface {
	// Ask returns the answer for the user's text, or a provider error.
	Ask(ctx context.Context, text string) (string, error)
	// Engine names the active backend for the /engine command.
	Engine() string
}

// ImageSearcher is the external image lookup collaborator. An empty URL
// with a nil error means no result, which is not a failure.
type ImageSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// DefaultFallbackImageURL is the generic image used when the search
// collaborator yields nothing.
const DefaultFallbackImageURL = "https://picsum.photos/600/400"

// Fixed reply texts. The greeting and echo formats are part of the bot's
// observable contract and exercised by the end-to-end tests.
const (
	greetingReply = "哈囉，我是你的小助理！輸入 /help 看功能。"
	helpReply     = "指令：\n" +
		"- /塔羅：開始塔羅占卜\n" +
		"- /圖 關鍵字：搜尋一張圖片\n" +
		"- /id：顯示你的使用者ID\n" +
		"- /time：伺服器時間\n" +
		"- /engine：目前使用的回覆引擎\n" +
		"- 其他訊息：由 AI 回覆（若無 API key 則回 Echo）"
	idOnlyDirectReply = "/id 只能在一對一聊天使用。"
	stopReply         = "好的，已結束這次占卜。"
	noSessionReply    = "目前沒有進行中的占卜，輸入 /塔羅 開始。"
	singleClosing     = "今天就到這裡，祝你有美好的一天！"
	tarotMenuPrompt   = "想占卜哪個主題呢？"
)

// echoReply is the silent fallback when the AI collaborator fails.
func echoReply(text string) string {
	return "你說：" + text
}

// Router executes classified commands against the session store and the
// external collaborators, producing exactly one outgoing message per
// command.
type Router struct {
	sessions  *session.Store
	responder Responder
	images    ImageSearcher
	fallback  string // fallback image URL
	now       func() time.Time
}

// NewRouter creates a Router. fallbackImageURL may be empty to use the
// default.
func NewRouter(sessions *session.Store, responder Responder, images ImageSearcher, fallbackImageURL string) *Router {
	if fallbackImageURL == "" {
		fallbackImageURL = DefaultFallbackImageURL
	}
	return &Router{
		sessions:  sessions,
		responder: responder,
		images:    images,
		fallback:  fallbackImageURL,
		now:       time.Now,
	}
}

// Route produces the single content reply for a classified command.
// Provider failures never escape: they are recovered here into safe
// defaults per the error taxonomy.
func (r *Router) Route(ctx context.Context, ev models.Event, cmd Command) models.Outgoing {
	switch cmd.Kind {
	case CmdImage:
		return r.routeImage(ctx, cmd.Query)
	case CmdTarotMenu:
		return models.Outgoing{
			Text:         tarotMenuPrompt,
			QuickReplies: tarotMenuOptions(),
		}
	case CmdTarotStart:
		return r.routeStart(ev.Conversation, cmd.Topic)
	case CmdTarotStop:
		r.sessions.Stop(ev.Conversation)
		return models.TextMessage(stopReply)
	case CmdDraw:
		return r.routeDraw(ev.Conversation)
	case CmdGreeting:
		return models.TextMessage(greetingReply)
	case CmdHelp:
		return models.TextMessage(helpReply)
	case CmdWhoAmI:
		if ev.Conversation.Type != models.SourceUser || ev.UserID == "" {
			return models.TextMessage(idOnlyDirectReply)
		}
		return models.TextMessage("你的ID：" + ev.UserID)
	case CmdTime:
		return models.TextMessage("現在時間：" + r.now().Format("2006-01-02 15:04:05"))
	case CmdEngine:
		return models.TextMessage("目前引擎：" + r.responder.Engine())
	case CmdAsk:
		return r.routeAsk(ctx, cmd.Raw)
	default:
		return r.routeAsk(ctx, cmd.Raw)
	}
}

// tarotMenuOptions lists the quick-reply labels: all topics plus stop.
func tarotMenuOptions() []string {
	options := make([]string, 0, len(spreadTopics)+2)
	options = append(options, singleCardTopic)
	options = append(options, spreadTopics...)
	options = append(options, stopLabel)
	return options
}

func (r *Router) routeImage(ctx context.Context, query string) models.Outgoing {
	url, err := r.images.Search(ctx, query)
	if err != nil {
		// Recoverable provider failure: fall back to the fixed image.
		slog.Warn("Router.routeImage: image search failed, using fallback", "error", err, "query", query)
		url = ""
	}
	if url == "" {
		url = r.fallback
	}
	return models.ImageMessage(url)
}

func (r *Router) routeStart(conv models.ConversationID, topic string) models.Outgoing {
	mode := session.ModeSpread
	if topic == singleCardTopic {
		mode = session.ModeSingle
	}
	r.sessions.Start(conv, mode, topic)

	var text string
	if mode == session.ModeSingle {
		text = fmt.Sprintf("已為你開啟「%s」占卜，輸入「%s」抽出你的牌。", topic, drawToken)
	} else {
		text = fmt.Sprintf("已為你開啟「%s」三張牌占卜（過去／現在／未來），輸入「%s」抽出第一張（%s）。",
			topic, drawToken, positionLabels[0])
	}
	return models.Outgoing{Text: text, QuickReplies: []string{drawToken, stopLabel}}
}

func (r *Router) routeDraw(conv models.ConversationID) models.Outgoing {
	sess, ok := r.sessions.Draw(conv, drawCard())
	if !ok {
		// Valid empty-state input, not an error.
		return models.TextMessage(noSessionReply)
	}

	if sess.Remaining > 0 {
		last := sess.Drawn[len(sess.Drawn)-1]
		next := positionLabels[len(sess.Drawn)]
		text := fmt.Sprintf("%s\n\n輸入「%s」抽出下一張（%s）。", revealText(last), drawToken, next)
		return models.Outgoing{Text: text, QuickReplies: []string{drawToken, stopLabel}}
	}

	if sess.Mode == session.ModeSingle {
		return models.TextMessage(revealText(sess.Drawn[0]) + "\n\n" + singleClosing)
	}
	return models.TextMessage(spreadSummary(sess))
}

// spreadSummary lists the three draws labelled past/present/future in draw
// order.
func spreadSummary(sess session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "「%s」占卜結果：\n", sess.Topic)
	for i, d := range sess.Drawn {
		fmt.Fprintf(&b, "\n【%s】%s\n", positionLabels[i], revealText(d))
	}
	b.WriteString("\n占卜結束，祝一切順利！")
	return b.String()
}

func (r *Router) routeAsk(ctx context.Context, text string) models.Outgoing {
	answer, err := r.responder.Ask(ctx, text)
	if err != nil {
		// Recovered locally; the user just sees an echo.
		slog.Warn("Router.routeAsk: AI responder failed, falling back to echo", "error", err)
		return models.TextMessage(echoReply(text))
	}
	if strings.TrimSpace(answer) == "" {
		return models.TextMessage(echoReply(text))
	}
	return models.TextMessage(answer)
}
