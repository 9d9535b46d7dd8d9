package bot

import (
	"strconv"
	"strings"
)

// CommandKind enumerates everything the router can be asked to do. The
// classifier produces exactly one of these per accepted event; the router
// matches exhaustively and has no other dispatch logic.
type CommandKind int

const (
	// CmdImage is an image lookup request carrying a query string.
	CmdImage CommandKind = iota
	// CmdTarotMenu shows the draw topic quick-reply menu.
	CmdTarotMenu
	// CmdTarotStart starts a draw session for a topic label.
	CmdTarotStart
	// CmdTarotStop cancels any in-progress draw session.
	CmdTarotStop
	// CmdDraw is one draw step ("抽牌" or a number 1..78).
	CmdDraw
	// CmdGreeting is a fixed greeting.
	CmdGreeting
	// CmdHelp lists the available commands.
	CmdHelp
	// CmdWhoAmI echoes the caller's provider user id.
	CmdWhoAmI
	// CmdTime reports the server time.
	CmdTime
	// CmdEngine reports the active AI backend.
	CmdEngine
	// CmdAsk is the fallthrough to the AI responder.
	CmdAsk
)

// Command is the classified form of one inbound text.
type Command struct {
	Kind  CommandKind
	Query string // image query for CmdImage
	Topic string // topic label for CmdTarotStart
	Raw   string // original post-strip text, used by CmdAsk and echo fallback
}

// Fixed command vocabulary. The draw flow is driven entirely by these exact
// labels, which double as the quick-reply options.
const (
	tarotMenuCommand = "/塔羅"
	drawToken        = "抽牌"
	stopLabel        = "停止占卜"
	singleCardTopic  = "今日運勢"
)

var imageAliases = []string{"/img", "/圖"}

var spreadTopics = []string{"愛情運勢", "事業運勢", "財運運勢"}

var greetings = map[string]bool{"hi": true, "hello": true, "嗨": true}

// maxDrawNumber bounds the numeric draw input. Deliberately wider than the
// current catalog: the number stands in for "pick a card" and never selects
// a specific one.
const maxDrawNumber = 78

// Classify maps post-filter, post-strip text to a Command. First match
// wins, in the fixed dispatch order: image request, session menu, session
// start/stop, draw step, fixed commands, AI fallthrough.
func Classify(raw string) Command {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)

	for _, alias := range imageAliases {
		// A bare alias is an image request with an empty query ("/img " after
		// trimming); the empty query resolves to the fallback image downstream.
		if lower == alias {
			return Command{Kind: CmdImage, Raw: raw}
		}
		if strings.HasPrefix(lower, alias+" ") {
			return Command{Kind: CmdImage, Query: strings.TrimSpace(raw[len(alias):]), Raw: raw}
		}
	}

	switch lower {
	case tarotMenuCommand:
		return Command{Kind: CmdTarotMenu, Raw: raw}
	case stopLabel:
		return Command{Kind: CmdTarotStop, Raw: raw}
	case singleCardTopic:
		return Command{Kind: CmdTarotStart, Topic: raw, Raw: raw}
	}
	for _, topic := range spreadTopics {
		if lower == topic {
			return Command{Kind: CmdTarotStart, Topic: raw, Raw: raw}
		}
	}

	if isDrawInput(lower) {
		return Command{Kind: CmdDraw, Raw: raw}
	}

	switch {
	case greetings[lower]:
		return Command{Kind: CmdGreeting, Raw: raw}
	case lower == "/help":
		return Command{Kind: CmdHelp, Raw: raw}
	case lower == "/id":
		return Command{Kind: CmdWhoAmI, Raw: raw}
	case lower == "/time":
		return Command{Kind: CmdTime, Raw: raw}
	case lower == "/engine":
		return Command{Kind: CmdEngine, Raw: raw}
	}

	return Command{Kind: CmdAsk, Raw: raw}
}

// isDrawInput accepts the literal draw token or a digit string in
// [1, maxDrawNumber].
func isDrawInput(lower string) bool {
	if lower == drawToken {
		return true
	}
	if lower == "" {
		return false
	}
	for _, r := range lower {
		if r < '0' || r > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(lower)
	if err != nil {
		return false
	}
	return n >= 1 && n <= maxDrawNumber
}
