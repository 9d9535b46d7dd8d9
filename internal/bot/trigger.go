// Package bot implements the conversational core: trigger filtering,
// command classification and routing, the tarot draw flow, and the
// per-event handler tying them to the delivery layer.
package bot

import (
	"strings"

	"github.com/Arwei0/line-chatbot/internal/models"
)

// groupTriggers are the prefixes that activate the bot in multi-party
// contexts. One-to-one chats need no trigger.
var groupTriggers = []string{"@bot", "/ai", "小幫手"}

// FilterTrigger decides whether the bot should respond to text arriving in
// the given context, and strips the matched trigger prefix. It is pure:
// same inputs, same outputs, no side effects.
func FilterTrigger(source models.SourceType, raw string) (stripped string, ok bool) {
	raw = strings.TrimSpace(raw)
	if !source.IsMultiParty() {
		return raw, true
	}

	lower := strings.ToLower(raw)
	for _, trigger := range groupTriggers {
		if strings.HasPrefix(lower, trigger) {
			return strings.TrimSpace(raw[len(trigger):]), true
		}
	}
	return "", false
}
