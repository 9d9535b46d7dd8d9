package bot

import (
	"testing"

	"github.com/Arwei0/line-chatbot/internal/models"
)

func TestFilterTriggerDirectChat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text passes through", "今天天氣如何", "今天天氣如何"},
		{"whitespace trimmed", "  hi  ", "hi"},
		{"trigger prefix not stripped in direct chat", "@bot hi", "@bot hi"},
		{"empty text passes", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FilterTrigger(models.SourceUser, tt.raw)
			if !ok {
				t.Fatal("expected direct chat text to be accepted")
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFilterTriggerGroupChat(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		accepted bool
	}{
		{"at-bot trigger", "@bot 今天天氣如何", "今天天氣如何", true},
		{"slash-ai trigger", "/ai 翻譯這句話", "翻譯這句話", true},
		{"helper trigger", "小幫手 /help", "/help", true},
		{"case insensitive trigger", "@BOT hi", "hi", true},
		{"trigger only, empty remainder", "@bot", "", true},
		{"no trigger filtered", "大家午餐吃什麼", "", false},
		{"trigger mid-text filtered", "請 @bot 回答", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FilterTrigger(models.SourceGroup, tt.raw)
			if ok != tt.accepted {
				t.Fatalf("expected accepted=%v, got %v", tt.accepted, ok)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFilterTriggerRoomBehavesLikeGroup(t *testing.T) {
	if _, ok := FilterTrigger(models.SourceRoom, "hello"); ok {
		t.Error("expected untriggered room text to be filtered")
	}
	got, ok := FilterTrigger(models.SourceRoom, "@bot hello")
	if !ok || got != "hello" {
		t.Errorf("expected triggered room text accepted, got ok=%v text=%q", ok, got)
	}
}
