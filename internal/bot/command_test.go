package bot

import "testing"

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want CommandKind
	}{
		{"image alias ascii", "/img cute cat", CmdImage},
		{"image alias cjk", "/圖 可愛柴犬", CmdImage},
		{"tarot menu", "/塔羅", CmdTarotMenu},
		{"single card topic", "今日運勢", CmdTarotStart},
		{"spread topic love", "愛情運勢", CmdTarotStart},
		{"spread topic career", "事業運勢", CmdTarotStart},
		{"spread topic wealth", "財運運勢", CmdTarotStart},
		{"stop label", "停止占卜", CmdTarotStop},
		{"draw token", "抽牌", CmdDraw},
		{"draw number low", "1", CmdDraw},
		{"draw number high", "78", CmdDraw},
		{"greeting hi", "hi", CmdGreeting},
		{"greeting hello uppercase", "Hello", CmdGreeting},
		{"greeting cjk", "嗨", CmdGreeting},
		{"help", "/help", CmdHelp},
		{"whoami", "/id", CmdWhoAmI},
		{"time", "/time", CmdTime},
		{"engine uppercase", "/ENGINE", CmdEngine},
		{"free text falls through", "明天會下雨嗎", CmdAsk},
		{"number out of range", "79", CmdAsk},
		{"zero", "0", CmdAsk},
		{"signed number", "+7", CmdAsk},
		{"negative number", "-7", CmdAsk},
		{"decimal number", "7.5", CmdAsk},
		{"number with spaces inside", "7 7", CmdAsk},
		{"empty text", "", CmdAsk},
		{"image alias without query", "/img", CmdImage},
		{"image alias trailing space only", "/圖 ", CmdImage},
		{"alias prefix of a longer word", "/imgx", CmdAsk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyImageQuery(t *testing.T) {
	cmd := Classify("/圖 可愛柴犬")
	if cmd.Kind != CmdImage {
		t.Fatalf("expected CmdImage, got %v", cmd.Kind)
	}
	if cmd.Query != "可愛柴犬" {
		t.Errorf("expected query 可愛柴犬, got %q", cmd.Query)
	}

	cmd = Classify("/img   shiba inu  ")
	if cmd.Query != "shiba inu" {
		t.Errorf("expected trimmed query, got %q", cmd.Query)
	}

	cmd = Classify("/img ")
	if cmd.Kind != CmdImage || cmd.Query != "" {
		t.Errorf("expected empty-query image request, got %+v", cmd)
	}
}

func TestClassifyTopicCarried(t *testing.T) {
	cmd := Classify("愛情運勢")
	if cmd.Kind != CmdTarotStart || cmd.Topic != "愛情運勢" {
		t.Errorf("expected start with topic, got %+v", cmd)
	}
}

func TestClassifyRawPreserved(t *testing.T) {
	cmd := Classify("  明天會下雨嗎  ")
	if cmd.Raw != "明天會下雨嗎" {
		t.Errorf("expected trimmed raw text, got %q", cmd.Raw)
	}
}

func TestIsDrawInputBounds(t *testing.T) {
	accept := []string{"抽牌", "1", "42", "78", "007"}
	reject := []string{"", "0", "79", "100", "abc", "7a", " 7", "７"}

	for _, in := range accept {
		if !isDrawInput(in) {
			t.Errorf("expected %q to be a draw input", in)
		}
	}
	for _, in := range reject {
		if isDrawInput(in) {
			t.Errorf("expected %q to be rejected", in)
		}
	}
}
