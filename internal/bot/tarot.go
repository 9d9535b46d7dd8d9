package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/Arwei0/line-chatbot/internal/session"
)

// Card is one entry of the fixed draw catalog.
type Card struct {
	Name     string
	Upright  string
	Reversed string
}

// catalog holds the major arcana. Its length is independent of the accepted
// numeric draw input range, so it can grow to the full deck without touching
// the classifier.
var catalog = []Card{
	{"愚者", "新的開始、自由、冒險的勇氣", "魯莽、缺乏計畫、停滯不前"},
	{"魔術師", "創造力、行動力、掌握資源", "猶豫不決、才能未發揮、欺瞞"},
	{"女祭司", "直覺、內在智慧、靜觀其變", "忽視直覺、祕密浮現、情緒失衡"},
	{"皇后", "豐盛、滋養、感受生活", "過度依賴、停滯、忽略自我照顧"},
	{"皇帝", "穩固、領導、建立秩序", "固執、控制欲、權威受挑戰"},
	{"教皇", "傳統、指導、值得信賴的建議", "墨守成規、質疑權威、需要新路"},
	{"戀人", "愛與連結、重要的選擇、和諧", "關係失衡、價值觀衝突、逃避選擇"},
	{"戰車", "意志力、勝利、果斷前進", "失控、方向不明、進退兩難"},
	{"力量", "勇氣、耐心、以柔克剛", "自我懷疑、內在消耗、失去耐性"},
	{"隱者", "內省、尋找答案、獨處的智慧", "孤立、逃避現實、過度封閉"},
	{"命運之輪", "轉機、時運流轉、順勢而為", "時機未到、循環受阻、抗拒改變"},
	{"正義", "公平、誠實、承擔後果", "失衡、偏頗、逃避責任"},
	{"吊人", "換個角度、暫停、必要的犧牲", "徒勞、拖延、不願放手"},
	{"死神", "結束與重生、放下、轉化", "抗拒結束、停滯、難以告別"},
	{"節制", "平衡、調和、循序漸進", "極端、失衡、操之過急"},
	{"惡魔", "慾望、束縛、直視陰影", "掙脫束縛、覺察、重獲自由"},
	{"高塔", "驟變、瓦解、震撼後的清醒", "驚險避過、延遲的崩解、恐懼改變"},
	{"星星", "希望、療癒、相信未來", "信心不足、失望、需要休息"},
	{"月亮", "不安、迷霧、傾聽潛意識", "迷霧散去、真相漸明、恐懼消退"},
	{"太陽", "成功、喜悅、光明正向", "延遲的成功、過度樂觀、能量不足"},
	{"審判", "覺醒、重要的召喚、重新評估", "自我批判、錯過召喚、裹足不前"},
	{"世界", "完成、圓滿、一個週期的終點", "尚未完成、差最後一步、延遲"},
}

// drawCard selects one card uniformly at random with replacement and flips
// an independent fair coin for the orientation. The user's numeric input
// never reaches this function.
func drawCard() session.CardDraw {
	return session.CardDraw{
		Card:     rand.IntN(len(catalog)),
		Reversed: rand.IntN(2) == 1,
	}
}

// revealText formats one draw as "{name}（正位|逆位）\n→ {meaning}".
func revealText(d session.CardDraw) string {
	card := catalog[d.Card]
	if d.Reversed {
		return fmt.Sprintf("%s（逆位）\n→ %s", card.Name, card.Reversed)
	}
	return fmt.Sprintf("%s（正位）\n→ %s", card.Name, card.Upright)
}

// positionLabels names the three spread positions in draw order.
var positionLabels = []string{"過去", "現在", "未來"}
