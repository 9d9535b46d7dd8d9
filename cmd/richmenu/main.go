// Command richmenu provisions the default LINE rich menu for the chatbot.
//
// Without flags it creates a 2x3 menu whose cells send the bot's fixed
// commands, uploads a background image (a generated placeholder when none
// is supplied), and sets the menu as the default for all users. With
// -delete it removes every existing rich menu instead.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Arwei0/line-chatbot/internal/line"
	"github.com/joho/godotenv"
)

// defaultCells is the menu layout in row-major order. The three trailing
// cells are placeholders for features that are not live yet.
var defaultCells = []line.RichMenuCell{
	{Label: "占星", Text: "/塔羅"},
	{Label: "生圖", Text: "/圖 可愛柴犬"},
	{Label: "使用教學", Text: "/help"},
	{Label: "即將推出", Text: "即將推出"},
	{Label: "即將推出", Text: "即將推出"},
	{Label: "即將推出", Text: "即將推出"},
}

// placeholderLabels are ASCII stand-ins drawn on the generated background,
// since the bundled bitmap font cannot render CJK glyphs.
var placeholderLabels = []string{"TAROT", "IMAGE", "HELP", "SOON", "SOON", "SOON"}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	var (
		deleteAll   = flag.Bool("delete", false, "delete all existing rich menus and exit")
		imagePath   = flag.String("image", "", "path to a 2500x1686 PNG or JPEG background (generated when empty)")
		menuName    = flag.String("name", "line-chatbot-menu", "rich menu name")
		chatBarText = flag.String("chat-bar", "選單", "chat bar label")
		token       = flag.String("channel-token", os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"), "LINE channel access token (overrides $LINE_CHANNEL_ACCESS_TOKEN)")
		secret      = flag.String("channel-secret", os.Getenv("LINE_CHANNEL_SECRET"), "LINE channel secret (overrides $LINE_CHANNEL_SECRET)")
	)
	flag.Parse()

	client, err := line.NewClient(line.WithChannelToken(*token), line.WithChannelSecret(*secret))
	if err != nil {
		slog.Error("failed to initialize LINE client", "error", err)
		os.Exit(1)
	}

	if *deleteAll {
		deleted, err := client.DeleteAllRichMenus()
		if err != nil {
			slog.Error("failed to delete rich menus", "error", err, "deleted", deleted)
			os.Exit(1)
		}
		slog.Info("rich menus deleted", "count", deleted)
		return
	}

	img, contentType, err := menuImage(*imagePath)
	if err != nil {
		slog.Error("failed to prepare rich menu image", "error", err)
		os.Exit(1)
	}

	id, err := client.SetupRichMenu(*menuName, *chatBarText, defaultCells, img, contentType)
	if err != nil {
		slog.Error("failed to set up rich menu", "error", err)
		os.Exit(1)
	}
	slog.Info("rich menu ready", "rich_menu_id", id)
}

// menuImage returns the background image reader and its content type,
// loading the supplied file or generating a placeholder.
func menuImage(path string) (io.Reader, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read image file: %w", err)
		}
		contentType := "image/png"
		if len(data) > 2 && data[0] == 0xff && data[1] == 0xd8 {
			contentType = "image/jpeg"
		}
		return bytes.NewReader(data), contentType, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, generatePlaceholder()); err != nil {
		return nil, "", fmt.Errorf("failed to encode placeholder image: %w", err)
	}
	return &buf, "image/png", nil
}

// generatePlaceholder renders a simple 2x3 grid matching the tappable
// areas, with one label per cell.
func generatePlaceholder() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, line.RichMenuWidth, line.RichMenuHeight))

	colWidths := []int{833, 834, 833}
	rowHeight := line.RichMenuHeight / 2
	fills := []color.RGBA{
		{R: 0x4a, G: 0x5a, B: 0x8a, A: 0xff},
		{R: 0x5a, G: 0x7a, B: 0x6a, A: 0xff},
		{R: 0x8a, G: 0x5a, B: 0x5a, A: 0xff},
		{R: 0x55, G: 0x55, B: 0x55, A: 0xff},
		{R: 0x66, G: 0x66, B: 0x66, A: 0xff},
		{R: 0x55, G: 0x55, B: 0x55, A: 0xff},
	}

	x := 0
	for col := 0; col < 3; col++ {
		for row := 0; row < 2; row++ {
			i := row*3 + col
			cell := image.Rect(x, row*rowHeight, x+colWidths[col], (row+1)*rowHeight)
			draw.Draw(img, cell, &image.Uniform{C: fills[i]}, image.Point{}, draw.Src)
			drawLabel(img, cell, placeholderLabels[i])
		}
		x += colWidths[col]
	}
	return img
}

// drawLabel centers a single line of text in the given cell using the
// bundled 7x13 bitmap face.
func drawLabel(img *image.RGBA, cell image.Rectangle, label string) {
	face := basicfont.Face7x13
	width := len(label) * face.Advance
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot: fixed.P(
			cell.Min.X+(cell.Dx()-width)/2,
			cell.Min.Y+cell.Dy()/2,
		),
	}
	d.DrawString(label)
}
