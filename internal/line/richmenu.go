package line

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Rich menu canvas size recommended by the platform for a 2x3 layout.
const (
	RichMenuWidth  = 2500
	RichMenuHeight = 1686
)

// RichMenuCell is one tappable area sending a fixed message text.
type RichMenuCell struct {
	Label string
	Text  string
}

// SetupRichMenu creates a 2x3 rich menu from six cells (row-major order),
// uploads the background image, and sets the menu as the default for all
// users. It returns the created rich menu id.
func (c *Client) SetupRichMenu(name, chatBarText string, cells []RichMenuCell, image io.Reader, contentType string) (string, error) {
	if len(cells) != 6 {
		return "", fmt.Errorf("rich menu requires exactly 6 cells, got %d", len(cells))
	}

	// 833 + 834 + 833 = 2500
	colWidths := []int64{833, 834, 833}
	rowHeight := int64(RichMenuHeight / 2)

	areas := make([]messaging_api.RichMenuArea, 0, len(cells))
	for i, cell := range cells {
		col := i % 3
		row := i / 3
		var x int64
		for j := 0; j < col; j++ {
			x += colWidths[j]
		}
		areas = append(areas, messaging_api.RichMenuArea{
			Bounds: &messaging_api.RichMenuBounds{
				X:      x,
				Y:      int64(row) * rowHeight,
				Width:  colWidths[col],
				Height: rowHeight,
			},
			Action: &messaging_api.MessageAction{Label: cell.Label, Text: cell.Text},
		})
	}

	created, err := c.api.CreateRichMenu(&messaging_api.RichMenuRequest{
		Size:        &messaging_api.RichMenuSize{Width: RichMenuWidth, Height: RichMenuHeight},
		Selected:    true,
		Name:        name,
		ChatBarText: chatBarText,
		Areas:       areas,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create rich menu: %w", err)
	}
	id := created.RichMenuId
	slog.Info("rich menu created", "rich_menu_id", id)

	if _, err := c.blob.SetRichMenuImage(id, contentType, image); err != nil {
		return "", fmt.Errorf("failed to upload rich menu image: %w", err)
	}
	if _, err := c.api.SetDefaultRichMenu(id); err != nil {
		return "", fmt.Errorf("failed to set default rich menu: %w", err)
	}
	slog.Info("rich menu set as default", "rich_menu_id", id)
	return id, nil
}

// DeleteAllRichMenus removes every existing rich menu and returns how many
// were deleted.
func (c *Client) DeleteAllRichMenus() (int, error) {
	list, err := c.api.GetRichMenuList()
	if err != nil {
		return 0, fmt.Errorf("failed to list rich menus: %w", err)
	}

	deleted := 0
	for _, menu := range list.Richmenus {
		if _, err := c.api.DeleteRichMenu(menu.RichMenuId); err != nil {
			return deleted, fmt.Errorf("failed to delete rich menu %s: %w", menu.RichMenuId, err)
		}
		slog.Debug("rich menu deleted", "rich_menu_id", menu.RichMenuId)
		deleted++
	}
	return deleted, nil
}
