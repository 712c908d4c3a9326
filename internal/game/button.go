package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button dimensions
const (
	buttonWidth   = 70
	buttonHeight  = 28
	buttonSpacing = 6
)

type button struct {
	label   string
	x, y    int
	hovered bool
	pressed bool
}

func (b *button) contains(mx, my int) bool {
	return mx >= b.x && mx <= b.x+buttonWidth && my >= b.y && my <= b.y+buttonHeight
}

// update tracks hover and press state and reports a click: a press and a
// release both inside the button.
func (b *button) update(mx, my int, justPressed, justReleased bool) bool {
	b.hovered = b.contains(mx, my)
	if b.hovered && justPressed {
		b.pressed = true
	}
	clicked := false
	if justReleased {
		clicked = b.pressed && b.hovered
		b.pressed = false
	}
	return clicked
}

func (b *button) draw(screen *ebiten.Image) {
	var bgColor color.Color
	switch {
	case b.pressed:
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	case b.hovered:
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), buttonWidth, buttonHeight, bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, float32(b.x), float32(b.y), buttonWidth, buttonHeight, 2, borderColor, false)

	textWidth := len(b.label) * 6 // debug font glyph width
	textX := b.x + (buttonWidth-textWidth)/2
	textY := b.y + (buttonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, b.label, textX, textY)
}
