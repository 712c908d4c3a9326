package game

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iburimskiy/ifs-editor/internal/frame"
)

func texts(lines []panelLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text
	}
	return out
}

func TestPanelLinesListsTransforms(t *testing.T) {
	s := frame.NewSession()
	lines := panelLines(s, newEditor(), message.NewPrinter(language.English))

	var swatches int
	for _, l := range lines {
		if l.swatch != nil {
			swatches++
		}
	}
	assert.Equal(t, s.Keyframes().Width(), swatches)

	joined := strings.Join(texts(lines), "\n")
	assert.Contains(t, joined, "> Linear: 0")
	assert.Contains(t, joined, "Width      1,024")
	assert.Contains(t, joined, "Add kind: Affine")
}

func TestPanelLinesStatus(t *testing.T) {
	s := frame.NewSession()
	p := message.NewPrinter(language.English)

	s.Status = "saved a.json"
	last := texts(panelLines(s, newEditor(), p))
	assert.Equal(t, "saved a.json", last[len(last)-1])

	s.LastErr = errors.New("boom")
	last = texts(panelLines(s, newEditor(), p))
	assert.Equal(t, "Error: boom", last[len(last)-1])
}

func TestRenderHistory(t *testing.T) {
	h := newRenderHistory(3)
	assert.Empty(t, h.snapshot(3))
	assert.Zero(t, h.peak())

	for _, ms := range []int{5, 9, 2, 4} {
		h.record(time.Duration(ms) * time.Millisecond)
	}
	assert.Equal(t, []time.Duration{9 * time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, h.snapshot(10))
	assert.Equal(t, []time.Duration{4 * time.Millisecond}, h.snapshot(1))
	assert.Equal(t, 9*time.Millisecond, h.peak())
}

func TestButtonClick(t *testing.T) {
	b := &button{label: "Save", x: 10, y: 10}

	assert.False(t, b.update(20, 20, true, false))
	require.True(t, b.pressed)
	assert.True(t, b.update(20, 20, false, true))
	assert.False(t, b.pressed)

	// Releasing outside cancels the click.
	b.update(20, 20, true, false)
	assert.False(t, b.update(200, 200, false, true))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12ms", formatDuration(12*time.Millisecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}

func TestHsvToRgb(t *testing.T) {
	r, g, b := hsvToRgb(0, 1, 1)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	r, g, b = hsvToRgb(120, 1, 1)
	assert.Equal(t, [3]uint8{0, 255, 0}, [3]uint8{r, g, b})
}
