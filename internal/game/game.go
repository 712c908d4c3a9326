// Package game hosts the editor in an ebiten window. Update decodes the
// keyboard and buttons into a frame.Input and runs one controller tick;
// Draw shows the control panel and the cached raster.
package game

import (
	"context"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iburimskiy/ifs-editor/internal/config"
	"github.com/iburimskiy/ifs-editor/internal/frame"
	"github.com/iburimskiy/ifs-editor/internal/render"
	"github.com/iburimskiy/ifs-editor/internal/transform"
)

const (
	labelRandomize = "Randomize"
	labelAdd       = "Add"
	labelOpen      = "Open"
	labelSave      = "Save"
	labelExport    = "Export"

	buttonsY   = 36
	panelTextY = buttonsY + buttonHeight + 16

	historyHeight = 30
	swatchSize    = 10
)

type Game struct {
	ctx     context.Context
	ctl     *frame.Controller
	session *frame.Session
	editor  *editor
	history *renderHistory
	buttons []*button
	printer *message.Printer

	preview   *ebiten.Image
	previewOf *render.Raster
}

func New(ctx context.Context, ctl *frame.Controller, session *frame.Session) *Game {
	g := &Game{
		ctx:     ctx,
		ctl:     ctl,
		session: session,
		editor:  newEditor(),
		history: newRenderHistory(config.RenderHistorySize),
		printer: message.NewPrinter(language.English),
	}
	for i, label := range []string{labelRandomize, labelAdd, labelOpen, labelSave, labelExport} {
		g.buttons = append(g.buttons, &button{
			label: label,
			x:     config.PanelPadding + i*(buttonWidth+buttonSpacing),
			y:     buttonsY,
		})
	}
	return g
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	renders := g.session.Renders
	g.ctl.Tick(g.ctx, g.session, g.editor.build(g.pollActions(), g.session))
	if g.session.Renders != renders {
		g.history.record(g.session.LastRender)
	}
	return nil
}

// repeating reports a key press on its first frame and then repeatedly
// while held.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= 20 && d%4 == 0)
}

func (g *Game) pollActions() actions {
	justPressed := inpututil.IsKeyJustPressed
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	a := actions{
		nextTransform:  justPressed(ebiten.KeyTab) && !shift,
		prevTransform:  justPressed(ebiten.KeyTab) && shift,
		nextField:      repeating(ebiten.KeyArrowDown),
		prevField:      repeating(ebiten.KeyArrowUp),
		coarse:         shift,
		toggleSettings: justPressed(ebiten.KeyG),
		remove:         justPressed(ebiten.KeyDelete) || justPressed(ebiten.KeyBackspace),
		add:            justPressed(ebiten.KeyA),
		cycleKind:      justPressed(ebiten.KeyK),
		randomize:      justPressed(ebiten.KeyR),
		load:           justPressed(ebiten.KeyO),
		save:           justPressed(ebiten.KeyS),
		export:         justPressed(ebiten.KeyE),
	}
	switch {
	case repeating(ebiten.KeyArrowRight):
		a.nudge = 1
	case repeating(ebiten.KeyArrowLeft):
		a.nudge = -1
	}

	mouseX, mouseY := ebiten.CursorPosition()
	pressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	released := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	for _, b := range g.buttons {
		if !b.update(mouseX, mouseY, pressed, released) {
			continue
		}
		switch b.label {
		case labelRandomize:
			a.randomize = true
		case labelAdd:
			a.add = true
		case labelOpen:
			a.load = true
		case labelSave:
			a.save = true
		case labelExport:
			a.export = true
		}
	}
	return a
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 20, A: 255})
	g.drawPreview(screen)

	vector.DrawFilledRect(screen, 0, 0, config.PanelWidth, config.WindowHeight, color.RGBA{R: 24, G: 28, B: 38, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "IFS editor", config.PanelPadding, 12)
	for _, b := range g.buttons {
		b.draw(screen)
	}

	for i, line := range panelLines(g.session, g.editor, g.printer) {
		y := panelTextY + i*config.LineHeight
		x := config.PanelPadding
		if line.swatch != nil {
			c := line.swatch
			clr := color.RGBA{
				R: uint8(clamp01(float64(c.R)) * 255),
				G: uint8(clamp01(float64(c.G)) * 255),
				B: uint8(clamp01(float64(c.B)) * 255),
				A: 255,
			}
			vector.DrawFilledRect(screen, float32(x), float32(y+3), swatchSize, swatchSize, clr, false)
			x += swatchSize + 4
		}
		ebitenutil.DebugPrintAt(screen, line.text, x, y)
	}

	g.drawHistory(screen)
}

func (g *Game) drawPreview(screen *ebiten.Image) {
	r := g.session.Raster
	if r == nil {
		return
	}
	areaW := config.WindowWidth - config.PanelWidth - 2*config.PanelPadding
	areaH := config.WindowHeight - 2*config.PanelPadding
	if r != g.previewOf {
		if g.preview != nil {
			g.preview.Deallocate()
		}
		g.preview = ebiten.NewImageFromImage(r.Fit(areaW, areaH))
		g.previewOf = r
	}

	b := g.preview.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(
		float64(config.PanelWidth+config.PanelPadding+(areaW-b.Dx())/2),
		float64(config.PanelPadding+(areaH-b.Dy())/2),
	)
	screen.DrawImage(g.preview, op)
}

func (g *Game) drawHistory(screen *ebiten.Image) {
	samples := g.history.snapshot(config.RenderHistorySize)
	peak := g.history.peak()
	if len(samples) == 0 || peak == 0 {
		return
	}
	baseY := float32(config.WindowHeight - config.PanelPadding)
	barW := float32(config.PanelWidth-2*config.PanelPadding) / float32(config.RenderHistorySize)
	for i, d := range samples {
		ratio := float64(d) / float64(peak)
		r, gr, b := hsvToRgb(120*(1-ratio), 0.8, 0.9)
		h := float32(ratio * historyHeight)
		x := float32(config.PanelPadding) + float32(i)*barW
		vector.DrawFilledRect(screen, x, baseY-h, barW-1, h, color.RGBA{R: r, G: gr, B: b, A: 255}, false)
	}
	ebitenutil.DebugPrintAt(screen, "render time, peak "+formatDuration(peak),
		config.PanelPadding, int(baseY)-historyHeight-config.LineHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

type panelLine struct {
	text   string
	swatch *transform.Color
}

// panelLines lays out the text of the control panel.
func panelLines(s *frame.Session, e *editor, p *message.Printer) []panelLine {
	var lines []panelLine
	add := func(format string, args ...any) {
		lines = append(lines, panelLine{text: p.Sprintf(format, args...)})
	}
	marker := func(on bool) string {
		if on {
			return ">"
		}
		return " "
	}

	add("Generation controls (G to focus)")
	for i, row := range settingRows {
		add("%s %-10s %d", marker(e.settingsFocus && e.setting == i), row, settingValue(s.Settings, row))
	}
	add("  save scale %d", render.SaveScale(s.Settings.Params()))
	add("")

	kf0, _ := s.Keyframes().Keyframe(0)
	add("Transforms (Tab select, arrows edit, Shift coarse)")
	for i, v := range kf0.All() {
		attrs := v.Attrs()
		lines = append(lines, panelLine{
			text:   p.Sprintf("%s %s: %d  w=%.3f", marker(!e.settingsFocus && e.selected == i), v.Kind(), i, attrs.Weight),
			swatch: &attrs.BaseColor,
		})
		if i != e.selected {
			continue
		}
		for j, f := range v.Fields() {
			add("   %s %-12s % .4f", marker(!e.settingsFocus && e.field == j), f.Label, f.Value)
		}
		if kf0.Len() > 1 {
			add("     Delete/Backspace removes this transform")
		}
	}
	add("")
	add("Add kind: %s (K cycles, A adds)", e.addKind)
	add("R randomize  O open  S save  E export  Esc quit")
	add("")

	if s.Renders > 0 {
		add("Rendered %d times, last %s", s.Renders, formatDuration(s.LastRender))
	}
	status := s.Status
	if s.LastErr != nil {
		status = "Error: " + s.LastErr.Error()
	}
	if s.Modified() {
		status = "* " + status
	}
	if status != "" {
		add("%s", status)
	}
	return lines
}
