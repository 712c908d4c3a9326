package game

import (
	"github.com/iburimskiy/ifs-editor/internal/config"
	"github.com/iburimskiy/ifs-editor/internal/frame"
	"github.com/iburimskiy/ifs-editor/internal/transform"
)

// actions is the input of one frame, already decoded from keys and buttons.
type actions struct {
	nextTransform, prevTransform bool
	nextField, prevField         bool
	// nudge is -1, 0 or +1.
	nudge          int
	coarse         bool
	toggleSettings bool

	remove, add, cycleKind bool
	randomize              bool
	load, save, export     bool
}

var settingRows = []frame.Setting{
	frame.SettingWidth,
	frame.SettingHeight,
	frame.SettingPoints,
	frame.SettingIterations,
	frame.SettingFrame,
}

// settingStep is the fine step of each setting; coarse steps multiply it
// by config.CoarseNudge.
var settingStep = map[frame.Setting]int{
	frame.SettingWidth:      16,
	frame.SettingHeight:     16,
	frame.SettingPoints:     50,
	frame.SettingIterations: 50,
	frame.SettingFrame:      1,
}

// editor is the widget state of the control panel: which row has focus
// and which kind "add" inserts. It turns actions into a frame.Input.
type editor struct {
	settingsFocus bool
	setting       int
	selected      int
	field         int
	addKind       transform.Kind
}

func newEditor() *editor {
	return &editor{addKind: transform.KindAffine}
}

func (e *editor) build(a actions, s *frame.Session) frame.Input {
	kf := s.Keyframes()
	width := kf.Width()
	e.selected = min(max(e.selected, 0), width-1)

	if a.toggleSettings {
		e.settingsFocus = !e.settingsFocus
	}
	if a.cycleKind {
		e.addKind = e.addKind.Next()
	}
	if a.nextTransform {
		e.selected = (e.selected + 1) % width
		e.field = 0
	}
	if a.prevTransform {
		e.selected = (e.selected - 1 + width) % width
		e.field = 0
	}

	kf0, _ := kf.Keyframe(0)
	current, _ := kf0.Get(e.selected)
	fields := current.Fields()

	if e.settingsFocus {
		e.setting = step(e.setting, a.prevField, a.nextField, len(settingRows))
	} else {
		e.field = step(e.field, a.prevField, a.nextField, len(fields))
	}

	in := frame.Input{
		Randomize: a.randomize,
		Load:      a.load,
		Save:      a.save,
		Export:    a.export,
	}
	if a.add {
		in.Add = e.addKind
	}

	if a.nudge != 0 && e.settingsFocus {
		row := settingRows[e.setting]
		delta := settingStep[row] * a.nudge
		if a.coarse {
			delta *= config.CoarseNudge
		}
		in.Settings = append(in.Settings, frame.SettingEdit{
			Setting: row,
			Value:   settingValue(s.Settings, row) + delta,
		})
	}

	selected, field, kind := e.selected, e.field, current.Kind()
	nudge := 0
	if !e.settingsFocus {
		nudge = a.nudge
	}
	remove := a.remove && width > 1
	coarse := float32(1)
	if a.coarse {
		coarse = config.CoarseNudge
	}
	in.Editor = func(i int, v transform.Variant) frame.EditResult {
		if i != selected || v.Kind() != kind {
			return frame.EditResult{}
		}
		res := frame.EditResult{Delete: remove}
		fields := v.Fields()
		if nudge == 0 || field >= len(fields) {
			return res
		}
		f := fields[field]
		delta := (f.Max - f.Min) * config.NudgeFraction * coarse * float32(nudge)
		value := clampf(f.Value+delta, f.Min, f.Max)
		if value == f.Value {
			return res
		}
		next, err := v.WithField(f.ID, value)
		if err != nil {
			return res
		}
		res.Variant, res.Changed = next, true
		return res
	}
	return in
}

func step(i int, prev, next bool, n int) int {
	if n == 0 {
		return 0
	}
	if next {
		i++
	}
	if prev {
		i--
	}
	return (i%n + n) % n
}

func settingValue(s frame.Settings, row frame.Setting) int {
	switch row {
	case frame.SettingWidth:
		return s.Width
	case frame.SettingHeight:
		return s.Height
	case frame.SettingPoints:
		return s.NumPoints
	case frame.SettingIterations:
		return s.NumIterations
	case frame.SettingFrame:
		return s.Frame
	}
	return 0
}
