package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/ifs-editor/internal/frame"
	"github.com/iburimskiy/ifs-editor/internal/transform"
)

func keyframe0(t *testing.T, s *frame.Session) []transform.Variant {
	t.Helper()
	kf0, err := s.Keyframes().Keyframe(0)
	require.NoError(t, err)
	var out []transform.Variant
	for _, v := range kf0.All() {
		out = append(out, v)
	}
	return out
}

func TestBuildIdleReportsNothing(t *testing.T) {
	s := frame.NewSession()
	e := newEditor()

	in := e.build(actions{}, s)
	assert.Empty(t, in.Settings)
	assert.Equal(t, transform.KindNone, in.Add)
	assert.False(t, in.Randomize || in.Load || in.Save || in.Export)

	require.NotNil(t, in.Editor)
	for i, v := range keyframe0(t, s) {
		assert.Equal(t, frame.EditResult{}, in.Editor(i, v))
	}
}

func TestBuildNudgesSelectedField(t *testing.T) {
	s := frame.NewSession()
	e := newEditor()
	vs := keyframe0(t, s)

	in := e.build(actions{nudge: 1}, s)
	res := in.Editor(0, vs[0])
	require.True(t, res.Changed)
	f := vs[0].Fields()[0]
	want := f.Value + (f.Max-f.Min)*0.01
	assert.InDelta(t, want, res.Variant.Fields()[0].Value, 1e-6)

	// Other transforms are untouched.
	assert.False(t, in.Editor(1, vs[1]).Changed)
}

func TestBuildCoarseNudgeClamps(t *testing.T) {
	s := frame.NewSession()
	e := newEditor()
	vs := keyframe0(t, s)

	var v transform.Variant = vs[0]
	for range 20 {
		res := e.build(actions{nudge: 1, coarse: true}, s).Editor(0, v)
		if !res.Changed {
			break
		}
		v = res.Variant
	}
	f := v.Fields()[0]
	assert.Equal(t, f.Max, f.Value)
	assert.False(t, e.build(actions{nudge: 1}, s).Editor(0, v).Changed)
}

func TestBuildSelectionWraps(t *testing.T) {
	s := frame.NewSession()
	e := newEditor()
	width := s.Keyframes().Width()

	e.build(actions{prevTransform: true}, s)
	assert.Equal(t, width-1, e.selected)
	e.build(actions{nextTransform: true}, s)
	assert.Equal(t, 0, e.selected)

	e.build(actions{prevField: true}, s)
	assert.Equal(t, len(keyframe0(t, s)[0].Fields())-1, e.field)
	e.build(actions{nextTransform: true}, s)
	assert.Equal(t, 0, e.field)
}

func TestEditorIgnoresReplacedTransform(t *testing.T) {
	s := frame.NewSession()
	e := newEditor()
	e.field = len(keyframe0(t, s)[0].Fields()) - 1

	in := e.build(actions{nudge: 1, remove: true}, s)
	swapped := transform.InverseJulia{R: 1, Theta: 1, Common: transform.Common{Weight: 1}}
	require.Less(t, len(swapped.Fields()), e.field+1)

	assert.NotPanics(t, func() {
		assert.Equal(t, frame.EditResult{}, in.Editor(0, swapped))
	})
}

func TestBuildDeleteGuard(t *testing.T) {
	s := frame.NewSession()
	e := newEditor()
	vs := keyframe0(t, s)

	in := e.build(actions{remove: true}, s)
	assert.True(t, in.Editor(0, vs[0]).Delete)
	assert.False(t, in.Editor(1, vs[1]).Delete)
}

func TestBuildSettingsFocus(t *testing.T) {
	s := frame.NewSession()
	e := newEditor()

	e.build(actions{toggleSettings: true}, s)
	require.True(t, e.settingsFocus)

	in := e.build(actions{nextField: true, nudge: 1}, s)
	require.Len(t, in.Settings, 1)
	assert.Equal(t, frame.SettingHeight, in.Settings[0].Setting)
	assert.Equal(t, s.Settings.Height+16, in.Settings[0].Value)

	in = e.build(actions{nudge: -1, coarse: true}, s)
	require.Len(t, in.Settings, 1)
	assert.Equal(t, s.Settings.Height-160, in.Settings[0].Value)

	// Arrow keys do not touch transforms while settings have focus.
	vs := keyframe0(t, s)
	assert.False(t, in.Editor(0, vs[0]).Changed)
}

func TestBuildAddUsesCycledKind(t *testing.T) {
	s := frame.NewSession()
	e := newEditor()

	assert.Equal(t, transform.KindAffine, e.build(actions{add: true}, s).Add)
	in := e.build(actions{cycleKind: true, add: true}, s)
	assert.Equal(t, transform.KindAffine.Next(), in.Add)
}

func TestBuildPassesThroughButtons(t *testing.T) {
	s := frame.NewSession()
	in := newEditor().build(actions{randomize: true, load: true, save: true, export: true}, s)
	assert.True(t, in.Randomize)
	assert.True(t, in.Load)
	assert.True(t, in.Save)
	assert.True(t, in.Export)
}

func TestStep(t *testing.T) {
	assert.Equal(t, 0, step(0, false, false, 0))
	assert.Equal(t, 1, step(0, false, true, 3))
	assert.Equal(t, 2, step(0, true, false, 3))
	assert.Equal(t, 0, step(2, false, true, 3))
}
