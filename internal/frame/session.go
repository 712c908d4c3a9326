package frame

import (
	"time"

	"github.com/cespare/xxhash"

	"github.com/iburimskiy/ifs-editor/internal/config"
	"github.com/iburimskiy/ifs-editor/internal/dirty"
	"github.com/iburimskiy/ifs-editor/internal/keyframe"
	"github.com/iburimskiy/ifs-editor/internal/render"
	"github.com/iburimskiy/ifs-editor/internal/transform"
)

// Settings are the image and evaluation parameters edited by the sliders.
type Settings struct {
	Width, Height int
	NumPoints     int
	NumIterations int
	// Frame is the animation frame shown in the preview.
	Frame int
	// Path is the image path recorded in saved configs.
	Path string
}

// Params converts the settings to render parameters.
func (s Settings) Params() render.Params {
	return render.Params{
		Width:         s.Width,
		Height:        s.Height,
		NumIterations: s.NumIterations,
		NumPoints:     s.NumPoints,
		Frame:         s.Frame,
	}
}

// Session is the editor state threaded through Controller.Tick. It is
// owned by the host and only mutated inside a tick.
type Session struct {
	keyframes *keyframe.Coordinator
	Settings  Settings

	// Raster is the last rendered image. It is replaced, never written to.
	Raster     *render.Raster
	Renders    int
	LastRender time.Duration

	Status  string
	LastErr error

	dirty    dirty.Aggregator
	savedSum uint64
}

// NewSession starts with DefaultIFS in two keyframes and schedules a
// render for the first tick.
func NewSession() *Session {
	kf, err := keyframe.New(
		[]*transform.Collection{DefaultIFS(), DefaultIFS()},
		DefaultStepCounts,
	)
	if err != nil {
		panic(err)
	}
	img, eval := config.Default()
	s := &Session{
		keyframes: kf,
		Settings: Settings{
			Width:         int(img.Width),
			Height:        int(img.Height),
			NumPoints:     int(eval.NumPoints),
			NumIterations: int(eval.NumIterations),
			Path:          img.Path,
		},
	}
	s.savedSum = s.fingerprint()
	s.dirty.Force()
	return s
}

// Keyframes returns the keyframe set for reading. Structural changes go
// through the Controller.
func (s *Session) Keyframes() *keyframe.Coordinator {
	return s.keyframes
}

// Flags returns the dirty state accumulated so far in the current tick.
func (s *Session) Flags() dirty.Flags {
	return s.dirty.Flags()
}

// Config snapshots the session as a config record. Keyframe 1, when
// present, is written as the explicit target.
func (s *Session) Config() *config.Config {
	kf0, _ := s.keyframes.Keyframe(0)
	cfg := &config.Config{
		Image: config.ImageSettings{
			Width:  uint32(s.Settings.Width),
			Height: uint32(s.Settings.Height),
			Path:   s.Settings.Path,
		},
		Evaluation: config.EvaluationSettings{
			NumIterations: uint32(s.Settings.NumIterations),
			NumPoints:     uint32(s.Settings.NumPoints),
		},
		Transforms: kf0.Clone(),
	}
	if kf1, err := s.keyframes.Keyframe(1); err == nil {
		cfg.Target = kf1.Clone()
	}
	return cfg
}

// Payload serializes Config.
func (s *Session) Payload() ([]byte, error) {
	return config.Marshal(s.Config())
}

// Modified reports whether the session differs from what was last loaded or saved.
func (s *Session) Modified() bool {
	return s.fingerprint() != s.savedSum
}

func (s *Session) fingerprint() uint64 {
	b, err := s.Payload()
	if err != nil {
		return 0
	}
	return xxhash.Sum64(b)
}
