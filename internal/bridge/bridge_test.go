package bridge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/cespare/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/ifs-editor/internal/config"
)

const payload = `{
  "image_settings": {"width": 32, "height": 16, "path": "a.png"},
  "evaluation_settings": {"num_iterations": 10, "num_points": 20},
  "transforms": [{"kind": "inverse_julia", "r": 1, "theta": 2,
    "base_color": {"r": 1, "g": 1, "b": 1}, "weight": 1}]
}`

// fakePicker returns a fixed path or error. When gate is set, picks block
// until it is closed.
type fakePicker struct {
	path string
	err  error
	gate chan struct{}
}

func (p *fakePicker) pick() (string, error) {
	if p.gate != nil {
		<-p.gate
	}
	return p.path, p.err
}

func (p *fakePicker) PickOpen(context.Context, Dialog) (string, error) { return p.pick() }
func (p *fakePicker) PickSave(context.Context, Dialog) (string, error) { return p.pick() }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ifs.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMailboxLastWriteWins(t *testing.T) {
	m := NewMailbox()
	_, ok := m.TryReceive()
	assert.False(t, ok)

	m.Send([]byte("first"))
	m.Send([]byte("second"))
	got, ok := m.TryReceive()
	require.True(t, ok)
	assert.Equal(t, "second", string(got))

	_, ok = m.TryReceive()
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	b := New(Direct, &fakePicker{}, nil)

	cfg, err := b.LoadFile(writeConfig(t, payload))
	require.NoError(t, err)
	assert.Equal(t, uint32(32), cfg.Image.Width)

	_, err = b.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrFileIO)

	_, err = b.LoadFile(writeConfig(t, `{"transforms": 1}`))
	assert.ErrorIs(t, err, config.ErrParse)
}

func TestDirectRequestLoad(t *testing.T) {
	path := writeConfig(t, payload)
	b := New(Direct, &fakePicker{path: path}, nil)

	cfg, err := b.RequestLoad(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, uint32(20), cfg.Evaluation.NumPoints)

	// The direct path never goes through the mailbox.
	_, ok := b.Mailbox().TryReceive()
	assert.False(t, ok)
}

func TestDirectRequestLoadCanceled(t *testing.T) {
	b := New(Direct, &fakePicker{err: ErrCanceled}, nil)
	cfg, err := b.RequestLoad(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestDirectRequestLoadDialogFailure(t *testing.T) {
	b := New(Direct, &fakePicker{err: errors.New("no display")}, nil)
	_, err := b.RequestLoad(context.Background())
	assert.ErrorIs(t, err, ErrFileIO)
}

func TestDeferredLoadDeliversThroughPoll(t *testing.T) {
	var redraws atomic.Int32
	b := New(Deferred, &fakePicker{path: writeConfig(t, payload)}, func() { redraws.Add(1) })

	cfg, err := b.RequestLoad(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cfg)

	b.Wait()
	assert.Equal(t, int32(1), redraws.Load())
	assert.False(t, b.Loading())

	cfg, err = b.Poll()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, uint32(16), cfg.Image.Height)

	cfg, err = b.Poll()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestDeferredLoadRejectsSecondRequest(t *testing.T) {
	gate := make(chan struct{})
	b := New(Deferred, &fakePicker{path: writeConfig(t, payload), gate: gate}, nil)

	_, err := b.RequestLoad(context.Background())
	require.NoError(t, err)
	assert.True(t, b.Loading())

	_, err = b.RequestLoad(context.Background())
	assert.ErrorIs(t, err, ErrLoadInFlight)

	close(gate)
	b.Wait()

	_, err = b.RequestLoad(context.Background())
	assert.NoError(t, err)
	b.Wait()
}

func TestDeferredLoadCanceledSendsNothing(t *testing.T) {
	b := New(Deferred, &fakePicker{err: ErrCanceled}, nil)
	_, err := b.RequestLoad(context.Background())
	require.NoError(t, err)
	b.Wait()

	cfg, err := b.Poll()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Empty(t, b.Events())
}

func TestDeferredLoadReadFailureBecomesEvent(t *testing.T) {
	b := New(Deferred, &fakePicker{path: filepath.Join(t.TempDir(), "gone.json")}, nil)
	_, err := b.RequestLoad(context.Background())
	require.NoError(t, err)
	b.Wait()

	evs := b.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, OpLoad, evs[0].Op)
	assert.ErrorIs(t, evs[0].Err, ErrFileIO)
	assert.NotEmpty(t, evs[0].ID)
}

func TestPollParseError(t *testing.T) {
	b := New(Deferred, &fakePicker{}, nil)
	b.Mailbox().Send([]byte("not json"))

	_, err := b.Poll()
	assert.ErrorIs(t, err, config.ErrParse)
}

func TestSaveDirectAndDeferred(t *testing.T) {
	data := []byte("hello")
	for _, mode := range []Mode{Direct, Deferred} {
		t.Run(mode.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.json")
			b := New(mode, &fakePicker{path: path}, nil)

			require.NoError(t, b.RequestSave(context.Background(), "config", ConfigDialog, data))
			b.Wait()

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, data, got)

			evs := b.Events()
			require.Len(t, evs, 1)
			assert.Equal(t, OpSave, evs[0].Op)
			assert.Equal(t, path, evs[0].Path)
			assert.Equal(t, xxhash.Sum64(data), evs[0].Sum)
			assert.NoError(t, evs[0].Err)
		})
	}
}

func TestSaveCanceledIsNoop(t *testing.T) {
	for _, mode := range []Mode{Direct, Deferred} {
		b := New(mode, &fakePicker{err: ErrCanceled}, nil)
		assert.NoError(t, b.RequestSave(context.Background(), "export", ExportDialog, []byte("x")))
		b.Wait()
		assert.Empty(t, b.Events())
	}
}

func TestSaveWriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "out.json")

	b := New(Direct, &fakePicker{path: dir}, nil)
	assert.ErrorIs(t, b.RequestSave(context.Background(), "config", ConfigDialog, []byte("x")), ErrFileIO)

	b = New(Deferred, &fakePicker{path: dir}, nil)
	require.NoError(t, b.RequestSave(context.Background(), "config", ConfigDialog, []byte("x")))
	b.Wait()
	evs := b.Events()
	require.Len(t, evs, 1)
	assert.ErrorIs(t, evs[0].Err, ErrFileIO)
}
