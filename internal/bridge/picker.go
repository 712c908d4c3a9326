package bridge

import (
	"context"
	"errors"

	"github.com/ncruces/zenity"
)

// ErrCanceled is returned by a Picker when the user dismisses the dialog.
// It is never surfaced as a failure.
var ErrCanceled = errors.New("dialog canceled")

// Filter restricts the files a dialog offers.
type Filter struct {
	Name     string
	Patterns []string
}

// Dialog describes one open or save prompt.
type Dialog struct {
	Title    string
	Filename string
	Filters  []Filter
}

var (
	ConfigDialog = Dialog{
		Title:    "IFS configuration",
		Filename: "ifs.json",
		Filters:  []Filter{{Name: "JSON", Patterns: []string{"*.json"}}},
	}
	ExportDialog = Dialog{
		Title:    "Export image",
		Filename: "ifs.png",
		Filters:  []Filter{{Name: "PNG image", Patterns: []string{"*.png"}}},
	}
)

// Picker asks the user for a file location.
type Picker interface {
	PickOpen(ctx context.Context, d Dialog) (string, error)
	PickSave(ctx context.Context, d Dialog) (string, error)
}

// ZenityPicker shows native dialogs.
type ZenityPicker struct{}

func (ZenityPicker) PickOpen(ctx context.Context, d Dialog) (string, error) {
	path, err := zenity.SelectFile(append(options(ctx, d), zenity.Title("Open "+d.Title))...)
	return path, mapCanceled(err)
}

func (ZenityPicker) PickSave(ctx context.Context, d Dialog) (string, error) {
	opts := append(options(ctx, d),
		zenity.Title("Save "+d.Title),
		zenity.ConfirmOverwrite(),
	)
	if d.Filename != "" {
		opts = append(opts, zenity.Filename(d.Filename))
	}
	path, err := zenity.SelectFileSave(opts...)
	return path, mapCanceled(err)
}

func options(ctx context.Context, d Dialog) []zenity.Option {
	filters := make(zenity.FileFilters, 0, len(d.Filters))
	for _, f := range d.Filters {
		filters = append(filters, zenity.FileFilter{Name: f.Name, Patterns: f.Patterns})
	}
	return []zenity.Option{zenity.Context(ctx), filters}
}

func mapCanceled(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return ErrCanceled
	}
	return err
}
