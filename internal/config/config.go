package config

const (
	WindowWidth  = 1440
	WindowHeight = 900

	// Control panel on the left; the preview fills the rest of the window.
	PanelWidth   = 400
	PanelPadding = 12
	LineHeight   = 16

	// Slider ranges for the generation controls.
	MinDimension  = 1
	MaxDimension  = 4096
	MinPoints     = 1
	MaxPoints     = 5000
	MinIterations = 1
	MaxIterations = 5000

	// Fraction of a field's range moved by one arrow key press.
	NudgeFraction = 0.01
	// Multiplier applied to the nudge while Shift is held.
	CoarseNudge = 10

	RenderHistorySize = 32
)

