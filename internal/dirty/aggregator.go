// Package dirty folds the per-widget change and delete signals of one
// tick into the two flags the frame controller acts on.
package dirty

// Flags is the aggregated state for one tick.
type Flags struct {
	NeedsRender bool
	// DeletePending is only meaningful when HasDelete is set.
	DeletePending int
	HasDelete     bool
}

// Aggregator combines widget reports. The zero value is ready to use.
type Aggregator struct {
	flags Flags
}

// Report records one widget's interaction with transform index. Changes
// are OR-ed; a delete request overwrites any earlier one, so the last
// index in traversal order wins.
func (a *Aggregator) Report(index int, changed, deleteRequested bool) {
	a.flags.NeedsRender = a.flags.NeedsRender || changed
	if deleteRequested {
		a.flags.DeletePending = index
		a.flags.HasDelete = true
	}
}

// Force marks the raster stale regardless of widget reports.
func (a *Aggregator) Force() {
	a.flags.NeedsRender = true
}

// Flags returns the current state without consuming it.
func (a *Aggregator) Flags() Flags {
	return a.flags
}

// TakeDelete returns and clears the pending delete.
func (a *Aggregator) TakeDelete() (int, bool) {
	i, ok := a.flags.DeletePending, a.flags.HasDelete
	a.flags.DeletePending, a.flags.HasDelete = 0, false
	return i, ok
}

// Consume returns NeedsRender and clears it.
func (a *Aggregator) Consume() bool {
	needs := a.flags.NeedsRender
	a.flags.NeedsRender = false
	return needs
}

// Reset clears every flag.
func (a *Aggregator) Reset() {
	a.flags = Flags{}
}
