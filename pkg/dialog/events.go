package dialog

import (
	"github.com/sawka/dashborg-dialog/pkg/dashui"
)

const (
	SignalOpened = "opened"
	SignalCancel = "cancel"
)

// OpenedEvent is fired when the browser opened the dialog.  It always originates from
// the client (the wrapped show()/showModal() on the element reports back).
type OpenedEvent struct {
	Source     *Dialog
	FromClient bool
	Modal      bool
}

// ClosedEvent is fired when the dialog has been closed, either by Close/CloseEx or by
// the user pressing Escape in the browser.
type ClosedEvent struct {
	Source         *Dialog
	FromClient     bool
	ClosedByEscape bool
}

// signal detail sent by the openedsignal feature
type openedDetail struct {
	Modal bool `mapstructure:"modal"`
}

type openedEntry struct {
	Fn func(OpenedEvent)
}

type closedEntry struct {
	Fn func(ClosedEvent)
}

// AddOpenedListener registers fn to be called when the browser has opened the dialog.
// Listeners are called in registration order.
func (d *Dialog) AddOpenedListener(fn func(OpenedEvent)) dashui.Registration {
	if fn == nil {
		return dashui.MakeRegistration(nil)
	}
	entry := &openedEntry{Fn: fn}
	d.openedListeners = append(d.openedListeners, entry)
	return dashui.MakeRegistration(func() {
		for idx, le := range d.openedListeners {
			if le == entry {
				d.openedListeners = append(d.openedListeners[:idx:idx], d.openedListeners[idx+1:]...)
				return
			}
		}
	})
}

// AddClosedListener registers fn to be called when the dialog has been closed.
func (d *Dialog) AddClosedListener(fn func(ClosedEvent)) dashui.Registration {
	if fn == nil {
		return dashui.MakeRegistration(nil)
	}
	entry := &closedEntry{Fn: fn}
	d.closedListeners = append(d.closedListeners, entry)
	return dashui.MakeRegistration(func() {
		for idx, le := range d.closedListeners {
			if le == entry {
				d.closedListeners = append(d.closedListeners[:idx:idx], d.closedListeners[idx+1:]...)
				return
			}
		}
	})
}

// fire* iterate over a copy so listeners may remove themselves (or others)
// while being called.
func (d *Dialog) fireOpened(e OpenedEvent) {
	entries := make([]*openedEntry, len(d.openedListeners))
	copy(entries, d.openedListeners)
	for _, entry := range entries {
		entry.Fn(e)
	}
}

func (d *Dialog) fireClosed(e ClosedEvent) {
	entries := make([]*closedEntry, len(d.closedListeners))
	copy(entries, d.closedListeners)
	for _, entry := range entries {
		entry.Fn(e)
	}
}
