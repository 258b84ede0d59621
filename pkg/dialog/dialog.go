// Package dialog binds the native html <dialog> element to a server-side component
// tree.  A Dialog keeps the open/closed state in sync with the browser, attaches
// itself to the host when shown without a parent (and detaches again on close),
// optionally marks itself as server-side modal, and can suppress closing by Escape.
//
// Dialog is not safe for concurrent use.  All calls must happen on the host's UI
// turn (for dashui: inside UI.Run or a signal handler).
package dialog

import (
	"log"

	"github.com/sawka/dashborg-dialog/pkg/dashui"
	"github.com/sawka/dashborg-dialog/pkg/transport"
)

const AutofocusAttr = "autofocus"

type Dialog struct {
	surface dashui.Surface

	opened          bool
	modalServerSide bool
	noCloseOnEsc    bool
	autoAttached    bool
	autoAttachedTo  dashui.Host // set with autoAttached
	lastHost        dashui.Host // host passed to the most recent show

	cancelReg       dashui.Registration
	openedListeners []*openedEntry
	closedListeners []*closedEntry
}

// MakeDialog wraps surface (normally a "dialog" elem, see dashui.MakeElem).
func MakeDialog(surface dashui.Surface) *Dialog {
	if surface == nil {
		panic("dialog.MakeDialog surface cannot be nil")
	}
	rtn := &Dialog{
		surface:         surface,
		modalServerSide: true,
	}
	surface.OnAttach(rtn.onAttach)
	surface.OnSignal(SignalOpened, rtn.onOpenedSignal)
	return rtn
}

func (d *Dialog) Surface() dashui.Surface {
	return d.surface
}

func (d *Dialog) IsOpened() bool {
	return d.opened
}

func (d *Dialog) IsAutoAttached() bool {
	return d.autoAttached
}

func (d *Dialog) IsModalServerSide() bool {
	return d.modalServerSide
}

func (d *Dialog) IsCloseOnEscape() bool {
	return !d.noCloseOnEsc
}

// Show opens the dialog as a non-modal dialog.  If the dialog has no parent it is
// attached to ui (when ui is not nil).  No-op when already open.
func (d *Dialog) Show(ui dashui.Host) {
	if d.opened {
		return
	}
	d.setup(ui)
	d.surface.CallFn("show")
	d.opened = true
}

// ShowModal opens the dialog as a modal dialog.  Unless disabled with
// WithoutModalServerSide, ui also marks the dialog as server-side modal so the
// client cannot circumvent the modality.  No-op when already open.
func (d *Dialog) ShowModal(ui dashui.Host) {
	if d.opened {
		return
	}
	d.setup(ui)
	if d.modalServerSide && ui != nil {
		ui.SetModal(d.surface, true)
	}
	d.surface.CallFn("showModal")
	d.opened = true
}

func (d *Dialog) setup(ui dashui.Host) {
	if ui != nil {
		d.lastHost = ui
		if ui.ParentOf(d.surface) == nil {
			ui.Attach(d.surface)
			d.autoAttached = true
			d.autoAttachedTo = ui
		}
	}
	if d.cancelReg == nil {
		d.cancelReg = d.surface.OnSignal(SignalCancel, d.onCancelSignal)
	}
}

// Close closes the dialog, clears the server-side modal state and, if the dialog
// attached itself on show, detaches it again.  The ClosedEvent is marked as from server.
func (d *Dialog) Close(ui dashui.Host) {
	d.CloseEx(ui, false)
}

// CloseEx is Close with an explicit origin for the ClosedEvent.  Use it from other
// event handlers to forward their client/server origin (e.g. a close button inside the
// dialog); removing the element from the page does not give the browser a chance to
// report the close itself.
func (d *Dialog) CloseEx(ui dashui.Host, fromClient bool) {
	d.opened = false
	d.surface.CallFn("close")
	d.teardown(ui)
	d.fireClosed(ClosedEvent{Source: d, FromClient: fromClient, ClosedByEscape: false})
}

func (d *Dialog) teardown(ui dashui.Host) {
	if ui == nil {
		ui = d.lastHost
	}
	if ui != nil {
		ui.SetModal(d.surface, false)
	}
	if d.autoAttached && d.autoAttachedTo != nil {
		host := d.autoAttachedTo
		parent := host.ParentOf(d.surface)
		if parent != nil && parent.ContainerId() == host.ContainerId() {
			host.Detach(d.surface)
			d.autoAttached = false
			d.autoAttachedTo = nil
		}
	}
}

// browser closed the dialog with Escape
func (d *Dialog) onCancelSignal(ctx dashui.Host, sig transport.ClientSignal) {
	if !d.opened || d.noCloseOnEsc {
		return
	}
	d.opened = false
	d.teardown(ctx)
	d.fireClosed(ClosedEvent{Source: d, FromClient: true, ClosedByEscape: true})
}

func (d *Dialog) onOpenedSignal(ctx dashui.Host, sig transport.ClientSignal) {
	var detail openedDetail
	err := sig.DecodeDetail(&detail)
	if err != nil {
		log.Printf("dialog[%s] bad opened signal: %v\n", d.surface.SurfaceId(), err)
		return
	}
	d.fireOpened(OpenedEvent{Source: d, FromClient: true, Modal: detail.Modal})
}

func (d *Dialog) onAttach(ctx dashui.Host) {
	if d.noCloseOnEsc {
		d.surface.SetFeature(dashui.FeatureEscGuard, true)
	}
	d.surface.SetFeature(dashui.FeatureOpenedSignal, true)
}

// WithAutofocus activates autofocus.  A new dialog has no autofocus.
func (d *Dialog) WithAutofocus() *Dialog {
	d.surface.SetAttr(AutofocusAttr, "")
	return d
}

func (d *Dialog) WithoutAutofocus() *Dialog {
	d.surface.RemoveAttr(AutofocusAttr)
	return d
}

// WithoutModalServerSide keeps ShowModal from marking the dialog server-side modal.
// Must be called before ShowModal.
func (d *Dialog) WithoutModalServerSide() *Dialog {
	d.modalServerSide = false
	return d
}

func (d *Dialog) WithModalServerSide() *Dialog {
	d.modalServerSide = true
	return d
}

// WithoutCloseOnEscape disables closing the dialog with the Escape key.  If the dialog
// is not attached yet the guard is installed on attach.
func (d *Dialog) WithoutCloseOnEscape() *Dialog {
	if !d.noCloseOnEsc && d.surface.IsAttached() {
		d.surface.SetFeature(dashui.FeatureEscGuard, true)
	}
	d.noCloseOnEsc = true
	return d
}

func (d *Dialog) WithCloseOnEscape() *Dialog {
	if d.noCloseOnEsc && d.surface.IsAttached() {
		d.surface.SetFeature(dashui.FeatureEscGuard, false)
	}
	d.noCloseOnEsc = false
	return d
}
