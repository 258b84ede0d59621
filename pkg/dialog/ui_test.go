package dialog

import (
	"strings"
	"testing"

	"github.com/sawka/dashborg-dialog/pkg/dasherr"
	"github.com/sawka/dashborg-dialog/pkg/dashui"
	"github.com/sawka/dashborg-dialog/pkg/transport"
)

func actionList(actions []transport.SurfaceAction) string {
	var rtn []string
	for _, a := range actions {
		if a.Selector != "" {
			rtn = append(rtn, a.ActionType+":"+a.Selector)
		} else {
			rtn = append(rtn, a.ActionType)
		}
	}
	return strings.Join(rtn, ",")
}

func signal(t *testing.T, ui *dashui.UI, s dashui.Surface, name string, detail map[string]interface{}) error {
	t.Helper()
	sig, err := transport.MakeSignal(ui.UiId(), s.SurfaceId(), name, detail)
	if err != nil {
		t.Fatalf("MakeSignal: %v", err)
	}
	return ui.DispatchSignal(sig)
}

func TestDialogOnUI(t *testing.T) {
	ui := dashui.MakeUI(nil)
	button := dashui.MakeTextElem("button", "other")
	button.OnClick(func(ctx dashui.Host, sig transport.ClientSignal) {})
	ui.Add(button)
	ui.Mount()

	d := MakeDialog(dashui.MakeElem("dialog"))
	closeButton := dashui.MakeElem("button")
	closeButton.OnClick(func(ctx dashui.Host, sig transport.ClientSignal) {
		d.CloseEx(ctx, true)
	})
	d.Add(closeButton)
	d.SetWidth("20em")
	rec := recordEvents(d)

	ui.Run(func() error {
		d.ShowModal(ui)
		return nil
	})
	// the cancel listener is registered after the attach
	expected := "attach,setfeature:openedsignal,listen:cancel,callfn:showModal"
	if got := actionList(ui.TakeActions()); got != expected {
		t.Errorf("bad actions on ShowModal got:%s expected:%s", got, expected)
	}
	if !d.IsAutoAttached() || ui.ActiveModal() != d.Surface() {
		t.Errorf("dialog should be auto attached and modal")
	}

	err := signal(t, ui, d.Surface(), SignalOpened, map[string]interface{}{"modal": true})
	if err != nil || len(rec.opened) != 1 || !rec.opened[0].Modal {
		t.Errorf("opened signal err:%v events:%+v", err, rec.opened)
	}
	err = signal(t, ui, button, "click", nil)
	if dasherr.GetErrCode(err) != dasherr.ErrCodeModal {
		t.Errorf("click outside of modal dialog should be rejected: %v", err)
	}

	err = signal(t, ui, closeButton, "click", nil)
	if err != nil {
		t.Fatalf("close click: %v", err)
	}
	if d.IsOpened() || d.IsAutoAttached() || d.Surface().IsAttached() {
		t.Errorf("dialog should be closed and detached")
	}
	if len(rec.closed) != 1 || !rec.closed[0].FromClient || rec.closed[0].ClosedByEscape {
		t.Errorf("bad closed events %+v", rec.closed)
	}
	if got := actionList(ui.TakeActions()); got != "callfn:close,detach" {
		t.Errorf("bad actions on close: %s", got)
	}
	if ui.ActiveModal() != nil {
		t.Errorf("modal not cleared")
	}
	err = signal(t, ui, button, "click", nil)
	if err != nil {
		t.Errorf("click after close: %v", err)
	}
}

func TestDialogEscapeOnUI(t *testing.T) {
	ui := dashui.MakeUI(nil)
	ui.Mount()
	d := MakeDialog(dashui.MakeElem("dialog"))
	rec := recordEvents(d)
	ui.Run(func() error {
		d.WithoutCloseOnEscape()
		d.ShowModal(ui)
		return nil
	})
	expected := "attach,setfeature:escguard,setfeature:openedsignal,listen:cancel,callfn:showModal"
	if got := actionList(ui.TakeActions()); got != expected {
		t.Errorf("bad actions got:%s expected:%s", got, expected)
	}
	// a cancel can still arrive (guard installed late), it is ignored
	signal(t, ui, d.Surface(), SignalCancel, nil)
	if !d.IsOpened() || len(rec.closed) != 0 {
		t.Errorf("escape should be suppressed")
	}
	ui.Run(func() error {
		d.WithCloseOnEscape()
		return nil
	})
	if got := actionList(ui.TakeActions()); got != "setfeature:escguard" {
		t.Errorf("bad actions on WithCloseOnEscape: %s", got)
	}
	signal(t, ui, d.Surface(), SignalCancel, nil)
	if d.IsOpened() || len(rec.closed) != 1 || !rec.closed[0].ClosedByEscape {
		t.Errorf("escape should close the dialog: %+v", rec.closed)
	}
	if got := actionList(ui.TakeActions()); got != "detach" {
		t.Errorf("bad actions on escape: %s", got)
	}
}

func TestEscGuardWhileOpenOnUI(t *testing.T) {
	ui := dashui.MakeUI(nil)
	ui.Mount()
	d := MakeDialog(dashui.MakeElem("dialog"))
	rec := recordEvents(d)
	ui.Run(func() error {
		d.ShowModal(ui)
		return nil
	})
	ui.TakeActions()
	ui.Run(func() error {
		d.WithoutCloseOnEscape()
		d.WithoutCloseOnEscape()
		return nil
	})
	if got := actionList(ui.TakeActions()); got != "setfeature:escguard" {
		t.Errorf("guard should be installed once on an attached dialog, got:%s", got)
	}
	err := signal(t, ui, d.Surface(), SignalCancel, nil)
	if err != nil {
		t.Errorf("cancel signal: %v", err)
	}
	if !d.IsOpened() || len(rec.closed) != 0 {
		t.Errorf("escape should be suppressed, opened:%v closed:%+v", d.IsOpened(), rec.closed)
	}
}

func TestDialogInLayout(t *testing.T) {
	ui := dashui.MakeUI(nil)
	layout := dashui.MakeElem("div")
	d := MakeDialog(dashui.MakeElem("dialog"))
	layout.Add(d)
	ui.Add(layout)
	ui.Mount()
	ui.TakeActions()
	ui.Run(func() error {
		d.Show(ui)
		d.Close(ui)
		return nil
	})
	if got := actionList(ui.TakeActions()); got != "listen:cancel,callfn:show,callfn:close" {
		t.Errorf("bad actions: %s", got)
	}
	if d.Surface().(*dashui.Elem).Parent() != layout {
		t.Errorf("dialog in a layout must stay in the layout")
	}
}
