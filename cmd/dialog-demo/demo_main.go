package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sawka/dashborg-dialog/pkg/dashlocal"
	"github.com/sawka/dashborg-dialog/pkg/dashui"
	"github.com/sawka/dashborg-dialog/pkg/dialog"
	"github.com/sawka/dashborg-dialog/pkg/transport"
)

func createDialog(ui *dashui.UI) *dialog.Dialog {
	d := dialog.MakeDialog(dashui.MakeElem("dialog"))
	d.AddOpenedListener(func(e dialog.OpenedEvent) {
		ui.Notify(fmt.Sprintf("Opened (modal: %v)", e.Modal))
	})
	d.AddClosedListener(func(e dialog.ClosedEvent) {
		ui.Notify(fmt.Sprintf("Closed (from client: %v, by esc: %v)", e.FromClient, e.ClosedByEscape))
	})
	closeButton := dashui.MakeTextElem("button", "✕")
	closeButton.SetAttr("title", "Close")
	closeButton.OnClick(func(ctx dashui.Host, sig transport.ClientSignal) {
		// the click came from the browser
		d.CloseEx(ctx, true)
	})
	d.Add(dashui.MakeTextElem("span", "Hello World"), closeButton)
	return d
}

func makeButton(text string, fn dashui.SignalFn) *dashui.Elem {
	rtn := dashui.MakeTextElem("button", text)
	rtn.OnClick(fn)
	return rtn
}

func demoView(ui *dashui.UI) error {
	h1 := dashui.MakeTextElem("h1", "HTML Dialog - Demo")
	h1.SetStyle("font-size", "1.3em")
	layout := dashui.MakeElem("div")
	layout.Add(
		// dialog added to the layout by the view
		makeButton("Show", func(ctx dashui.Host, sig transport.ClientSignal) {
			d := createDialog(ui)
			layout.Add(d)
			d.Show(ctx)
		}),
		makeButton("Show modal", func(ctx dashui.Host, sig transport.ClientSignal) {
			d := createDialog(ui)
			layout.Add(d)
			d.ShowModal(ctx)
		}),
		// no parent, the dialog attaches itself to the ui (and detaches on close)
		makeButton("Show (ui attached)", func(ctx dashui.Host, sig transport.ClientSignal) {
			createDialog(ui).Show(ctx)
		}),
		makeButton("Show modal (ui attached)", func(ctx dashui.Host, sig transport.ClientSignal) {
			createDialog(ui).ShowModal(ctx)
		}),
		makeButton("Show modal (no esc)", func(ctx dashui.Host, sig transport.ClientSignal) {
			createDialog(ui).WithoutCloseOnEscape().WithAutofocus().ShowModal(ctx)
		}),
	)
	ui.Add(h1, layout)
	return nil
}

func main() {
	shutdownCh := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		close(shutdownCh)
	}()
	container, err := dashlocal.MakeContainer(&dashlocal.ContainerConfig{ShutdownCh: shutdownCh})
	if err != nil {
		log.Printf("Error creating container: %v\n", err)
		os.Exit(1)
	}
	err = container.ConnectView(demoView)
	if err != nil {
		log.Printf("Error connecting view: %v\n", err)
		os.Exit(1)
	}
	err = container.StartContainer()
	if err != nil {
		os.Exit(1)
	}
}
