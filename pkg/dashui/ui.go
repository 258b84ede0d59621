package dashui

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sawka/dashborg-dialog/pkg/dasherr"
	"github.com/sawka/dashborg-dialog/pkg/dashutil"
	"github.com/sawka/dashborg-dialog/pkg/transport"
)

const maxQueuedActions = 1000

type UIOpts struct {
	Verbose bool
}

// UI is the root of one browser page's component tree and implements Host.
// Lock serializes view code, signal dispatch and action draining.
type UI struct {
	Lock       *sync.Mutex
	uiId       string
	root       *Elem
	elemMap    map[string]*Elem // surfaceid -> attached elem
	modalStack []*Elem
	actions    []transport.SurfaceAction
	notifyCh   chan struct{}
	lastAccess time.Time
	mounted    bool
	verbose    bool
}

func MakeUI(opts *UIOpts) *UI {
	if opts == nil {
		opts = &UIOpts{}
	}
	rtn := &UI{
		Lock:       &sync.Mutex{},
		uiId:       uuid.New().String(),
		elemMap:    make(map[string]*Elem),
		notifyCh:   make(chan struct{}, 1),
		lastAccess: time.Now(),
		verbose:    opts.Verbose,
	}
	rtn.root = MakeElem("main")
	return rtn
}

// Mount renders the page html for the initial load and makes the tree live.  Until
// Mount is called the tree is detached: Elem calls are recorded in the tree (CallFn
// calls are queued) and replayed after the html, followed by attach hooks.
func (ui *UI) Mount() (string, error) {
	var html string
	err := ui.Run(func() error {
		if ui.mounted {
			return fmt.Errorf("ui[%s] already mounted", ui.uiId)
		}
		ui.mounted = true
		html = ui.root.RenderHtml()
		ui.markAttached(ui.root)
		return nil
	})
	return html, err
}

// IsMounted takes the ui lock, do not call it from inside Run.
func (ui *UI) IsMounted() bool {
	ui.Lock.Lock()
	defer ui.Lock.Unlock()
	return ui.mounted
}

func (ui *UI) logV(fmtStr string, args ...interface{}) {
	if ui.verbose {
		log.Printf(fmtStr, args...)
	}
}

func (ui *UI) UiId() string {
	return ui.uiId
}

func (ui *UI) ContainerId() string {
	return ui.uiId
}

// Root is the top-level elem, rendered into the page on load
func (ui *UI) Root() *Elem {
	return ui.root
}

func (ui *UI) Add(comps ...Component) {
	ui.root.Add(comps...)
}

func (ui *UI) Remove(comps ...Component) {
	ui.root.Remove(comps...)
}

func (ui *UI) Attach(s Surface) {
	e := asElem(s)
	if e == nil {
		log.Printf("dashui Attach surface is not a *dashui.Elem\n")
		return
	}
	ui.root.Add(e)
}

func (ui *UI) Detach(s Surface) {
	e := asElem(s)
	if e == nil || e.parent == nil {
		return
	}
	e.parent.removeChild(e)
}

func (ui *UI) ParentOf(s Surface) Container {
	e := asElem(s)
	if e == nil || e.parent == nil {
		return nil
	}
	if e.parent == ui.root {
		return ui
	}
	return e.parent
}

// SetModal marks s as the active server-side modal.  While a modal is active, signals
// to surfaces outside of its subtree are rejected.  Clearing an unmarked surface is a no-op.
func (ui *UI) SetModal(s Surface, modal bool) {
	e := asElem(s)
	if e == nil {
		return
	}
	ui.removeModal(e)
	if modal {
		if !ui.root.contains(e) {
			log.Printf("dashui SetModal elem[%s] is not attached to ui[%s]\n", e.id, ui.uiId)
			return
		}
		ui.modalStack = append(ui.modalStack, e)
	}
}

func (ui *UI) removeModal(e *Elem) {
	for idx, me := range ui.modalStack {
		if me == e {
			ui.modalStack = append(ui.modalStack[:idx:idx], ui.modalStack[idx+1:]...)
			return
		}
	}
}

func (ui *UI) ActiveModal() *Elem {
	if len(ui.modalStack) == 0 {
		return nil
	}
	return ui.modalStack[len(ui.modalStack)-1]
}

func (ui *UI) LookupSurface(surfaceId string) *Elem {
	return ui.elemMap[surfaceId]
}

// Notify shows a transient toast message in the browser.
func (ui *UI) Notify(text string) {
	ui.queueAction(transport.MakeAction(transport.ActionNotify, "", "", transport.NotifyData{Text: text, Duration: 5000}))
}

func (ui *UI) queueAction(action transport.SurfaceAction) {
	if len(ui.actions) >= maxQueuedActions {
		log.Printf("dashui ui[%s] action queue full (%d), dropping %s action\n", ui.uiId, maxQueuedActions, action.ActionType)
		return
	}
	ui.actions = append(ui.actions, action)
	select {
	case ui.notifyCh <- struct{}{}:
	default:
	}
}

func (ui *UI) attachSubtree(e *Elem, parent *Elem, idx int) {
	action := transport.MakeAction(transport.ActionAttach, e.id, "", nil)
	action.ParentId = parent.id
	action.Index = idx
	action.Html = e.RenderHtml()
	ui.queueAction(action)
	ui.markAttached(e)
}

// pre-order: features, attach hooks, then pending calls
func (ui *UI) markAttached(e *Elem) {
	e.ui = ui
	ui.elemMap[e.id] = e
	for feature := range e.features {
		ui.queueAction(transport.MakeAction(transport.ActionSetFeature, e.id, feature, true))
	}
	hooks := make([]*attachEntry, len(e.attachFns))
	copy(hooks, e.attachFns)
	for _, h := range hooks {
		h.Fn(ui)
	}
	pending := e.pending
	e.pending = nil
	for _, action := range pending {
		ui.queueAction(action)
	}
	for _, child := range e.children {
		ui.markAttached(child)
	}
}

func (ui *UI) detachSubtree(e *Elem) {
	ui.queueAction(transport.MakeAction(transport.ActionDetach, e.id, "", nil))
	ui.markDetached(e)
}

// the browser node is discarded on detach, so client-side features go with it
func (ui *UI) markDetached(e *Elem) {
	for _, child := range e.children {
		ui.markDetached(child)
	}
	ui.removeModal(e)
	delete(ui.elemMap, e.id)
	e.features = make(map[string]bool)
	e.ui = nil
}

// Run executes fn with the UI lock held.  View code that touches the component tree
// from outside of a signal handler must go through Run.
func (ui *UI) Run(fn func() error) (rtnErr error) {
	ui.Lock.Lock()
	defer ui.Lock.Unlock()
	defer func() {
		if panicErr := recover(); panicErr != nil {
			log.Printf("PANIC ui[%s] Run %v\n", ui.uiId, panicErr)
			log.Printf("%s\n", string(debug.Stack()))
			rtnErr = dasherr.ErrWithCode(dasherr.ErrCodePanic, fmt.Errorf("panic: %v", panicErr))
		}
	}()
	ui.lastAccess = time.Now()
	return fn()
}

// DispatchSignal delivers a browser signal to the target surface's listeners (in
// registration order).  Signals are processed one at a time.
func (ui *UI) DispatchSignal(sig transport.ClientSignal) error {
	err := sig.Validate()
	if err != nil {
		return err
	}
	if sig.UiId != ui.uiId {
		return dasherr.NoUiErr(sig.UiId)
	}
	return ui.Run(func() error {
		e := ui.elemMap[sig.SurfaceId]
		if e == nil {
			return dasherr.NoSurfaceErr(sig.SurfaceId)
		}
		modal := ui.ActiveModal()
		if modal != nil && !modal.contains(e) {
			ui.logV("dashui ui[%s] signal '%s' to [%s] blocked by modal [%s]\n", ui.uiId, sig.Signal, sig.SurfaceId, modal.id)
			return dasherr.ModalErr(sig.SurfaceId, modal.id)
		}
		entries := e.signals[sig.Signal]
		ui.logV("dashui ui[%s] signal '%s' to [%s] listeners:%d\n", ui.uiId, sig.Signal, sig.SurfaceId, len(entries))
		for _, entry := range entries {
			entry.Fn(ui, sig)
		}
		return nil
	})
}

// TakeActions returns and clears all queued actions.
func (ui *UI) TakeActions() []transport.SurfaceAction {
	ui.Lock.Lock()
	defer ui.Lock.Unlock()
	return ui.takeActions_nolock()
}

func (ui *UI) takeActions_nolock() []transport.SurfaceAction {
	rtn := ui.actions
	ui.actions = nil
	return rtn
}

// Drain blocks until actions are queued, timeout elapses (dashutil.TimeoutErr) or ctx
// is done.
func (ui *UI) Drain(ctx context.Context, timeout time.Duration) ([]transport.SurfaceAction, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		ui.Lock.Lock()
		ui.lastAccess = time.Now()
		rtn := ui.takeActions_nolock()
		ui.Lock.Unlock()
		if len(rtn) > 0 {
			return rtn, nil
		}
		select {
		case <-ui.notifyCh:
			continue

		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer.C:
			return nil, dashutil.TimeoutErr
		}
	}
}

func (ui *UI) LastAccess() time.Time {
	ui.Lock.Lock()
	defer ui.Lock.Unlock()
	return ui.lastAccess
}
