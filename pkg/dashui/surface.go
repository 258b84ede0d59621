package dashui

import (
	"sync"

	"github.com/sawka/dashborg-dialog/pkg/transport"
)

// browser runtime features, toggled per surface with Surface.SetFeature.
// Both are idempotent on the client (keyed by DOM node).
const (
	// re-dispatches show()/showModal() as an "opened" signal with detail {modal: bool}
	FeatureOpenedSignal = "openedsignal"

	// swallows the native "cancel" event (Esc key) so the dialog stays open
	FeatureEscGuard = "escguard"
)

type Registration interface {
	Remove()
}

type registration struct {
	once     sync.Once
	removeFn func()
}

func (r *registration) Remove() {
	r.once.Do(func() {
		if r.removeFn != nil {
			r.removeFn()
		}
	})
}

// MakeRegistration returns a Registration that calls removeFn at most once.
func MakeRegistration(removeFn func()) Registration {
	return &registration{removeFn: removeFn}
}

type Container interface {
	ContainerId() string
}

// Host is passed explicitly to component operations and signal handlers
// (there is no ambient "current UI").
type Host interface {
	Container
	Attach(s Surface)
	Detach(s Surface)
	ParentOf(s Surface) Container // nil if s has no parent
	SetModal(s Surface, modal bool)
}

type SignalFn func(ctx Host, sig transport.ClientSignal)
type AttachFn func(ctx Host)

// Surface is the server-side handle of one rendered browser element.  All calls are
// fire-and-forget.
type Surface interface {
	SurfaceId() string
	CallFn(fnName string)
	SetFeature(feature string, on bool)
	SetAttr(name string, val string)
	RemoveAttr(name string)
	OnSignal(signal string, fn SignalFn) Registration
	OnAttach(fn AttachFn) Registration
	IsAttached() bool
}

type Component interface {
	Surface() Surface
}

type Styled interface {
	SetStyle(prop string, val string)
	RemoveStyle(prop string)
	AddClassName(className string)
	RemoveClassName(className string)
}

type ParentSurface interface {
	Add(comps ...Component)
	AddAt(idx int, comp Component)
	Remove(comps ...Component)
	ChildCount() int
}
