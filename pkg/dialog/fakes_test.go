package dialog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sawka/dashborg-dialog/pkg/dashui"
	"github.com/sawka/dashborg-dialog/pkg/transport"
)

// callLog is shared by fakeHost and fakeSurface so tests can check ordering
type callLog struct {
	calls []string
}

func (cl *callLog) add(fmtStr string, args ...interface{}) {
	cl.calls = append(cl.calls, fmt.Sprintf(fmtStr, args...))
}

func (cl *callLog) count(call string) int {
	rtn := 0
	for _, c := range cl.calls {
		if c == call {
			rtn++
		}
	}
	return rtn
}

func (cl *callLog) indexOf(call string) int {
	for idx, c := range cl.calls {
		if c == call {
			return idx
		}
	}
	return -1
}

type fakeContainer struct {
	id string
}

func (c *fakeContainer) ContainerId() string {
	return c.id
}

type fakeHost struct {
	id      string
	log     *callLog
	parents map[string]dashui.Container
}

func makeFakeHost(log *callLog) *fakeHost {
	return &fakeHost{id: uuid.New().String(), log: log, parents: make(map[string]dashui.Container)}
}

func (h *fakeHost) ContainerId() string {
	return h.id
}

func (h *fakeHost) Attach(s dashui.Surface) {
	h.log.add("attach")
	h.parents[s.SurfaceId()] = h
	if fs, ok := s.(*fakeSurface); ok {
		fs.attach(h)
	}
}

func (h *fakeHost) Detach(s dashui.Surface) {
	h.log.add("detach")
	delete(h.parents, s.SurfaceId())
	if fs, ok := s.(*fakeSurface); ok {
		fs.detach()
	}
}

// attachTo simulates the view adding the surface to some other container
func (h *fakeHost) attachTo(s *fakeSurface, parent dashui.Container) {
	h.parents[s.SurfaceId()] = parent
	s.attach(h)
}

func (h *fakeHost) ParentOf(s dashui.Surface) dashui.Container {
	parent, ok := h.parents[s.SurfaceId()]
	if !ok {
		return nil
	}
	return parent
}

func (h *fakeHost) SetModal(s dashui.Surface, modal bool) {
	h.log.add("modal:%v", modal)
}

type fakeSurface struct {
	id        string
	log       *callLog
	attached  bool
	attrs     map[string]string
	features  map[string]bool
	signals   map[string][]dashui.SignalFn
	attachFns []dashui.AttachFn
}

func makeFakeSurface(log *callLog) *fakeSurface {
	return &fakeSurface{
		id:       uuid.New().String(),
		log:      log,
		attrs:    make(map[string]string),
		features: make(map[string]bool),
		signals:  make(map[string][]dashui.SignalFn),
	}
}

func (s *fakeSurface) SurfaceId() string {
	return s.id
}

func (s *fakeSurface) CallFn(fnName string) {
	s.log.add("callfn:%s", fnName)
}

func (s *fakeSurface) SetFeature(feature string, on bool) {
	if s.features[feature] == on {
		return
	}
	s.features[feature] = on
	s.log.add("feature:%s:%v", feature, on)
}

func (s *fakeSurface) SetAttr(name string, val string) {
	s.attrs[name] = val
}

func (s *fakeSurface) RemoveAttr(name string) {
	delete(s.attrs, name)
}

func (s *fakeSurface) OnSignal(signal string, fn dashui.SignalFn) dashui.Registration {
	s.signals[signal] = append(s.signals[signal], fn)
	return dashui.MakeRegistration(nil)
}

func (s *fakeSurface) OnAttach(fn dashui.AttachFn) dashui.Registration {
	s.attachFns = append(s.attachFns, fn)
	return dashui.MakeRegistration(nil)
}

func (s *fakeSurface) IsAttached() bool {
	return s.attached
}

func (s *fakeSurface) attach(h dashui.Host) {
	s.attached = true
	for _, fn := range s.attachFns {
		fn(h)
	}
}

// detaching discards the browser node (and its features)
func (s *fakeSurface) detach() {
	s.attached = false
	s.features = make(map[string]bool)
}

func (s *fakeSurface) fire(h dashui.Host, signal string, detail map[string]interface{}) error {
	sig, err := transport.MakeSignal(uuid.New().String(), s.id, signal, detail)
	if err != nil {
		return err
	}
	for _, fn := range s.signals[signal] {
		fn(h, sig)
	}
	return nil
}

type eventRecorder struct {
	opened []OpenedEvent
	closed []ClosedEvent
}

func recordEvents(d *Dialog) *eventRecorder {
	rtn := &eventRecorder{}
	d.AddOpenedListener(func(e OpenedEvent) { rtn.opened = append(rtn.opened, e) })
	d.AddClosedListener(func(e ClosedEvent) { rtn.closed = append(rtn.closed, e) })
	return rtn
}

func setupDialog() (*Dialog, *fakeHost, *fakeSurface, *callLog, *eventRecorder) {
	log := &callLog{}
	host := makeFakeHost(log)
	surface := makeFakeSurface(log)
	d := MakeDialog(surface)
	rec := recordEvents(d)
	return d, host, surface, log, rec
}
