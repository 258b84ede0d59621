package dashui

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/sawka/dashborg-dialog/pkg/dashutil"
	"github.com/sawka/dashborg-dialog/pkg/transport"
)

type signalEntry struct {
	Fn SignalFn
}

type attachEntry struct {
	Fn AttachFn
}

// Elem is the reference Surface implementation.  An Elem is not safe for concurrent
// use; once attached, every method must be called with the owning UI's Lock held
// (view code runs inside UI.Run, signal handlers already hold the lock).
type Elem struct {
	ui        *UI // set while attached
	id        string
	tag       string
	text      string
	attrs     map[string]string
	styles    map[string]string
	classes   []string
	parent    *Elem
	children  []*Elem
	signals   map[string][]*signalEntry
	attachFns []*attachEntry
	features  map[string]bool
	pending   []transport.SurfaceAction // CallFn calls made while detached
}

func MakeElem(tag string) *Elem {
	if !dashutil.IsTagNameValid(tag) {
		panic(fmt.Sprintf("dashui invalid tag name '%s'", tag))
	}
	return &Elem{
		id:       uuid.New().String(),
		tag:      tag,
		attrs:    make(map[string]string),
		styles:   make(map[string]string),
		signals:  make(map[string][]*signalEntry),
		features: make(map[string]bool),
	}
}

func MakeTextElem(tag string, text string) *Elem {
	rtn := MakeElem(tag)
	rtn.text = text
	return rtn
}

func (e *Elem) Surface() Surface {
	return e
}

func (e *Elem) SurfaceId() string {
	return e.id
}

func (e *Elem) ContainerId() string {
	return e.id
}

func (e *Elem) Tag() string {
	return e.tag
}

func (e *Elem) IsAttached() bool {
	return e.ui != nil
}

// UI returns the owning UI or nil if detached
func (e *Elem) UI() *UI {
	return e.ui
}

func (e *Elem) Parent() *Elem {
	return e.parent
}

func (e *Elem) Children() []*Elem {
	rtn := make([]*Elem, len(e.children))
	copy(rtn, e.children)
	return rtn
}

func (e *Elem) ChildCount() int {
	return len(e.children)
}

func (e *Elem) send(action transport.SurfaceAction) {
	if e.ui == nil {
		return
	}
	e.ui.queueAction(action)
}

func (e *Elem) Text() string {
	return e.text
}

func (e *Elem) SetText(text string) {
	e.text = text
	e.send(transport.MakeAction(transport.ActionSetText, e.id, "", text))
}

func (e *Elem) Attr(name string) (string, bool) {
	val, ok := e.attrs[name]
	return val, ok
}

func (e *Elem) SetAttr(name string, val string) {
	if !dashutil.IsAttrNameValid(name) || isReservedAttr(name) {
		log.Printf("dashui SetAttr invalid attribute name '%s'\n", name)
		return
	}
	e.attrs[name] = val
	e.send(transport.MakeAction(transport.ActionSetAttr, e.id, name, val))
}

func (e *Elem) RemoveAttr(name string) {
	if _, ok := e.attrs[name]; !ok {
		return
	}
	delete(e.attrs, name)
	e.send(transport.MakeAction(transport.ActionRemoveAttr, e.id, name, nil))
}

func (e *Elem) Style(prop string) string {
	return e.styles[prop]
}

func (e *Elem) SetStyle(prop string, val string) {
	if !dashutil.IsStylePropValid(prop) {
		log.Printf("dashui SetStyle invalid style property '%s'\n", prop)
		return
	}
	if val == "" {
		e.RemoveStyle(prop)
		return
	}
	e.styles[prop] = val
	e.send(transport.MakeAction(transport.ActionSetStyle, e.id, prop, val))
}

func (e *Elem) RemoveStyle(prop string) {
	if _, ok := e.styles[prop]; !ok {
		return
	}
	delete(e.styles, prop)
	e.send(transport.MakeAction(transport.ActionSetStyle, e.id, prop, ""))
}

func (e *Elem) HasClassName(className string) bool {
	for _, cn := range e.classes {
		if cn == className {
			return true
		}
	}
	return false
}

func (e *Elem) AddClassName(className string) {
	if className == "" || e.HasClassName(className) {
		return
	}
	e.classes = dashutil.AddToStringArr(e.classes, className)
	e.send(transport.MakeAction(transport.ActionSetAttr, e.id, "class", e.classAttr()))
}

func (e *Elem) RemoveClassName(className string) {
	if !e.HasClassName(className) {
		return
	}
	e.classes = dashutil.RemoveFromStringArr(e.classes, className)
	e.send(transport.MakeAction(transport.ActionSetAttr, e.id, "class", e.classAttr()))
}

// CallFn calls a function on the browser element.  Calls made while detached are
// queued and sent (in order) right after the next attach.
func (e *Elem) CallFn(fnName string) {
	if !dashutil.IsFnNameValid(fnName) {
		log.Printf("dashui CallFn invalid function name '%s'\n", fnName)
		return
	}
	action := transport.MakeAction(transport.ActionCallFn, e.id, fnName, nil)
	if e.ui == nil {
		e.pending = append(e.pending, action)
		return
	}
	e.ui.queueAction(action)
}

func (e *Elem) HasFeature(feature string) bool {
	return e.features[feature]
}

func (e *Elem) SetFeature(feature string, on bool) {
	if !dashutil.IsFeatureNameValid(feature) {
		log.Printf("dashui SetFeature invalid feature name '%s'\n", feature)
		return
	}
	if e.features[feature] == on {
		return
	}
	if on {
		e.features[feature] = true
	} else {
		delete(e.features, feature)
	}
	e.send(transport.MakeAction(transport.ActionSetFeature, e.id, feature, on))
}

func (e *Elem) signalNames() []string {
	var rtn []string
	for name, entries := range e.signals {
		if len(entries) > 0 {
			rtn = append(rtn, name)
		}
	}
	return rtn
}

func (e *Elem) OnSignal(signal string, fn SignalFn) Registration {
	if !dashutil.IsSignalNameValid(signal) || fn == nil {
		log.Printf("dashui OnSignal invalid signal '%s'\n", signal)
		return MakeRegistration(nil)
	}
	entry := &signalEntry{Fn: fn}
	isNew := len(e.signals[signal]) == 0
	e.signals[signal] = append(e.signals[signal], entry)
	if isNew {
		e.send(transport.MakeAction(transport.ActionListen, e.id, signal, nil))
	}
	return MakeRegistration(func() {
		entries := e.signals[signal]
		for idx, se := range entries {
			if se == entry {
				e.signals[signal] = append(entries[:idx:idx], entries[idx+1:]...)
				break
			}
		}
	})
}

// OnClick is shorthand for OnSignal("click", ...)
func (e *Elem) OnClick(fn SignalFn) Registration {
	return e.OnSignal("click", fn)
}

func (e *Elem) OnAttach(fn AttachFn) Registration {
	entry := &attachEntry{Fn: fn}
	e.attachFns = append(e.attachFns, entry)
	return MakeRegistration(func() {
		for idx, ae := range e.attachFns {
			if ae == entry {
				e.attachFns = append(e.attachFns[:idx:idx], e.attachFns[idx+1:]...)
				break
			}
		}
	})
}

func (e *Elem) contains(other *Elem) bool {
	for p := other; p != nil; p = p.parent {
		if p == e {
			return true
		}
	}
	return false
}

func (e *Elem) indexOf(child *Elem) int {
	for idx, c := range e.children {
		if c == child {
			return idx
		}
	}
	return -1
}

func asElem(s Surface) *Elem {
	if s == nil {
		return nil
	}
	e, _ := s.(*Elem)
	return e
}

func compElem(c Component) *Elem {
	if c == nil {
		return nil
	}
	return asElem(c.Surface())
}

func (e *Elem) Add(comps ...Component) {
	for _, c := range comps {
		e.AddAt(len(e.children), c)
	}
}

// AddAt inserts comp at idx (clamped to [0, ChildCount()]).  Adding a component that
// already has a parent moves it.
func (e *Elem) AddAt(idx int, comp Component) {
	child := compElem(comp)
	if child == nil {
		log.Printf("dashui cannot add component, surface is not a *dashui.Elem\n")
		return
	}
	if child == e || child.contains(e) {
		log.Printf("dashui cannot add elem[%s] to its own subtree\n", child.id)
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(e.children) {
		idx = len(e.children)
	}
	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = child
	child.parent = e
	if e.ui != nil {
		e.ui.attachSubtree(child, e, idx)
	}
}

func (e *Elem) Remove(comps ...Component) {
	for _, c := range comps {
		child := compElem(c)
		if child == nil || child.parent != e {
			continue
		}
		e.removeChild(child)
	}
}

func (e *Elem) RemoveAll() {
	for len(e.children) > 0 {
		e.removeChild(e.children[len(e.children)-1])
	}
}

func (e *Elem) removeChild(child *Elem) {
	idx := e.indexOf(child)
	if idx == -1 {
		return
	}
	e.children = append(e.children[:idx], e.children[idx+1:]...)
	child.parent = nil
	if child.ui != nil {
		child.ui.detachSubtree(child)
	}
}
