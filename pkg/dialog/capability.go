package dialog

import (
	"log"

	"github.com/sawka/dashborg-dialog/pkg/dashui"
)

// sizing, styling and child components are delegated to the surface when it
// supports them (dashui.Styled, dashui.ParentSurface).

func (d *Dialog) styled() dashui.Styled {
	st, ok := d.surface.(dashui.Styled)
	if !ok {
		log.Printf("dialog[%s] surface does not support styling\n", d.surface.SurfaceId())
		return nil
	}
	return st
}

func (d *Dialog) parentSurface() dashui.ParentSurface {
	ps, ok := d.surface.(dashui.ParentSurface)
	if !ok {
		log.Printf("dialog[%s] surface does not support child components\n", d.surface.SurfaceId())
		return nil
	}
	return ps
}

// Add appends comps as children (in order) of the dialog
func (d *Dialog) Add(comps ...dashui.Component) {
	if ps := d.parentSurface(); ps != nil {
		ps.Add(comps...)
	}
}

func (d *Dialog) AddAt(idx int, comp dashui.Component) {
	if ps := d.parentSurface(); ps != nil {
		ps.AddAt(idx, comp)
	}
}

func (d *Dialog) Remove(comps ...dashui.Component) {
	if ps := d.parentSurface(); ps != nil {
		ps.Remove(comps...)
	}
}

func (d *Dialog) ChildCount() int {
	if ps := d.parentSurface(); ps != nil {
		return ps.ChildCount()
	}
	return 0
}

func (d *Dialog) SetStyle(prop string, val string) {
	if st := d.styled(); st != nil {
		st.SetStyle(prop, val)
	}
}

func (d *Dialog) AddClassName(className string) {
	if st := d.styled(); st != nil {
		st.AddClassName(className)
	}
}

func (d *Dialog) RemoveClassName(className string) {
	if st := d.styled(); st != nil {
		st.RemoveClassName(className)
	}
}

// SetWidth sets the css width ("" removes it)
func (d *Dialog) SetWidth(width string) {
	d.SetStyle("width", width)
}

func (d *Dialog) SetHeight(height string) {
	d.SetStyle("height", height)
}

func (d *Dialog) SetSizeFull() {
	d.SetWidth("100%")
	d.SetHeight("100%")
}

func (d *Dialog) SetSizeUndefined() {
	d.SetWidth("")
	d.SetHeight("")
}
