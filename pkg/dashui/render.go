package dashui

import (
	"bytes"
	"html"
	"sort"
	"strings"
)

const surfaceIdAttr = "data-surfaceid"
const signalsAttr = "data-signals"

func isReservedAttr(name string) bool {
	switch name {
	case "id", "class", "style", surfaceIdAttr, signalsAttr:
		return true
	}
	return false
}

func (e *Elem) classAttr() string {
	return strings.Join(e.classes, " ")
}

func (e *Elem) styleAttr() string {
	props := make([]string, 0, len(e.styles))
	for prop := range e.styles {
		props = append(props, prop)
	}
	sort.Strings(props)
	var buf bytes.Buffer
	for _, prop := range props {
		buf.WriteString(prop)
		buf.WriteString(":")
		buf.WriteString(e.styles[prop])
		buf.WriteString(";")
	}
	return buf.String()
}

func writeAttr(buf *bytes.Buffer, name string, val string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString("=\"")
	buf.WriteString(html.EscapeString(val))
	buf.WriteByte('"')
}

// RenderHtml renders the elem and its subtree.  Listened-for signals are rendered
// into data-signals so the browser runtime can bind them when the html is inserted.
func (e *Elem) RenderHtml() string {
	var buf bytes.Buffer
	e.renderHtml(&buf)
	return buf.String()
}

func (e *Elem) renderHtml(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(e.tag)
	writeAttr(buf, surfaceIdAttr, e.id)
	signals := e.signalNames()
	if len(signals) > 0 {
		sort.Strings(signals)
		writeAttr(buf, signalsAttr, strings.Join(signals, ","))
	}
	if len(e.classes) > 0 {
		writeAttr(buf, "class", e.classAttr())
	}
	if len(e.styles) > 0 {
		writeAttr(buf, "style", e.styleAttr())
	}
	attrNames := make([]string, 0, len(e.attrs))
	for name := range e.attrs {
		if name == "class" {
			continue
		}
		attrNames = append(attrNames, name)
	}
	sort.Strings(attrNames)
	for _, name := range attrNames {
		writeAttr(buf, name, e.attrs[name])
	}
	buf.WriteByte('>')
	if e.text != "" {
		buf.WriteString(html.EscapeString(e.text))
	}
	for _, child := range e.children {
		child.renderHtml(buf)
	}
	buf.WriteString("</")
	buf.WriteString(e.tag)
	buf.WriteByte('>')
}
