package touchnav

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Document is an in-memory rendering surface built from HTML. Elements are
// laid out absolutely from their inline style (left, top, width, height in px)
// in the coordinates of the frame that owns them. An element carrying a
// data-frame attribute becomes a nested scrollable frame: its rectangle is the
// frame viewport, and its descendants belong to it.
//
// Frame attributes (on <body> for the top-level frame):
//
//	data-frame="name"           nested frame name
//	data-content-width="px"     content extent (defaults to fit elements)
//	data-content-height="px"
//	data-scroll-x="on|off|auto" scrollbar policy per axis (default auto)
//	data-scroll-y="on|off|auto"
//
// Document implements Surface. Dispatched events are recorded in Events and
// passed to OnDispatch.
type Document struct {
	// OnDispatch, if set, is called for every dispatched synthetic event.
	OnDispatch func(ev SyntheticEvent)
	// Events records every dispatched synthetic event.
	Events []SyntheticEvent

	root     *DocFrame
	frames   []*DocFrame
	current  *DocFrame
	elements map[*html.Node]*docElement
	ids      map[string]*docElement
	log      *slog.Logger
}

// ParseDocument parses HTML into a Document whose top-level frame has the
// given viewport (in view coordinates).
func ParseDocument(r io.Reader, viewport Rect) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	d := &Document{
		elements: map[*html.Node]*docElement{},
		ids:      map[string]*docElement{},
		log:      DefaultConfig().logger(),
	}
	d.root = &DocFrame{
		doc:      d,
		node:     root,
		pos:      Vec2{viewport.X, viewport.Y},
		viewport: Vec2{viewport.Width, viewport.Height},
	}
	d.frames = append(d.frames, d.root)
	if err := d.build(root, d.root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return d, nil
}

// ParseDocumentString is ParseDocument for a string.
func ParseDocumentString(s string, viewport Rect) (*Document, error) {
	return ParseDocument(strings.NewReader(s), viewport)
}

// SetLogger sets the logger used for document diagnostics.
func (d *Document) SetLogger(l *slog.Logger) {
	if l != nil {
		d.log = l
	}
}

// build walks n's subtree, assigning element nodes to frame.
func (d *Document) build(n *html.Node, frame *DocFrame) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		el := &docElement{node: c, frame: frame}
		if style, ok := lookupAttr(c, "style"); ok {
			r, err := parseGeometry(style)
			if err != nil {
				return fmt.Errorf("element <%s>: %w", c.Data, err)
			}
			el.rect = r
		}
		d.elements[c] = el
		if id := attr(c, "id"); id != "" {
			d.ids[id] = el
		}

		if c.Data == "body" && frame == d.root {
			applyFrameAttrs(frame, c)
		}

		if name, ok := lookupAttr(c, "data-frame"); ok {
			frame.elements = append(frame.elements, el)
			child := &DocFrame{
				name:     name,
				doc:      d,
				parent:   frame,
				node:     c,
				pos:      Vec2{el.rect.X, el.rect.Y},
				viewport: Vec2{el.rect.Width, el.rect.Height},
			}
			applyFrameAttrs(child, c)
			frame.children = append(frame.children, child)
			d.frames = append(d.frames, child)
			if err := d.build(c, child); err != nil {
				return err
			}
			continue
		}

		frame.elements = append(frame.elements, el)
		if err := d.build(c, frame); err != nil {
			return err
		}
	}
	return nil
}

func applyFrameAttrs(f *DocFrame, n *html.Node) {
	f.policy[Horizontal] = parsePolicy(attr(n, "data-scroll-x"))
	f.policy[Vertical] = parsePolicy(attr(n, "data-scroll-y"))
	w, _ := strconv.ParseFloat(attr(n, "data-content-width"), 64)
	h, _ := strconv.ParseFloat(attr(n, "data-content-height"), 64)
	if w > 0 || h > 0 {
		f.content = Vec2{w, h}
		if f.content.X == 0 {
			f.content.X = f.viewport.X
		}
		if f.content.Y == 0 {
			f.content.Y = f.viewport.Y
		}
	}
}

func parsePolicy(s string) ScrollBarPolicy {
	switch strings.ToLower(s) {
	case "on":
		return ScrollBarAlwaysOn
	case "off":
		return ScrollBarAlwaysOff
	}
	return ScrollBarAsNeeded
}

// parseGeometry reads left/top/width/height from an inline style. Missing
// properties are zero, so an element without width or height has no layout.
func parseGeometry(style string) (Rect, error) {
	// The parser is strict about the trailing semicolon; inline styles are not.
	if !strings.HasSuffix(strings.TrimSpace(style), ";") {
		style += ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return Rect{}, fmt.Errorf("style %q: %w", style, err)
	}
	var r Rect
	for _, decl := range decls {
		v, err := parsePx(decl.Value)
		if err != nil {
			continue
		}
		switch strings.ToLower(decl.Property) {
		case "left", "x":
			r.X = v
		case "top", "y":
			r.Y = v
		case "width":
			r.Width = v
		case "height":
			r.Height = v
		}
	}
	return r, nil
}

func parsePx(v string) (float64, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	return strconv.ParseFloat(v, 64)
}

// --- Surface ---

// Root returns the top-level frame.
func (d *Document) Root() *DocFrame {
	return d.root
}

// Frames returns every frame, top-level first, in document order.
func (d *Document) Frames() []*DocFrame {
	return d.frames
}

// FrameByName returns the nested frame with the given data-frame name.
func (d *Document) FrameByName(name string) *DocFrame {
	for _, f := range d.frames {
		if f != d.root && f.name == name {
			return f
		}
	}
	return nil
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) Element {
	if el, ok := d.ids[id]; ok {
		return el
	}
	return nil
}

// FrameAt implements Surface. It returns the innermost frame whose viewport
// contains pos, or nil when pos is outside the top-level viewport.
func (d *Document) FrameAt(pos Vec2) Frame {
	if f := d.frameAt(pos); f != nil {
		return f
	}
	return nil
}

func (d *Document) frameAt(pos Vec2) *DocFrame {
	if !d.root.viewRect().Contains(pos.X, pos.Y) {
		return nil
	}
	f := d.root
	for {
		var next *DocFrame
		// Later siblings paint on top.
		for i := len(f.children) - 1; i >= 0; i-- {
			c := f.children[i]
			if c.viewRect().Contains(pos.X, pos.Y) {
				next = c
				break
			}
		}
		if next == nil {
			return f
		}
		f = next
	}
}

// CurrentFrame implements Surface: the frame of the last synthetic press, or
// the top-level frame.
func (d *Document) CurrentFrame() Frame {
	if d.current != nil {
		return d.current
	}
	return d.root
}

// Dispatch implements Surface.
func (d *Document) Dispatch(ev SyntheticEvent) {
	if ev.Kind == EventPress {
		if f := d.frameAt(ev.Pos); f != nil {
			d.current = f
		}
	}
	d.Events = append(d.Events, ev)
	if d.OnDispatch != nil {
		d.OnDispatch(ev)
	}
}

// ResetEvents clears the recorded events.
func (d *Document) ResetEvents() {
	d.Events = d.Events[:0]
}

// Update advances frame scroll animations by dt seconds.
func (d *Document) Update(dt float32) {
	for _, f := range d.frames {
		f.update(dt)
	}
}

// linkFor returns the nearest <a href> at or above n, or nil.
func (d *Document) linkFor(n *html.Node) *docElement {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "a" {
			if _, ok := lookupAttr(p, "href"); ok {
				return d.elements[p]
			}
		}
	}
	return nil
}

// --- Elements ---

type docElement struct {
	node  *html.Node
	frame *DocFrame
	rect  Rect
}

func (e *docElement) TagName() string              { return e.node.Data }
func (e *docElement) Attribute(name string) string  { return attr(e.node, name) }
func (e *docElement) HasAttribute(name string) bool { _, ok := lookupAttr(e.node, name); return ok }
func (e *docElement) Geometry() Rect                { return e.rect }

// attr returns the value of the named attribute, or "". HTML attribute names
// are case-insensitive and the parser lowercases them.
func attr(n *html.Node, name string) string {
	v, _ := lookupAttr(n, name)
	return v
}

func lookupAttr(n *html.Node, name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// --- View ---

// DocView is a View with an input-method flag. It records panel requests and
// input-method toggles.
type DocView struct {
	inputMethod   bool
	PanelRequests int
	Toggles       []bool
}

// NewDocView creates a view with the input method enabled or not.
func NewDocView(inputMethod bool) *DocView {
	return &DocView{inputMethod: inputMethod}
}

// InputMethodEnabled implements View.
func (v *DocView) InputMethodEnabled() bool { return v.inputMethod }

// SetInputMethodEnabled implements View.
func (v *DocView) SetInputMethodEnabled(enabled bool) {
	v.inputMethod = enabled
	v.Toggles = append(v.Toggles, enabled)
}

// RequestInputPanel implements View.
func (v *DocView) RequestInputPanel() { v.PanelRequests++ }
