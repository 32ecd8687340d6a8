package touchnav

import (
	"math"
	"strings"

	selcss "github.com/ericchiang/css"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/net/html"
)

// scrollAnim holds active scroll-to tweens for a frame's X and Y offsets.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// DocFrame is a scrollable viewport of a Document. It implements Frame.
type DocFrame struct {
	name     string
	doc      *Document
	parent   *DocFrame
	children []*DocFrame
	node     *html.Node // subtree root owned by this frame

	// pos is the frame origin in the parent's content coordinates (view
	// coordinates for the top-level frame).
	pos      Vec2
	viewport Vec2 // width, height
	content  Vec2 // width, height; zero means "fit elements"
	scroll   Vec2
	policy   [2]ScrollBarPolicy

	elements []*docElement // document order

	scrollTween *scrollAnim
}

// Name returns the frame's data-frame name ("" for the top-level frame).
func (f *DocFrame) Name() string { return f.name }

// Children returns the frames nested directly inside f.
func (f *DocFrame) Children() []*DocFrame { return f.children }

// Parent implements Frame.
func (f *DocFrame) Parent() Frame {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

// Pos implements Frame.
func (f *DocFrame) Pos() Vec2 { return f.pos }

// Size returns the viewport width and height.
func (f *DocFrame) Size() Vec2 { return f.viewport }

// ContentSize returns the scrollable content extent. Unless set explicitly it
// is the larger of the viewport and the furthest element edge.
func (f *DocFrame) ContentSize() Vec2 {
	if f.content != (Vec2{}) {
		return f.content
	}
	size := f.viewport
	for _, el := range f.elements {
		if !el.rect.Valid() {
			continue
		}
		size.X = math.Max(size.X, el.rect.X+el.rect.Width)
		size.Y = math.Max(size.Y, el.rect.Y+el.rect.Height)
	}
	return size
}

// SetContentSize overrides the content extent and re-clamps the scroll offset.
func (f *DocFrame) SetContentSize(w, h float64) {
	f.content = Vec2{w, h}
	f.setScroll(f.scroll)
}

// SetScrollBarPolicy sets the scrollbar policy for one axis.
func (f *DocFrame) SetScrollBarPolicy(o Orientation, p ScrollBarPolicy) {
	f.policy[o] = p
}

// ScrollPosition implements Frame.
func (f *DocFrame) ScrollPosition() Vec2 { return f.scroll }

// Scroll implements Frame. Offsets are clamped to the content extent, and a
// running ScrollTo animation is cancelled.
func (f *DocFrame) Scroll(dx, dy int) {
	f.scrollTween = nil
	f.setScroll(f.scroll.Add(Vec2{float64(dx), float64(dy)}))
}

// SetScrollPosition jumps to an absolute offset, clamped to the content.
func (f *DocFrame) SetScrollPosition(x, y float64) {
	f.scrollTween = nil
	f.setScroll(Vec2{x, y})
}

func (f *DocFrame) maxScroll() Vec2 {
	c := f.ContentSize()
	return Vec2{math.Max(0, c.X-f.viewport.X), math.Max(0, c.Y-f.viewport.Y)}
}

func (f *DocFrame) setScroll(p Vec2) {
	m := f.maxScroll()
	f.scroll = Vec2{
		math.Max(0, math.Min(p.X, m.X)),
		math.Max(0, math.Min(p.Y, m.Y)),
	}
}

// ScrollTo animates the scroll offset to (x, y) over duration seconds.
// Document.Update advances the animation.
func (f *DocFrame) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	m := f.maxScroll()
	x = math.Max(0, math.Min(x, m.X))
	y = math.Max(0, math.Min(y, m.Y))
	f.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(f.scroll.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(f.scroll.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (f *DocFrame) Scrolling() bool {
	return f.scrollTween != nil
}

// update advances the scroll animation. Called from Document.Update.
func (f *DocFrame) update(dt float32) {
	if f.scrollTween == nil {
		return
	}
	p := f.scroll
	if !f.scrollTween.doneX {
		val, done := f.scrollTween.tweenX.Update(dt)
		p.X = float64(val)
		f.scrollTween.doneX = done
	}
	if !f.scrollTween.doneY {
		val, done := f.scrollTween.tweenY.Update(dt)
		p.Y = float64(val)
		f.scrollTween.doneY = done
	}
	f.setScroll(p)
	if f.scrollTween.doneX && f.scrollTween.doneY {
		f.scrollTween = nil
	}
}

// ScrollBarPolicy implements Frame.
func (f *DocFrame) ScrollBarPolicy(o Orientation) ScrollBarPolicy { return f.policy[o] }

// ScrollBarValue implements Frame.
func (f *DocFrame) ScrollBarValue(o Orientation) int {
	if o == Horizontal {
		return int(f.scroll.X)
	}
	return int(f.scroll.Y)
}

// ScrollBarMinimum implements Frame.
func (f *DocFrame) ScrollBarMinimum(Orientation) int { return 0 }

// ScrollBarMaximum implements Frame.
func (f *DocFrame) ScrollBarMaximum(o Orientation) int {
	m := f.maxScroll()
	if o == Horizontal {
		return int(m.X)
	}
	return int(m.Y)
}

// viewRect returns the frame viewport in view coordinates.
func (f *DocFrame) viewRect() Rect {
	o := frameViewPosition(f)
	return Rect{X: o.X, Y: o.Y, Width: f.viewport.X, Height: f.viewport.Y}
}

// --- Content ---

// HitTestContent implements Frame. The topmost element (last in document
// order) whose rectangle contains pos wins.
func (f *DocFrame) HitTestContent(pos Vec2) HitTestResult {
	local := pos.Sub(frameViewPosition(f)).Add(f.scroll)
	for i := len(f.elements) - 1; i >= 0; i-- {
		el := f.elements[i]
		if !el.rect.Valid() || !el.rect.Contains(local.X, local.Y) {
			continue
		}
		res := HitTestResult{Element: el, ContentEditable: isEditableNode(el.node)}
		if link := f.doc.linkFor(el.node); link != nil {
			res.Link = link
		}
		return res
	}
	return HitTestResult{}
}

// FindAllElements implements Frame.
func (f *DocFrame) FindAllElements(selector string) []Element {
	sel, err := selcss.Parse(selector)
	if err != nil {
		f.doc.log.Debug("bad selector", "selector", selector, "err", err)
		return nil
	}
	var out []Element
	for _, n := range sel.Select(f.node) {
		if el, ok := f.doc.elements[n]; ok && el.frame == f {
			out = append(out, el)
		}
	}
	return out
}

// Elements returns the frame's elements in document order.
func (f *DocFrame) Elements() []Element {
	out := make([]Element, len(f.elements))
	for i, el := range f.elements {
		out[i] = el
	}
	return out
}

// nonTextInputs are input types that do not take text.
var nonTextInputs = map[string]bool{
	"checkbox": true, "radio": true, "button": true, "submit": true,
	"reset": true, "image": true, "file": true, "range": true, "color": true,
}

// isEditableNode reports whether n accepts text input: a textarea, a
// text-like input, or content under contenteditable.
func isEditableNode(n *html.Node) bool {
	switch n.Data {
	case "textarea":
		return true
	case "input":
		return !nonTextInputs[strings.ToLower(attr(n, "type"))]
	}
	for p := n; p != nil; p = p.Parent {
		if v, ok := lookupAttr(p, "contenteditable"); ok {
			v = strings.ToLower(v)
			return v == "" || v == "true"
		}
	}
	return false
}
