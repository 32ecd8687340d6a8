package touchnav

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Color is an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Overlay palette.
var (
	ColorFrame    = Color{1, 1, 1, 0.8}
	ColorElement  = Color{0.45, 0.45, 0.5, 0.6}
	ColorEditable = Color{0.3, 0.6, 1, 0.7}
	ColorLink     = Color{0.3, 0.9, 0.5, 0.7}
	ColorToggle   = Color{1, 0.7, 0.2, 0.8}
	ColorTouch    = Color{1, 0.3, 0.3, 0.9}
)

// CommandType identifies the kind of overlay command.
type CommandType uint8

const (
	CommandFill    CommandType = iota // filled rectangle
	CommandOutline                    // 1px rectangle outline
)

// RenderCommand is a single draw instruction emitted while walking a
// document. Rect is in view coordinates, already clipped.
type RenderCommand struct {
	Type  CommandType
	Rect  Rect
	Color Color
}

// Overlay draws a Document's frames and elements as flat boxes, plus the
// navigator's current touch and gesture counters. It is a debugging view,
// not a renderer for real content.
type Overlay struct {
	// ShowStats prints FPS, TPS and gesture counters in the top-left corner.
	ShowStats bool

	doc      *Document
	nav      *Navigator
	commands []RenderCommand
	pixel    *ebiten.Image
}

// NewOverlay creates an overlay for doc. nav may be nil.
func NewOverlay(doc *Document, nav *Navigator) *Overlay {
	return &Overlay{doc: doc, nav: nav}
}

// Draw renders the overlay onto dst.
func (o *Overlay) Draw(dst *ebiten.Image) {
	if o.pixel == nil {
		o.pixel = ebiten.NewImage(1, 1)
		o.pixel.Fill(Color{1, 1, 1, 1}.toRGBA())
	}
	o.commands = o.traverse(o.commands[:0])
	for i := range o.commands {
		o.submit(dst, &o.commands[i])
	}
	if o.ShowStats {
		ebitenutil.DebugPrint(dst, o.statsText())
	}
}

// traverse appends commands for every frame, parents before children, and
// for the touch marker.
func (o *Overlay) traverse(cmds []RenderCommand) []RenderCommand {
	for _, f := range o.doc.Frames() {
		clip := o.clipRect(f)
		for _, el := range f.elements {
			if !el.rect.Valid() {
				continue
			}
			if _, isFrame := lookupAttr(el.node, "data-frame"); isFrame {
				continue
			}
			r := el.rect.Add(frameViewPosition(f).Sub(f.scroll))
			if vis, ok := r.Intersect(clip); ok {
				cmds = append(cmds, RenderCommand{Type: CommandFill, Rect: vis, Color: o.elementColor(el)})
			}
		}
		if r, ok := f.viewRect().Intersect(o.clipRect(f.parentOrSelf())); ok {
			cmds = append(cmds, RenderCommand{Type: CommandOutline, Rect: r, Color: ColorFrame})
		}
	}
	if o.nav != nil && o.nav.Frame() != nil {
		p := o.nav.TouchDown().Pos
		cmds = append(cmds, RenderCommand{Type: CommandFill, Rect: Rect{X: p.X - 3, Y: p.Y - 3, Width: 6, Height: 6}, Color: ColorTouch})
	}
	return cmds
}

// clipRect is the visible part of f: its viewport cut by every ancestor's.
func (o *Overlay) clipRect(f *DocFrame) Rect {
	clip := f.viewRect()
	for p := f.parent; p != nil; p = p.parent {
		r, ok := clip.Intersect(p.viewRect())
		if !ok {
			return Rect{}
		}
		clip = r
	}
	return clip
}

func (o *Overlay) elementColor(el *docElement) Color {
	switch {
	case isEditableNode(el.node):
		return ColorEditable
	case o.doc.linkFor(el.node) != nil:
		return ColorLink
	case el.node.Data == "input":
		return ColorToggle
	}
	return ColorElement
}

func (o *Overlay) statsText() string {
	s := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	if o.nav != nil {
		st := o.nav.Stats()
		s += fmt.Sprintf("\ntaps: %d  holds: %d  flings: %d", st.Taps, st.LongPresses, st.Flings)
		if o.nav.Suppressed() {
			s += "\npaused"
		}
	}
	return s
}

// submit draws one command by scaling the white pixel.
func (o *Overlay) submit(dst *ebiten.Image, cmd *RenderCommand) {
	switch cmd.Type {
	case CommandFill:
		o.fill(dst, cmd.Rect, cmd.Color)
	case CommandOutline:
		r := cmd.Rect
		o.fill(dst, Rect{X: r.X, Y: r.Y, Width: r.Width, Height: 1}, cmd.Color)
		o.fill(dst, Rect{X: r.X, Y: r.Y + r.Height - 1, Width: r.Width, Height: 1}, cmd.Color)
		o.fill(dst, Rect{X: r.X, Y: r.Y, Width: 1, Height: r.Height}, cmd.Color)
		o.fill(dst, Rect{X: r.X + r.Width - 1, Y: r.Y, Width: 1, Height: r.Height}, cmd.Color)
	}
}

func (o *Overlay) fill(dst *ebiten.Image, r Rect, c Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	dst.DrawImage(o.pixel, &op)
}

// --- Geometry helpers ---

// Add returns r translated by v.
func (r Rect) Add(v Vec2) Rect {
	return Rect{X: r.X + v.X, Y: r.Y + v.Y, Width: r.Width, Height: r.Height}
}

// Intersect returns the overlap of r and other. ok is false when they do not
// overlap with a positive area.
func (r Rect) Intersect(other Rect) (out Rect, ok bool) {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.X+r.Width, other.X+other.Width)
	y1 := math.Min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// parentOrSelf returns f's parent, or f for the top-level frame.
func (f *DocFrame) parentOrSelf() *DocFrame {
	if f.parent != nil {
		return f.parent
	}
	return f
}

// toRGBA converts a Color to a premultiplied color.Color.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
