package touchnav

import (
	"math"
	"strings"
)

const (
	// toggleSelector matches the small targets a tap snaps to.
	toggleSelector = `input[type="radio"], input[type="checkbox"]`
	// snapInset keeps a snapped point this far inside the target's edges.
	snapInset = 2
)

// ClosestElement refines the position of ev for a synthetic press and returns
// the point to use. It may also update ev:
//
//   - editable targets set ev.Editable, unless the element is a hidden input or
//     disabled, which clears it; the point is unchanged.
//   - a multi-select list forces ev.Modifiers to ModCtrl so the press toggles.
//   - links, native controls and elements with an onclick handler keep the
//     point unchanged.
//   - plain content snaps to the nearest radio button or checkbox whose inset
//     rectangle is strictly closer than searchThreshold (squared distance).
//
// view may be nil. A nil frame returns ev.Pos unchanged.
func ClosestElement(view View, frame Frame, ev *PointerEvent, searchThreshold float64) Vec2 {
	adjusted := ev.Pos
	if frame == nil {
		return adjusted
	}

	htr := frame.HitTestContent(adjusted)

	if htr.ContentEditable {
		if strings.ToLower(htr.attribute("type")) == "hidden" {
			ev.Editable = false
			return adjusted
		}
		disabled := strings.ToLower(htr.attribute("disabled"))
		if disabled == "disabled" || disabled == "true" {
			ev.Editable = false
			return adjusted
		}
		ev.Editable = true
		return adjusted
	}

	tag := htr.tagName()
	if tag == "select" && htr.hasAttribute("multiple") {
		ev.Modifiers = ModCtrl
		return adjusted
	}

	if htr.Link != nil || isNativeControl(tag) || htr.hasAttribute("onclick") {
		return adjusted
	}

	origin := frameViewPosition(frame)
	scroll := frame.ScrollPosition()
	framePoint := adjusted.Sub(origin).Add(scroll)

	best := framePoint
	maxDist := searchThreshold
	for _, el := range frame.FindAllElements(toggleSelector) {
		r := el.Geometry()
		if !r.Valid() {
			continue
		}
		pt := Vec2{clampInRect(framePoint.X, r.X, r.Right()), clampInRect(framePoint.Y, r.Y, r.Bottom())}
		if d := squaredDistance(pt, framePoint); d < maxDist {
			best = pt
			maxDist = d
		}
	}

	return best.Sub(scroll).Add(origin)
}

func isNativeControl(tag string) bool {
	switch tag {
	case "input", "map", "button", "textarea":
		return true
	}
	return false
}

// clampInRect clamps v into [lo+inset, hi-inset]. The lower bound wins for
// rectangles narrower than twice the inset.
func clampInRect(v, lo, hi float64) float64 {
	return math.Max(math.Min(v, hi-snapInset), lo+snapInset)
}

// frameViewPosition returns the origin of frame in view coordinates: the sum
// of frame positions up the chain, less each ancestor's scroll offset.
func frameViewPosition(frame Frame) Vec2 {
	var p Vec2
	for f := frame; f != nil; {
		p = p.Add(f.Pos())
		f = f.Parent()
		if f != nil {
			p = p.Sub(f.ScrollPosition())
		}
	}
	return p
}
