package collision

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/wrenfield/simplane/vmath"
)

// Terminal debug drawing for collider outlines. One world unit maps to
// one screen cell; the camera offset shifts world space into view.
// Yellow marks triggers, red marks solid colliders (original engine
// convention). Purely visualization; nothing here feeds simulation

func (b *Base) debugStyle() tcell.Style {
	color := tcell.ColorRed
	if b.trigger {
		color = tcell.ColorYellow
	}
	return tcell.StyleDefault.Foreground(color)
}

func plot(screen tcell.Screen, x, y float64, style tcell.Style) {
	screen.SetContent(int(math.Round(x)), int(math.Round(y)), '·', nil, style)
}

// drawSegment plots a world-space segment already shifted by camera
func drawSegment(screen tcell.Screen, a, b vmath.Vec2, style tcell.Style) {
	delta := b.Sub(a)
	steps := int(math.Max(math.Abs(delta.X), math.Abs(delta.Y)))
	if steps == 0 {
		plot(screen, a.X, a.Y, style)
		return
	}
	step := delta.Scale(1 / float64(steps))
	p := a
	for i := 0; i <= steps; i++ {
		plot(screen, p.X, p.Y, style)
		p = p.Add(step)
	}
}

func drawOutline(screen tcell.Screen, verts []vmath.Vec2, camera vmath.Vec2, style tcell.Style) {
	n := len(verts)
	for i := 0; i < n; i++ {
		a := verts[i].Sub(camera)
		b := verts[(i+1)%n].Sub(camera)
		drawSegment(screen, a, b, style)
	}
}

// DebugDraw renders the rectangle outline
func (r *Rect) DebugDraw(screen tcell.Screen, camera vmath.Vec2) {
	corners := r.BoundingBox().Corners()
	drawOutline(screen, corners[:], camera, r.debugStyle())
}

// DebugDraw renders the circle as a 16-segment outline
func (c *Circle) DebugDraw(screen tcell.Screen, camera vmath.Vec2) {
	const segments = 16
	center := c.worldCenter()
	verts := make([]vmath.Vec2, segments)
	for i := range verts {
		angle := 2 * math.Pi * float64(i) / segments
		verts[i] = center.Add(vmath.V(math.Cos(angle), math.Sin(angle)).Scale(c.Radius))
	}
	drawOutline(screen, verts, camera, c.debugStyle())
}

// DebugDraw renders the polygon edges
func (p *Polygon) DebugDraw(screen tcell.Screen, camera vmath.Vec2) {
	drawOutline(screen, p.WorldVertices(), camera, p.debugStyle())
}
