package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/atthegym/common"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

// debugRole is what a shape means to the level, used to colour it.
type debugRole int

const (
	debugSolid debugRole = iota
	debugLethal
	debugSensor
	debugPlayer
	debugFeet
	debugRoleCount
)

var debugRoleNames = [debugRoleCount]string{"solid", "lethal", "sensor", "player", "feet"}

var debugRoleColors = [debugRoleCount]cp.FColor{
	debugSolid:  {R: 0.2, G: 1, B: 0.2, A: 0.9},
	debugLethal: {R: 1, G: 0.3, B: 0.1, A: 0.9},
	debugSensor: {R: 0.3, G: 0.6, B: 1, A: 0.9},
	debugPlayer: {R: 1, G: 1, B: 0.2, A: 0.9},
	debugFeet:   {R: 1, G: 0.2, B: 1, A: 0.9},
}

const debugCircleSegments = 24

// DrawDebug outlines every shape in the space through the camera, coloured by
// role, and prints a per-role tally.
func (ps *PhysicsSystem) DrawDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	camX, camY, zoom := cameraView(w)
	d := &physicsDebugDrawer{ps: ps, w: w, screen: screen, camX: camX, camY: camY, zoom: zoom}
	cp.DrawSpace(ps.space, d)

	counts := ps.debugCounts(w)
	text := "Shapes:"
	for role, n := range counts {
		if n > 0 {
			text += fmt.Sprintf(" %d %s", n, debugRoleNames[role])
		}
	}
	ebitenutil.DebugPrintAt(screen, text, 10, common.BaseHeight-130)
}

func (ps *PhysicsSystem) debugRole(w *ecs.World, shape *cp.Shape) debugRole {
	if _, ok := ps.groundShapes[shape]; ok {
		return debugFeet
	}
	if _, ok := ps.playerShapes[shape]; ok {
		return debugPlayer
	}
	if shape.Sensor() {
		return debugSensor
	}
	if e, ok := ps.shapes[shape]; ok {
		if tile, ok := ecs.Get(w, e, component.TileComponent.Kind()); ok && tile.Properties.Bool("isLethal") {
			return debugLethal
		}
	}
	return debugSolid
}

func (ps *PhysicsSystem) debugCounts(w *ecs.World) [debugRoleCount]int {
	var counts [debugRoleCount]int
	ps.space.EachShape(func(shape *cp.Shape) {
		counts[ps.debugRole(w, shape)]++
	})
	return counts
}

// DrawPlayerDebug prints the player's position and contact state plus any
// extra lines supplied by the caller.
func DrawPlayerDebug(w *ecs.World, screen *ebiten.Image, extra ...string) {
	if w == nil || screen == nil {
		return
	}
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	x, y := 0.0, 0.0
	if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		x, y = t.X, t.Y
	}
	grounded := false
	wall := 0
	if pc, ok := ecs.Get(w, player, component.PlayerCollisionComponent.Kind()); ok {
		grounded = pc.Grounded || pc.GroundGrace > 0
		wall = pc.Wall
	}
	frozen := ecs.Has(w, player, component.FrozenComponent.Kind())
	text := fmt.Sprintf("Player: %.0f,%.0f\nGrounded: %v\nWall: %d\nFrozen: %v\nTPS: %.1f", x, y, grounded, wall, frozen, ebiten.ActualTPS())
	for _, line := range extra {
		text += "\n" + line
	}
	ebitenutil.DebugPrintAt(screen, text, 10, common.BaseHeight-110)
}

// physicsDebugDrawer draws in the fill colour cp hands back from ShapeColor.
type physicsDebugDrawer struct {
	ps     *PhysicsSystem
	w      *ecs.World
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.circle(pos, radius, fill)
	// Spoke shows rotation.
	d.line(pos, pos.Add(cp.ForAngle(angle).Mult(radius)), fill)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fill)
	d.circle(a, radius, fill)
	d.circle(b, radius, fill)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	verts = verts[:count]
	d.loop(verts, fill)
	if fill == debugRoleColors[debugLethal] && count >= 4 {
		d.line(verts[0], verts[2], fill)
		d.line(verts[1], verts[3], fill)
	}
}

// DrawDot marks pivot anchors with a small cross.
func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := math.Max(size, 4) / 2
	d.line(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.line(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return debugRoleColors[debugSolid]
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return debugRoleColors[d.ps.debugRole(d.w, shape)]
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) line(a, b cp.Vector, c cp.FColor) {
	x1, y1 := (a.X-d.camX)*d.zoom, (a.Y-d.camY)*d.zoom
	x2, y2 := (b.X-d.camX)*d.zoom, (b.Y-d.camY)*d.zoom
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, toNRGBA(c))
}

func (d *physicsDebugDrawer) loop(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.line(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) circle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, debugCircleSegments)
	for i := range points {
		a := 2 * math.Pi * float64(i) / debugCircleSegments
		points[i] = center.Add(cp.ForAngle(a).Mult(radius))
	}
	d.loop(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(common.Clamp(float64(c.R), 0, 1) * 255),
		G: uint8(common.Clamp(float64(c.G), 0, 1) * 255),
		B: uint8(common.Clamp(float64(c.B), 0, 1) * 255),
		A: uint8(common.Clamp(float64(c.A), 0, 1) * 255),
	}
}
