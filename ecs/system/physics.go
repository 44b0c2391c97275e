package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/atthegym/common"
	"github.com/milk9111/atthegym/ecs"
	"github.com/milk9111/atthegym/ecs/component"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypePlayerGround
	collisionTypeSolid
	collisionTypeSensor
)

const (
	wallNone  = 0
	wallLeft  = 1
	wallRight = 2
)

const groundGraceFrames = 6

// PhysicsSystem mirrors PhysicsBody components into a Chipmunk space, steps
// it once per tick and publishes player begin-contacts to the world's
// collision bus after the step.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool
	dt            float64

	entities     map[ecs.Entity]*bodyInfo
	shapes       map[*cp.Shape]ecs.Entity
	playerShapes map[*cp.Shape]ecs.Entity
	groundShapes map[*cp.Shape]ecs.Entity
	playerStates map[ecs.Entity]*playerContactState

	// contacts is filled by begin handlers while the space is locked.
	contacts []pendingContact
}

type bodyInfo struct {
	body        *cp.Body
	mainShape   *cp.Shape
	groundShape *cp.Shape
	shapes      []*cp.Shape
	joints      []*cp.Constraint
	static      bool
	frozen      bool
}

type playerContactState struct {
	grounded    bool
	groundGrace int
	wall        int
}

type pendingContact struct {
	a, b   ecs.Entity
	nx, ny float64
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:        newSpace(),
		dt:           1.0 / common.TPS,
		entities:     make(map[ecs.Entity]*bodyInfo),
		shapes:       make(map[*cp.Shape]ecs.Entity),
		playerShapes: make(map[*cp.Shape]ecs.Entity),
		groundShapes: make(map[*cp.Shape]ecs.Entity),
		playerStates: make(map[ecs.Entity]*playerContactState),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncWorldBounds(w)
	ps.resetPlayerContacts(w)

	ps.contacts = ps.contacts[:0]
	ps.space.Step(ps.dt)

	ps.applyAirFriction(w)
	ps.syncTransforms(w)
	ps.flushPlayerContacts(w)

	bus := w.Collisions()
	for _, c := range ps.contacts {
		if ecs.IsAlive(w, c.a) && ecs.IsAlive(w, c.b) {
			bus.Publish(c.a, c.b, c.nx, c.ny)
		}
	}
	bus.Dispatch()
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	begin := func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := sys.shapes[shapeA]
		b, okB := sys.shapes[shapeB]
		if !okA || !okB {
			return true
		}
		n := arb.Normal()
		sys.contacts = append(sys.contacts, pendingContact{a: a, b: b, nx: n.X, ny: n.Y})
		return true
	}

	solidHandler := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSolid)
	solidHandler.UserData = ps
	solidHandler.BeginFunc = begin
	solidHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		playerEntity, playerIsA := sys.playerShapes[shapeA]
		if !playerIsA {
			var okB bool
			playerEntity, okB = sys.playerShapes[shapeB]
			if !okB {
				return true
			}
		}

		st := sys.stateFor(playerEntity)
		n := arb.Normal()
		if !playerIsA {
			n = n.Neg()
		}
		if n.X < -0.5 {
			st.wall = wallLeft
		} else if n.X > 0.5 {
			st.wall = wallRight
		}
		return true
	}

	sensorHandler := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSensor)
	sensorHandler.UserData = ps
	sensorHandler.BeginFunc = begin

	groundHandler := ps.space.NewCollisionHandler(collisionTypePlayerGround, collisionTypeSolid)
	groundHandler.UserData = ps
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		playerEntity, okA := sys.groundShapes[shapeA]
		if !okA {
			var okB bool
			playerEntity, okB = sys.groundShapes[shapeB]
			if !okB {
				return true
			}
		}

		n := arb.Normal()
		if !okA {
			n = n.Neg()
		}
		// Grounded only when the surface is below the player.
		if n.Y <= 0.5 {
			return true
		}
		st := sys.stateFor(playerEntity)
		st.grounded = true
		st.groundGrace = groundGraceFrames
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) stateFor(e ecs.Entity) *playerContactState {
	st := ps.playerStates[e]
	if st == nil {
		st = &playerContactState{}
		ps.playerStates[e] = st
	}
	return st
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		info := ps.entities[e]
		if info == nil {
			isPlayer := ecs.Has(w, e, component.PlayerTagComponent.Kind())
			info = ps.createBodyInfo(transform, bodyComp, isPlayer)
			if info == nil {
				return
			}
			ps.entities[e] = info
			for _, shape := range info.shapes {
				ps.shapes[shape] = e
			}
			if isPlayer {
				ps.playerShapes[info.mainShape] = e
				if info.groundShape != nil {
					ps.groundShapes[info.groundShape] = e
				}
			}
			bodyComp.Body = info.body
			bodyComp.Shape = info.mainShape
		}

		if bodyComp.Pinned && len(info.joints) == 0 && !info.static {
			pivot := cp.NewPivotJoint(info.body, ps.space.StaticBody, info.body.Position())
			ps.space.AddConstraint(pivot)
			info.joints = append(info.joints, pivot)
		}

		if !info.frozen && !info.static && ecs.Has(w, e, component.FrozenComponent.Kind()) {
			info.body.SetType(cp.BODY_KINEMATIC)
			info.body.SetVelocity(0, 0)
			info.body.SetAngularVelocity(0)
			info.frozen = true
		}
	})
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody, isPlayer bool) *bodyInfo {
	width := bodyComp.Width
	height := bodyComp.Height
	radius := bodyComp.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width = 32
		height = 32
	}

	collisionType := collisionTypeSolid
	if bodyComp.Sensor {
		collisionType = collisionTypeSensor
	}

	info := &bodyInfo{static: bodyComp.Static}
	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: transform.X, Y: transform.Y})
		} else {
			bb := cp.BB{
				L: transform.X - width/2,
				B: transform.Y - height/2,
				R: transform.X + width/2,
				T: transform.Y + height/2,
			}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionType)
		shape.SetSensor(bodyComp.Sensor)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.mainShape = shape
		info.shapes = []*cp.Shape{shape}
		return info
	}

	density := bodyComp.Density
	if density <= 0 {
		density = 0.001
	}
	var mass, moment float64
	if radius > 0 {
		mass = density * math.Pi * radius * radius
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		mass = density * width * height
		moment = cp.MomentForBox(mass, width, height)
	}
	if bodyComp.FixedRotation {
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)
	// Initial spin only; contacts and air friction take it from here.
	body.SetAngularVelocity(bodyComp.AngularVelocity)

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionType)
	shape.SetSensor(bodyComp.Sensor)
	if isPlayer {
		shape.SetCollisionType(collisionTypePlayer)
	}

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.mainShape = shape
	info.shapes = []*cp.Shape{shape}

	if isPlayer {
		if groundShape := ps.createGroundSensor(width, height, body); groundShape != nil {
			ps.space.AddShape(groundShape)
			info.groundShape = groundShape
			info.shapes = append(info.shapes, groundShape)
		}
	}
	return info
}

func (ps *PhysicsSystem) createGroundSensor(width, height float64, body *cp.Body) *cp.Shape {
	if body == nil || width <= 0 || height <= 0 {
		return nil
	}
	groundBB := cp.BB{
		L: -width * 0.45,
		B: height / 2.0,
		R: width * 0.45,
		T: height/2.0 + 2,
	}
	groundShape := cp.NewBox2(body, groundBB, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(collisionTypePlayerGround)
	return groundShape
}

func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	boundsEntity, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	if _, exists := ps.entities[boundsEntity]; exists {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok || bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}

	worldW, worldH := bounds.Width, bounds.Height
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},
		{a: cp.Vector{X: 0, Y: worldH}, b: cp.Vector{X: worldW, Y: worldH}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}},
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, 1)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
	}
	ps.entities[boundsEntity] = info
}

// applyAirFriction damps linear and angular velocity by AirFriction per tick.
func (ps *PhysicsSystem) applyAirFriction(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody) {
		info := ps.entities[e]
		if info == nil || info.static || info.frozen || bodyComp.AirFriction <= 0 {
			return
		}
		k := 1 - common.Clamp(bodyComp.AirFriction, 0, 1)
		info.body.SetVelocityVector(info.body.Velocity().Mult(k))
		info.body.SetAngularVelocity(info.body.AngularVelocity() * k)
	})
}

func (ps *PhysicsSystem) resetPlayerContacts(w *ecs.World) {
	seen := make(map[ecs.Entity]struct{})
	ecs.ForEach(w, component.PlayerCollisionComponent.Kind(), func(e ecs.Entity, pc *component.PlayerCollision) {
		seen[e] = struct{}{}
		st := ps.stateFor(e)
		st.groundGrace = pc.GroundGrace
		if st.groundGrace > 0 {
			st.groundGrace--
		}
		st.grounded = false
		st.wall = wallNone
	})
	for e := range ps.playerStates {
		if _, ok := seen[e]; !ok {
			delete(ps.playerStates, e)
		}
	}
}

func (ps *PhysicsSystem) flushPlayerContacts(w *ecs.World) {
	for e, st := range ps.playerStates {
		pc, ok := ecs.Get(w, e, component.PlayerCollisionComponent.Kind())
		if !ok {
			continue
		}
		pc.Grounded = st.grounded
		pc.GroundGrace = st.groundGrace
		pc.Wall = st.wall
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Static || bodyComp.Body == nil {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) && (ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) || ecs.Has(w, e, component.LevelBoundsComponent.Kind())) {
			continue
		}
		ps.removeInfo(info)
		delete(ps.entities, e)
		delete(ps.playerStates, e)
	}
}

func (ps *PhysicsSystem) removeInfo(info *bodyInfo) {
	for _, joint := range info.joints {
		ps.space.RemoveConstraint(joint)
	}
	for _, shape := range info.shapes {
		ps.space.RemoveShape(shape)
		delete(ps.shapes, shape)
		delete(ps.playerShapes, shape)
		delete(ps.groundShapes, shape)
	}
	if info.body != nil && !info.static {
		ps.space.RemoveBody(info.body)
	}
}

// Frozen reports whether the body of e has been switched to kinematic.
func (ps *PhysicsSystem) Frozen(e ecs.Entity) bool {
	info := ps.entities[e]
	return info != nil && info.frozen
}

// Reset drops every body and builds an empty space.
func (ps *PhysicsSystem) Reset() {
	ps.space = newSpace()
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.shapes = make(map[*cp.Shape]ecs.Entity)
	ps.playerShapes = make(map[*cp.Shape]ecs.Entity)
	ps.groundShapes = make(map[*cp.Shape]ecs.Entity)
	ps.playerStates = make(map[ecs.Entity]*playerContactState)
	ps.contacts = nil
}
