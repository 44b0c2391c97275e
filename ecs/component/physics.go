package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Radius > 0 selects a circle collider, otherwise Width x Height box.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Width       float64
	Height      float64
	Radius      float64
	Density     float64
	Friction    float64
	Elasticity  float64
	AirFriction float64

	Static        bool
	Sensor        bool
	FixedRotation bool
	// Pinned bodies get a pivot joint to the static body at their centre.
	Pinned          bool
	AngularVelocity float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// Frozen bodies are switched to kinematic with zero velocity and stop taking
// input or animating.
type Frozen struct{}

var FrozenComponent = NewComponent[Frozen]()
