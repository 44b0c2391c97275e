package component

// Transform is the world-space position of an entity. For physics bodies X/Y
// is the body centre.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
