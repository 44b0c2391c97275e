package component

// RenderLayer orders drawing; higher indices draw later.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
