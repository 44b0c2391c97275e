package scene

// PlatformConfig shapes a rotating platform. AngularVelocity is in radians
// per second.
type PlatformConfig struct {
	Texture         string
	TileWidth       float64
	Height          float64
	Tiles           int
	AngularVelocity float64
	Friction        float64
	AirFriction     float64
	Restitution     float64
	Density         float64
	Depth           int
}

// CreateRotatingPlatform adds a plank of cfg.Tiles tiles centred on (x, y),
// pins its centre to the world so it can only spin, and starts it turning.
func CreateRotatingPlatform(p Physics, x, y float64, cfg PlatformConfig) (Body, error) {
	tiles := cfg.Tiles
	if tiles <= 0 {
		tiles = 1
	}
	b, err := p.AddImage(x, y, cfg.Texture, BodyOptions{
		Density:     cfg.Density,
		Friction:    cfg.Friction,
		Restitution: cfg.Restitution,
		AirFriction: cfg.AirFriction,
		Width:       cfg.TileWidth * float64(tiles),
		Height:      cfg.Height,
		RepeatX:     tiles,
		Depth:       cfg.Depth,
	})
	if err != nil {
		return NoBody, err
	}
	if err := p.PinToWorld(b); err != nil {
		return NoBody, err
	}
	p.SetAngularVelocity(b, cfg.AngularVelocity)
	return b, nil
}
