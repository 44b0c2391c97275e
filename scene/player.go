package scene

// Player wraps the engine's player body.
type Player struct {
	physics Physics
	body    Body
	frozen  bool
}

func NewPlayer(p Physics, x, y float64) (*Player, error) {
	b, err := p.AddPlayer(x, y)
	if err != nil {
		return nil, err
	}
	return &Player{physics: p, body: b}, nil
}

// Freeze stops input and animation and makes the body immovable. Calling it
// again has no effect.
func (p *Player) Freeze() {
	if p.frozen {
		return
	}
	p.frozen = true
	p.physics.FreezePlayer(p.body)
}

func (p *Player) Frozen() bool {
	return p.frozen
}

func (p *Player) Body() Body {
	return p.body
}

func (p *Player) Position() (float64, float64) {
	return p.physics.Position(p.body)
}
