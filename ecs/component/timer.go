package component

// Countdown counts update ticks toward TotalFrames.
type Countdown struct {
	TotalFrames   int
	ElapsedFrames int
	Paused        bool
}

// RemainingFrames is never negative.
func (c *Countdown) RemainingFrames() int {
	r := c.TotalFrames - c.ElapsedFrames
	if r < 0 {
		return 0
	}
	return r
}

var CountdownComponent = NewComponent[Countdown]()
