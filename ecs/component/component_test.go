package component

import "testing"

func TestComponentKindsAreDistinct(t *testing.T) {
	a := NewComponentKind[int]()
	b := NewComponentKind[int]()
	if !a.Valid() || !b.Valid() {
		t.Fatalf("new kinds must be valid")
	}
	if a.ID() == b.ID() {
		t.Fatalf("kinds share id %d", a.ID())
	}
	var zero ComponentKind[int]
	if zero.Valid() {
		t.Fatalf("zero kind must be invalid")
	}
}

func TestCountdownRemaining(t *testing.T) {
	tests := []struct {
		name           string
		total, elapsed int
		want           int
	}{
		{"fresh", 3600, 0, 3600},
		{"half", 3600, 1800, 1800},
		{"done", 3600, 3600, 0},
		{"overrun", 3600, 4000, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Countdown{TotalFrames: tc.total, ElapsedFrames: tc.elapsed}
			if got := c.RemainingFrames(); got != tc.want {
				t.Fatalf("RemainingFrames() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFadeProgress(t *testing.T) {
	tests := []struct {
		name              string
		duration, elapsed int
		want              float64
	}{
		{"start", 120, 0, 0},
		{"mid", 120, 60, 0.5},
		{"end", 120, 120, 1},
		{"past", 120, 500, 1},
		{"instant", 0, 0, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Fade{DurationFrames: tc.duration, ElapsedFrames: tc.elapsed}
			if got := f.Progress(); got != tc.want {
				t.Fatalf("Progress() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAnimationPlay(t *testing.T) {
	a := Animation{Defs: map[string]AnimationDef{"idle": {FrameCount: 4}, "run": {FrameCount: 6}}, Current: "idle", Playing: true, Frame: 2}

	a.Play("idle")
	if a.Frame != 2 {
		t.Fatalf("replaying the current animation must not reset it")
	}
	a.Play("run")
	if a.Current != "run" || a.Frame != 0 || !a.Playing {
		t.Fatalf("unexpected state after switch: %+v", a)
	}
	a.Play("missing")
	if a.Current != "run" {
		t.Fatalf("unknown animation must be ignored")
	}
}

func TestSoundQueueKeepsOrder(t *testing.T) {
	var q SoundQueue
	q.StopAll()
	q.Play("music")
	if len(q.Commands) != 2 || !q.Commands[0].StopAll || q.Commands[1].Key != "music" {
		t.Fatalf("unexpected commands %+v", q.Commands)
	}
}
