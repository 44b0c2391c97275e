package component

// SoundCommand is one queued audio request. StopAll pauses every sound and
// ignores Key.
type SoundCommand struct {
	Key     string
	StopAll bool
}

// SoundQueue holds audio requests in issue order until the audio system
// drains them.
type SoundQueue struct {
	Commands []SoundCommand
}

func (q *SoundQueue) Play(key string) {
	q.Commands = append(q.Commands, SoundCommand{Key: key})
}

func (q *SoundQueue) StopAll() {
	q.Commands = append(q.Commands, SoundCommand{StopAll: true})
}

var SoundQueueComponent = NewComponent[SoundQueue]()
