package player

// Player is the capability set shared by the cinematic and music players.
// Implementations drive their own decoder; Ticker is called once per game
// tick to keep the output buffers fed.
type Player interface {
	// Play starts playback from the current position, restarting at the
	// end of the stream when loop is set.
	Play(loop bool)
	Stop()

	Pause()
	Resume()

	Ticker()
	Volume(gain float32)

	// Close releases the stream. The player must not be used afterwards.
	Close()
}

// Status is the playback state a player reports.
type Status int

const (
	NotLoaded Status = iota
	Playing
	Paused
	Stopped
)

func (s Status) String() string {
	switch s {
	case NotLoaded:
		return "not loaded"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
