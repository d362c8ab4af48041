package domain

// ConnectionStatus is the stream controller's externally visible state.
// Exactly one value holds at any time.
type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Connecting
	Connected
)

func (s ConnectionStatus) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}
