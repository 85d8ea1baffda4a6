package session

// ConnectionState is the raw transport state reported by a Session.
// Transitions are reported through the session's state-change callback in
// the order they are observed; consumers republish, they never reorder.
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateRefused
	StateError
)

// String returns the display form used in state-change notifications.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateRefused:
		return "Refused"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}
