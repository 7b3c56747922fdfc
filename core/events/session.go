package events

const (
	// KindSessionConnected identifies the realtime session reaching Active.
	KindSessionConnected Kind = "session.connected"
	// KindSessionDisconnected identifies socket closure.
	KindSessionDisconnected Kind = "session.disconnected"
	// KindSessionError identifies a server-reported protocol error.
	KindSessionError Kind = "session.error"
)

// SessionConnected marks the session becoming active.
type SessionConnected struct{ Base }

// NewSessionConnected creates a session connected event.
func NewSessionConnected() SessionConnected {
	return SessionConnected{Base: NewBase(KindSessionConnected)}
}

// SessionDisconnected marks socket closure. Err is nil for a requested close.
type SessionDisconnected struct {
	Base
	Err error
}

// NewSessionDisconnected creates a session disconnected event.
func NewSessionDisconnected(err error) SessionDisconnected {
	return SessionDisconnected{Base: NewBase(KindSessionDisconnected), Err: err}
}

// SessionError carries a server-reported error that did not tear down the
// socket.
type SessionError struct {
	Base
	Message string
}

// NewSessionError creates a session error event.
func NewSessionError(message string) SessionError {
	return SessionError{Base: NewBase(KindSessionError), Message: message}
}
