package models

// Session is the acting identity for one call. An empty PrincipalID is a guest.
type Session struct {
	PrincipalID string
}

// Guest returns the anonymous session.
func Guest() Session { return Session{} }

// IsGuest reports whether no principal is attached.
func (s Session) IsGuest() bool { return s.PrincipalID == "" }
