package domain

// Identity is either anonymous or an authenticated user. The zero value is anonymous.
type Identity struct {
	user *UserProfile
}

func Anonymous() Identity { return Identity{} }

func Authenticated(user UserProfile) Identity {
	return Identity{user: &user}
}

// User returns the authenticated user, or false for an anonymous identity.
func (i Identity) User() (UserProfile, bool) {
	if i.user == nil {
		return UserProfile{}, false
	}
	return *i.user, true
}

func (i Identity) IsAuthenticated() bool { return i.user != nil }

// UserID returns the authenticated user's id, or 0.
func (i Identity) UserID() int64 {
	if i.user == nil {
		return 0
	}
	return i.user.ID
}
