/*
Package auth implements the flat credential check used by the login endpoint.

The relay keeps a predefined in-memory user table; verification is a plain lookup
and comparison. There is no hashing, session state, or account management.
*/
package auth

// Store holds the predefined username/password table.
type Store struct {
	users map[string]string
}

// NewStore constructs a Store from a username-to-password map.
// The map is copied so later mutation by the caller has no effect.
func NewStore(users map[string]string) *Store {
	copied := make(map[string]string, len(users))
	for name, password := range users {
		copied[name] = password
	}

	return &Store{users: copied}
}

// Verify reports whether the username exists and the password matches.
func (s *Store) Verify(username, password string) bool {
	stored, ok := s.users[username]
	return ok && stored == password
}
