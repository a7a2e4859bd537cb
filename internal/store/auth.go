package store

import (
	"errors"
	"strings"

	"github.com/erazemk/zaloga/internal/model"
)

// Authentication failures. Callers map these to field-level messages.
var (
	ErrUnknownEmail  = errors.New("no user with this email")
	ErrWrongPassword = errors.New("password does not match")
)

// Authenticate resolves a user by email (trimmed, case-insensitive) and
// compares the credential verbatim. Password comparison is case-sensitive.
//
// The credential is stored and compared as an opaque string; replacing this
// with a salted one-way hash is a known open gap, and this method is the
// single place that comparison happens.
func (s *Store) Authenticate(email, password string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.TrimSpace(email)
	for _, id := range s.userIDs {
		u := s.users[id]
		if !strings.EqualFold(u.Email, needle) {
			continue
		}
		if u.PasswordCredential != password {
			return model.User{}, ErrWrongPassword
		}
		return cloneUser(*u), nil
	}
	return model.User{}, ErrUnknownEmail
}

// SetSession stores the signed-in user and their resume token.
func (s *Store) SetSession(user model.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := cloneUser(user)
	s.session = model.Session{CurrentUser: &u, Token: token}
}

// ClearSession signs the current user out.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = model.Session{}
}

// CurrentUser returns the signed-in user, if any.
func (s *Store) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session.CurrentUser == nil {
		return model.User{}, false
	}
	return cloneUser(*s.session.CurrentUser), true
}

// SessionToken returns the persisted resume token, if any.
func (s *Store) SessionToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}
