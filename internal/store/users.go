package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/model"
)

// ProfileUpdates carries the fields a profile update may change. Nil fields
// are left untouched.
type ProfileUpdates struct {
	Username           *string
	Email              *string
	PhoneNumber        *string
	PasswordCredential *string
}

// RegisterUser creates a new user with an assigned id, creation timestamp
// and empty activity log. Uniqueness of email and phone must have been
// validated by the caller beforehand; the store does not re-check.
func (s *Store) RegisterUser(username, email, phone, credential string, picture *model.Image) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &model.User{
		ID:                 uuid.NewString(),
		Username:           username,
		Email:              email,
		PhoneNumber:        phone,
		PasswordCredential: credential,
		ProfilePicture:     picture,
		CreatedAt:          time.Now(),
		Activities:         []model.Activity{},
		Categories:         []string{},
		Products:           []string{},
	}
	s.users[u.ID] = u
	s.userIDs = append(s.userIDs, u.ID)
	return cloneUser(*u)
}

// UpdateUserProfile merges the given updates into the user record and logs
// a summary of the changed fields. Credential changes are applied but never
// named in the audit entry.
func (s *Store) UpdateUserProfile(userID string, updates ProfileUpdates) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return
	}

	var changes []string
	if updates.Username != nil {
		u.Username = *updates.Username
		changes = append(changes, "username updated")
	}
	if updates.Email != nil {
		u.Email = *updates.Email
		changes = append(changes, "email updated")
	}
	if updates.PhoneNumber != nil {
		u.PhoneNumber = *updates.PhoneNumber
		changes = append(changes, "phoneNumber updated")
	}
	if updates.PasswordCredential != nil {
		u.PasswordCredential = *updates.PasswordCredential
	}

	details := strings.Join(changes, ", ")
	if details == "" {
		details = "Profile updated"
	}
	s.logActivity(userID, model.ActivityProfileUpdated, details)
}

// UpdateProfilePicture sets the user's profile picture and logs the change.
func (s *Store) UpdateProfilePicture(userID string, img *model.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return
	}
	u.ProfilePicture = img
	s.logActivity(userID, model.ActivityProfilePictureUpdated, "Updated profile picture")
}

// UserByID returns a copy of the user, if present.
func (s *Store) UserByID(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}
	return cloneUser(*u), true
}

// UserByEmail returns the user with the given email, compared
// case-insensitively after trimming.
func (s *Store) UserByEmail(email string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.TrimSpace(email)
	for _, id := range s.userIDs {
		if u := s.users[id]; strings.EqualFold(u.Email, needle) {
			return cloneUser(*u), true
		}
	}
	return model.User{}, false
}

// Users returns all users in registration order.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.userIDs))
	for _, id := range s.userIDs {
		users = append(users, cloneUser(*s.users[id]))
	}
	return users
}
