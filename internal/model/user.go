package model

import "time"

// User represents a registered account, including its audit trail.
type User struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	PhoneNumber        string     `json:"phoneNumber"`
	PasswordCredential string     `json:"passwordCredential"`
	ProfilePicture     *Image     `json:"profilePicture"`
	CreatedAt          time.Time  `json:"createdAt"`
	Activities         []Activity `json:"activities"`

	// Carried from the persisted shape; always empty, ownership is
	// tracked on the entities themselves via CreatedBy.
	Categories []string `json:"categories"`
	Products   []string `json:"products"`
}

// Session is the singleton slot holding the signed-in user.
type Session struct {
	CurrentUser *User  `json:"currentUser"`
	Token       string `json:"token,omitempty"`
}
