package model

import "time"

// Activity is a single audit-trail entry. Immutable once created; entries
// are only ever prepended to a user's log, newest first.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// Well-known activity types. Free-text types are allowed too.
const (
	ActivityProfilePictureUpdated = "PROFILE_PICTURE_UPDATED"
	ActivityProfileUpdated        = "PROFILE_UPDATED"
	ActivityCategoryAdded         = "CATEGORY_ADDED"
	ActivityCategoryUpdated       = "CATEGORY_UPDATED"
	ActivityCategoryDeleted       = "CATEGORY_DELETED"
	ActivityProductAdded          = "PRODUCT_ADDED"
	ActivityProductUpdated        = "PRODUCT_UPDATED"
	ActivityProductDeleted        = "PRODUCT_DELETED"
)
