// Package persist serializes the whole entity store to the encrypted vault
// and restores it on startup, migrating stored snapshots across schema
// versions. Restore is fail-safe: a snapshot that cannot be read or
// migrated is discarded and the store starts empty.
package persist

import "github.com/erazemk/zaloga/internal/model"

// CurrentVersion is the schema version written with every snapshot.
// Version 1 is the legacy unversioned layout.
const CurrentVersion = 2

// Snapshot is the full persisted representation of the entity store.
//
// The shape asymmetry (users as a keyed map plus id order, categories and
// products as plain sequences) is the historical stored layout and is kept
// so existing snapshots stay readable.
type Snapshot struct {
	Version    int             `json:"version"`
	Auth       AuthState       `json:"auth"`
	Users      UsersState      `json:"users"`
	Categories CategoriesState `json:"categories"`
	Products   ProductsState   `json:"products"`
}

// AuthState holds the persisted session slot.
type AuthState struct {
	CurrentUser *model.User `json:"currentUser"`
	Token       string      `json:"token,omitempty"`
}

// UsersState is the keyed users table with insertion order.
type UsersState struct {
	Entities map[string]*model.User `json:"entities"`
	IDs      []string               `json:"ids"`
}

// CategoriesState is the ordered categories table.
type CategoriesState struct {
	Entities []model.Category `json:"entities"`
}

// ProductsState is the ordered products table.
type ProductsState struct {
	Products []model.Product `json:"products"`
}

// Empty returns a current-version snapshot with no data.
func Empty() Snapshot {
	return Snapshot{
		Version: CurrentVersion,
		Users:   UsersState{Entities: map[string]*model.User{}},
	}
}
