// Package store holds the normalized in-memory tables (users, categories,
// products, session) and the mutation operations that are the only way to
// change them. Mutations targeting unknown ids are silent no-ops; reads
// return copies so callers can never alias internal state.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/persist"
)

// Store is the owned, process-lifetime state object. It is created once at
// startup, seeded from the persistence gateway, and passed explicitly to
// every consumer.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*model.User
	userIDs    []string
	categories []model.Category
	products   []model.Product
	session    model.Session
}

// New returns an empty store.
func New() *Store {
	return &Store{users: make(map[string]*model.User)}
}

// Summary holds the dashboard counts.
type Summary struct {
	Users      int
	Categories int
	Products   int
	LowStock   int
}

// Summarize returns table sizes and the low-stock count.
func (s *Store) Summarize() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Users:      len(s.userIDs),
		Categories: len(s.categories),
		Products:   len(s.products),
	}
	for _, p := range s.products {
		if p.LowStock() {
			sum.LowStock++
		}
	}
	return sum
}

// Snapshot deep-copies the whole store into a persistable snapshot.
func (s *Store) Snapshot() persist.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := persist.Snapshot{
		Version: persist.CurrentVersion,
		Users: persist.UsersState{
			Entities: make(map[string]*model.User, len(s.users)),
			IDs:      append([]string(nil), s.userIDs...),
		},
		Categories: persist.CategoriesState{Entities: make([]model.Category, 0, len(s.categories))},
		Products:   persist.ProductsState{Products: make([]model.Product, 0, len(s.products))},
	}
	for id, u := range s.users {
		cu := cloneUser(*u)
		snap.Users.Entities[id] = &cu
	}
	for _, c := range s.categories {
		snap.Categories.Entities = append(snap.Categories.Entities, cloneCategory(c))
	}
	for _, p := range s.products {
		snap.Products.Products = append(snap.Products.Products, cloneProduct(p))
	}
	if s.session.CurrentUser != nil {
		cu := cloneUser(*s.session.CurrentUser)
		snap.Auth.CurrentUser = &cu
	}
	snap.Auth.Token = s.session.Token
	return snap
}

// Restore replaces all tables with the snapshot's contents. Must complete
// before any consumer reads from the store.
func (s *Store) Restore(snap persist.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*model.User, len(snap.Users.Entities))
	s.userIDs = nil
	for _, id := range snap.Users.IDs {
		u, ok := snap.Users.Entities[id]
		if !ok || u == nil {
			continue
		}
		cu := cloneUser(*u)
		s.users[id] = &cu
		s.userIDs = append(s.userIDs, id)
	}

	s.categories = nil
	for _, c := range snap.Categories.Entities {
		s.categories = append(s.categories, cloneCategory(c))
	}

	s.products = nil
	for _, p := range snap.Products.Products {
		s.products = append(s.products, cloneProduct(p))
	}

	s.session = model.Session{Token: snap.Auth.Token}
	if snap.Auth.CurrentUser != nil {
		cu := cloneUser(*snap.Auth.CurrentUser)
		s.session.CurrentUser = &cu
	}
}

// AddUserActivity prepends an audit entry to the user's log. Unknown users
// are a silent no-op.
func (s *Store) AddUserActivity(userID, activityType, details string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logActivity(userID, activityType, details)
}

// logActivity is the single write path for audit entries. Callers must hold
// the write lock.
func (s *Store) logActivity(userID, activityType, details string) {
	u, ok := s.users[userID]
	if !ok {
		return
	}
	entry := model.Activity{
		ID:        uuid.NewString(),
		Type:      activityType,
		Timestamp: time.Now(),
		Details:   details,
	}
	u.Activities = append([]model.Activity{entry}, u.Activities...)
	s.refreshSessionUser(userID)
}

// refreshSessionUser keeps the session's user copy in sync after a mutation
// touches the signed-in user's record. Callers must hold the write lock.
func (s *Store) refreshSessionUser(userID string) {
	if s.session.CurrentUser == nil || s.session.CurrentUser.ID != userID {
		return
	}
	if u, ok := s.users[userID]; ok {
		cu := cloneUser(*u)
		s.session.CurrentUser = &cu
	}
}

// touched returns a timestamp strictly after prev, so updatedAt advances
// even when two mutations land within clock resolution.
func touched(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func cloneUser(u model.User) model.User {
	u.Activities = append([]model.Activity{}, u.Activities...)
	u.Categories = append([]string{}, u.Categories...)
	u.Products = append([]string{}, u.Products...)
	if u.ProfilePicture != nil {
		pic := *u.ProfilePicture
		u.ProfilePicture = &pic
	}
	return u
}

func cloneCategory(c model.Category) model.Category {
	if c.Image != nil {
		img := *c.Image
		c.Image = &img
	}
	return c
}

func cloneProduct(p model.Product) model.Product {
	p.Images = append([]model.Image{}, p.Images...)
	return p
}
