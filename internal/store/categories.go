package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/model"
)

// CategoryPayload carries the writable category fields.
type CategoryPayload struct {
	Title       string
	Description string
	Image       *model.Image
}

// AddCategory creates a category with assigned id and timestamps, owned by
// the acting user, and logs the addition to the actor's activity trail.
func (s *Store) AddCategory(actorID string, p CategoryPayload) model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c := model.Category{
		ID:          uuid.NewString(),
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.categories = append(s.categories, c)
	s.logActivity(actorID, model.ActivityCategoryAdded, fmt.Sprintf("Added category: %s", c.Title))
	return cloneCategory(c)
}

// UpdateCategory merges the payload into the category. A nil payload image
// keeps the previous one (partial-update semantics). Unknown ids are a
// silent no-op. Reports whether anything was updated.
func (s *Store) UpdateCategory(actorID, id string, p CategoryPayload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		c := &s.categories[i]
		c.Title = p.Title
		c.Description = p.Description
		if p.Image != nil {
			c.Image = p.Image
		}
		c.UpdatedAt = touched(c.UpdatedAt)
		s.logActivity(actorID, model.ActivityCategoryUpdated, fmt.Sprintf("Updated category: %s", c.Title))
		return true
	}
	return false
}

// DeleteCategory removes the category by id. Products referencing it are
// left untouched: there is no cascade, orphans are tolerated.
func (s *Store) DeleteCategory(actorID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		title := s.categories[i].Title
		s.categories = append(s.categories[:i], s.categories[i+1:]...)
		s.logActivity(actorID, model.ActivityCategoryDeleted, fmt.Sprintf("Deleted category: %s", title))
		return true
	}
	return false
}

// CategoryByID returns a copy of the category, if present.
func (s *Store) CategoryByID(id string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.ID == id {
			return cloneCategory(c), true
		}
	}
	return model.Category{}, false
}

// Categories returns all categories in insertion order.
func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, cloneCategory(c))
	}
	return out
}
