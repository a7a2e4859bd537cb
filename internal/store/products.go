package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/model"
)

// ProductPayload carries the writable product fields. Nil fields fall back
// to defaults on add and are left untouched on update.
type ProductPayload struct {
	Title             *string
	Description       *string
	Price             *float64
	Quantity          *int
	LowStockThreshold *int
	Images            []model.Image
	CategoryID        *string
}

// AddProduct creates a product, filling any missing field with its
// documented default instead of rejecting the payload. Negative numeric
// values are clamped to zero. The addition is logged to the actor's trail.
func (s *Store) AddProduct(actorID string, p ProductPayload) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	prod := model.Product{
		ID:                uuid.NewString(),
		Title:             model.DefaultProductTitle,
		LowStockThreshold: model.DefaultLowStockThreshold,
		Images:            []model.Image{},
		CreatedBy:         actorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	applyProductPayload(&prod, p)

	s.products = append(s.products, prod)
	s.logActivity(actorID, model.ActivityProductAdded, fmt.Sprintf("Product Added: %s", prod.Title))
	return cloneProduct(prod)
}

// UpdateProduct merges the payload into the product by id. Unknown ids are
// a silent no-op. Reports whether anything was updated.
func (s *Store) UpdateProduct(actorID, id string, p ProductPayload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		prod := &s.products[i]
		applyProductPayload(prod, p)
		prod.UpdatedAt = touched(prod.UpdatedAt)
		s.logActivity(actorID, model.ActivityProductUpdated, fmt.Sprintf("Product Updated: %s", prod.Title))
		return true
	}
	return false
}

// DeleteProduct removes the product by id.
func (s *Store) DeleteProduct(actorID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		title := s.products[i].Title
		s.products = append(s.products[:i], s.products[i+1:]...)
		s.logActivity(actorID, model.ActivityProductDeleted, fmt.Sprintf("Product Deleted: %s", title))
		return true
	}
	return false
}

// ProductByID returns a copy of the product, if present.
func (s *Store) ProductByID(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return cloneProduct(p), true
		}
	}
	return model.Product{}, false
}

// Products returns all products in insertion order.
func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterProducts(func(model.Product) bool { return true })
}

// ProductsByCategory returns products referencing the given category.
func (s *Store) ProductsByCategory(categoryID string) []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterProducts(func(p model.Product) bool { return p.CategoryID == categoryID })
}

// LowStockProducts returns products whose quantity is strictly below their
// low-stock threshold.
func (s *Store) LowStockProducts() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterProducts(model.Product.LowStock)
}

// OrphanedProducts returns products whose CategoryID is set but does not
// resolve to an existing category. Deleting a category never touches its
// products, so orphans are expected; this selector surfaces them.
func (s *Store) OrphanedProducts() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	known := make(map[string]bool, len(s.categories))
	for _, c := range s.categories {
		known[c.ID] = true
	}
	return s.filterProducts(func(p model.Product) bool {
		return p.CategoryID != "" && !known[p.CategoryID]
	})
}

// filterProducts copies products matching keep. Callers must hold a lock.
func (s *Store) filterProducts(keep func(model.Product) bool) []model.Product {
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func applyProductPayload(prod *model.Product, p ProductPayload) {
	if p.Title != nil {
		prod.Title = *p.Title
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = max(*p.Price, 0)
	}
	if p.Quantity != nil {
		prod.Quantity = max(*p.Quantity, 0)
	}
	if p.LowStockThreshold != nil {
		prod.LowStockThreshold = max(*p.LowStockThreshold, 0)
	}
	if p.Images != nil {
		imgs := p.Images
		if len(imgs) > model.MaxProductImages {
			imgs = imgs[:model.MaxProductImages]
		}
		prod.Images = append([]model.Image{}, imgs...)
	}
	if p.CategoryID != nil {
		prod.CategoryID = *p.CategoryID
	}
}
