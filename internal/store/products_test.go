package store

import (
	"testing"

	"github.com/erazemk/zaloga/internal/model"
)

func TestAddProductDefaults(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")

	prod := s.AddProduct(user.ID, ProductPayload{})
	if prod.Title != model.DefaultProductTitle {
		t.Errorf("expected default title, got %q", prod.Title)
	}
	if prod.Price != 0 || prod.Quantity != 0 {
		t.Errorf("expected zero price and quantity, got %v/%v", prod.Price, prod.Quantity)
	}
	if prod.LowStockThreshold != model.DefaultLowStockThreshold {
		t.Errorf("expected default threshold, got %d", prod.LowStockThreshold)
	}
	if prod.Images == nil || len(prod.Images) != 0 {
		t.Errorf("expected empty images, got %v", prod.Images)
	}
	if prod.CreatedBy != user.ID {
		t.Errorf("expected createdBy %s, got %s", user.ID, prod.CreatedBy)
	}
}

func TestAddProductClampsNegatives(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")

	price := -10.0
	qty := -3
	threshold := -1
	prod := s.AddProduct(user.ID, ProductPayload{Price: &price, Quantity: &qty, LowStockThreshold: &threshold})

	if prod.Price != 0 || prod.Quantity != 0 || prod.LowStockThreshold != 0 {
		t.Errorf("expected negative values clamped to zero, got %+v", prod)
	}
}

func TestAddProductCapsImages(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")

	imgs := make([]model.Image, model.MaxProductImages+2)
	for i := range imgs {
		imgs[i] = model.Image{URI: "file:///img"}
	}
	prod := s.AddProduct(user.ID, ProductPayload{Images: imgs})

	if len(prod.Images) != model.MaxProductImages {
		t.Errorf("expected %d images, got %d", model.MaxProductImages, len(prod.Images))
	}
}

func TestUpdateProduct(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")
	title := "Pen"
	prod := s.AddProduct(user.ID, ProductPayload{Title: &title})

	qty := 7
	if !s.UpdateProduct(user.ID, prod.ID, ProductPayload{Quantity: &qty}) {
		t.Fatal("expected update to apply")
	}

	got, _ := s.ProductByID(prod.ID)
	if got.Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", got.Quantity)
	}
	if got.Title != "Pen" {
		t.Error("expected omitted fields to be untouched")
	}
	if !got.UpdatedAt.After(prod.UpdatedAt) {
		t.Error("expected updatedAt to strictly increase")
	}

	if s.UpdateProduct(user.ID, "missing", ProductPayload{Quantity: &qty}) {
		t.Error("expected unknown id to be a no-op")
	}
}

func TestDeleteProduct(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")
	title := "Pen"
	prod := s.AddProduct(user.ID, ProductPayload{Title: &title})

	if !s.DeleteProduct(user.ID, prod.ID) {
		t.Fatal("expected delete to apply")
	}
	if _, ok := s.ProductByID(prod.ID); ok {
		t.Error("expected product to be removed")
	}
	if s.DeleteProduct(user.ID, prod.ID) {
		t.Error("expected second delete to be a no-op")
	}
}

func TestLowStockProducts(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")

	title := "Pen"
	price := 10.0
	qty := 3
	threshold := 5
	catID := "c1"
	prod := s.AddProduct(user.ID, ProductPayload{
		Title: &title, Price: &price, Quantity: &qty,
		LowStockThreshold: &threshold, CategoryID: &catID,
	})

	low := s.LowStockProducts()
	if len(low) != 1 || low[0].ID != prod.ID {
		t.Fatalf("expected product below threshold to be low stock, got %v", low)
	}

	restocked := 10
	s.UpdateProduct(user.ID, prod.ID, ProductPayload{Quantity: &restocked})
	if low := s.LowStockProducts(); len(low) != 0 {
		t.Errorf("expected no low-stock products after restock, got %v", low)
	}
}

func TestProductsByCategory(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")
	cat := s.AddCategory(user.ID, CategoryPayload{Title: "Pens"})

	title := "Pen"
	s.AddProduct(user.ID, ProductPayload{Title: &title, CategoryID: &cat.ID})
	other := "Notebook"
	otherCat := "c-other"
	s.AddProduct(user.ID, ProductPayload{Title: &other, CategoryID: &otherCat})

	got := s.ProductsByCategory(cat.ID)
	if len(got) != 1 || got[0].Title != "Pen" {
		t.Errorf("expected only products of category %s, got %v", cat.ID, got)
	}
}

func TestDeleteCategoryLeavesProductsUntouched(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")
	cat := s.AddCategory(user.ID, CategoryPayload{Title: "Pens"})

	title := "Pen"
	prod := s.AddProduct(user.ID, ProductPayload{Title: &title, CategoryID: &cat.ID})

	s.DeleteCategory(user.ID, cat.ID)

	got, ok := s.ProductByID(prod.ID)
	if !ok {
		t.Fatal("expected product to survive category deletion")
	}
	if got.CategoryID != cat.ID {
		t.Error("expected product's category reference to be untouched")
	}

	orphans := s.OrphanedProducts()
	if len(orphans) != 1 || orphans[0].ID != prod.ID {
		t.Errorf("expected orphan selector to flag the product, got %v", orphans)
	}
}

func TestOrphanedProductsIgnoresUncategorized(t *testing.T) {
	s := New()
	user := seedUser(s, "alice")

	s.AddProduct(user.ID, ProductPayload{})
	if orphans := s.OrphanedProducts(); len(orphans) != 0 {
		t.Errorf("expected products without a category not to count as orphans, got %v", orphans)
	}
}
