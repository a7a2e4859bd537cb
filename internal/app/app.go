// Package app wires the store, validator and persistence gateway into the
// intent surface the UI layer calls. Every successful mutation schedules an
// asynchronous snapshot save; the caller never waits on storage.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/imaging"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/persist"
	"github.com/erazemk/zaloga/internal/store"
	"github.com/erazemk/zaloga/internal/validate"
	"github.com/erazemk/zaloga/internal/vault"
)

// App owns the process-lifetime state and exposes the mutation intents and
// selectors. Create one per vault with New; it is ready as soon as New
// returns, and not before.
type App struct {
	store   *store.Store
	gateway *persist.Gateway
	secret  string
	log     *zap.Logger
}

// New restores the store from the vault, validates any persisted session
// and returns the ready-to-use app. Restore happens synchronously so no
// consumer can observe a half-seeded store.
func New(ctx context.Context, v *vault.Vault, log *zap.Logger) (*App, error) {
	secret, err := v.Secret(ctx, "session_token")
	if err != nil {
		return nil, fmt.Errorf("loading token secret: %w", err)
	}

	gw := persist.NewGateway(v, log)
	st := store.New()
	st.Restore(gw.Load(ctx))

	a := &App{store: st, gateway: gw, secret: secret, log: log}
	a.resumeSession()
	return a, nil
}

// resumeSession drops the persisted session unless its token still
// validates for the persisted user.
func (a *App) resumeSession() {
	token := a.store.SessionToken()
	user, signedIn := a.store.CurrentUser()
	if !signedIn && token == "" {
		return
	}

	claims, err := auth.ValidateToken(a.secret, token)
	if err != nil || !signedIn || claims.UserID != user.ID {
		a.log.Info("persisted session no longer valid, signing out", zap.Error(err))
		a.store.ClearSession()
		a.persist()
	}
}

// Register validates and sanitizes a registration form, creates the user
// and signs them in. A non-empty Errors result means nothing was applied.
func (a *App) Register(reg validate.Registration, picture *model.Image) (model.User, validate.Errors, error) {
	reg.Username = validate.SanitizeUsername(reg.Username)
	reg.Email = validate.SanitizeEmail(reg.Email)
	reg.PhoneNumber = validate.SanitizePhone(reg.PhoneNumber)

	if errs := validate.All(reg, a.store.Users()); !errs.Valid() {
		return model.User{}, errs, nil
	}

	if picture != nil {
		normalized, err := imaging.Normalize(*picture)
		if err != nil {
			return model.User{}, nil, fmt.Errorf("processing profile picture: %w", err)
		}
		picture = &normalized
	}

	user := a.store.RegisterUser(reg.Username, reg.Email, reg.PhoneNumber, reg.Password, picture)
	if err := a.openSession(user); err != nil {
		return model.User{}, nil, err
	}
	a.persist()
	a.log.Debug("user registered", zap.String("user_id", user.ID))
	return user, nil, nil
}

// SignIn resolves the user by email and compares the credential. Failures
// come back as field errors, matching the form's reporting model.
func (a *App) SignIn(email, password string) (model.User, validate.Errors, error) {
	email = validate.SanitizeEmail(email)
	if errs := validate.Credentials(email, password); !errs.Valid() {
		return model.User{}, errs, nil
	}

	user, err := a.store.Authenticate(email, password)
	switch {
	case errors.Is(err, store.ErrUnknownEmail):
		return model.User{}, validate.Errors{"email": validate.MsgUserNotFound}, nil
	case errors.Is(err, store.ErrWrongPassword):
		return model.User{}, validate.Errors{"password": validate.MsgIncorrectPassword}, nil
	case err != nil:
		return model.User{}, nil, err
	}

	if err := a.openSession(user); err != nil {
		return model.User{}, nil, err
	}
	a.persist()
	return user, nil, nil
}

func (a *App) openSession(user model.User) error {
	token, err := auth.MintToken(a.secret, user.ID, user.Username)
	if err != nil {
		return fmt.Errorf("minting session token: %w", err)
	}
	a.store.SetSession(user, token)
	return nil
}

// SignOut clears the session slot.
func (a *App) SignOut() {
	a.store.ClearSession()
	a.persist()
}

// AddCategory creates a category owned by the signed-in user.
func (a *App) AddCategory(p store.CategoryPayload) (model.Category, error) {
	if err := a.normalizeCategoryImage(&p); err != nil {
		return model.Category{}, err
	}
	cat := a.store.AddCategory(a.actorID(), p)
	a.persist()
	return cat, nil
}

// UpdateCategory merges the payload into the category; an omitted image
// keeps the stored one. Reports whether the category existed.
func (a *App) UpdateCategory(id string, p store.CategoryPayload) (bool, error) {
	if err := a.normalizeCategoryImage(&p); err != nil {
		return false, err
	}
	ok := a.store.UpdateCategory(a.actorID(), id, p)
	if ok {
		a.persist()
	}
	return ok, nil
}

// DeleteCategory removes the category. Its products are left in place.
func (a *App) DeleteCategory(id string) bool {
	ok := a.store.DeleteCategory(a.actorID(), id)
	if ok {
		a.persist()
	}
	return ok
}

// AddProduct creates a product, applying defaults for missing fields.
func (a *App) AddProduct(p store.ProductPayload) (model.Product, error) {
	imgs, err := imaging.NormalizeAll(p.Images)
	if err != nil {
		return model.Product{}, err
	}
	p.Images = imgs
	prod := a.store.AddProduct(a.actorID(), p)
	a.persist()
	return prod, nil
}

// UpdateProduct merges the payload into the product by id.
func (a *App) UpdateProduct(id string, p store.ProductPayload) (bool, error) {
	imgs, err := imaging.NormalizeAll(p.Images)
	if err != nil {
		return false, err
	}
	p.Images = imgs
	ok := a.store.UpdateProduct(a.actorID(), id, p)
	if ok {
		a.persist()
	}
	return ok, nil
}

// DeleteProduct removes the product by id.
func (a *App) DeleteProduct(id string) bool {
	ok := a.store.DeleteProduct(a.actorID(), id)
	if ok {
		a.persist()
	}
	return ok
}

// UpdateProfile merges profile changes into the signed-in user.
func (a *App) UpdateProfile(updates store.ProfileUpdates) {
	a.store.UpdateUserProfile(a.actorID(), updates)
	a.persist()
}

// UpdateProfilePicture replaces the signed-in user's picture.
func (a *App) UpdateProfilePicture(img model.Image) error {
	normalized, err := imaging.Normalize(img)
	if err != nil {
		return fmt.Errorf("processing profile picture: %w", err)
	}
	a.store.UpdateProfilePicture(a.actorID(), &normalized)
	a.persist()
	return nil
}

// Selectors.

func (a *App) CurrentUser() (model.User, bool) { return a.store.CurrentUser() }

func (a *App) UserByID(id string) (model.User, bool) { return a.store.UserByID(id) }

func (a *App) Users() []model.User { return a.store.Users() }

func (a *App) Categories() []model.Category { return a.store.Categories() }

func (a *App) CategoryByID(id string) (model.Category, bool) {
	return a.store.CategoryByID(id)
}

func (a *App) Products() []model.Product { return a.store.Products() }

func (a *App) ProductByID(id string) (model.Product, bool) {
	return a.store.ProductByID(id)
}

func (a *App) ProductsByCategory(categoryID string) []model.Product {
	return a.store.ProductsByCategory(categoryID)
}

func (a *App) LowStockProducts() []model.Product { return a.store.LowStockProducts() }

func (a *App) OrphanedProducts() []model.Product { return a.store.OrphanedProducts() }

func (a *App) Summarize() store.Summary { return a.store.Summarize() }

// Flush waits for pending background saves. Call before process exit.
func (a *App) Flush() {
	a.gateway.Flush()
}

func (a *App) actorID() string {
	if user, ok := a.store.CurrentUser(); ok {
		return user.ID
	}
	return ""
}

func (a *App) normalizeCategoryImage(p *store.CategoryPayload) error {
	if p.Image == nil {
		return nil
	}
	normalized, err := imaging.Normalize(*p.Image)
	if err != nil {
		return fmt.Errorf("processing category image: %w", err)
	}
	p.Image = &normalized
	return nil
}

// persist schedules a background snapshot save of the current state.
func (a *App) persist() {
	a.gateway.SaveAsync(a.store.Snapshot())
}
