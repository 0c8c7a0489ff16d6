package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

type ProfilePatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type AccountService struct {
	users    port.UserRepository
	products port.ProductRepository
	logger   zerolog.Logger
	cost     int
	now      Clock
}

func NewAccountService(users port.UserRepository, products port.ProductRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		products: products,
		logger:   logger.With().Str("component", "accounts").Logger(),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email is empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email[%s] is not valid", email)
	}
	return email, nil
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.User{}, err
	}
	if len(req.Password) < minPasswordLength {
		return domain.User{}, invalid("password must be at least %d characters", minPasswordLength)
	}
	if req.FirstName == "" || req.LastName == "" {
		return domain.User{}, invalid("first and last name are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("users.Create: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks the credentials. Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("users.FindByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AccountService) Get(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("users.Get: %w", err)
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (domain.User, error) {
	var email string
	if patch.Email != nil {
		var err error
		if email, err = normalizeEmail(*patch.Email); err != nil {
			return domain.User{}, err
		}
	}

	user, err := s.users.Update(ctx, userID, func(u *domain.User) error {
		if patch.Email != nil {
			u.Email = email
		}
		if patch.FirstName != nil {
			u.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			u.LastName = *patch.LastName
		}
		if patch.Phone != nil {
			u.Phone = *patch.Phone
		}
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("users.Update: %w", err)
	}

	return user, nil
}

// SaveAddress inserts the address, or replaces the one with the same ID.
func (s *AccountService) SaveAddress(ctx context.Context, userID string, addr domain.Address) (domain.User, error) {
	if addr.Type != domain.AddressShipping && addr.Type != domain.AddressBilling {
		return domain.User{}, invalid("address type[%s] is not valid", addr.Type)
	}
	if missing := addr.MissingFields(); len(missing) > 0 {
		return domain.User{}, invalid("address is missing %s", strings.Join(missing, ", "))
	}
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}

	user, err := s.users.Update(ctx, userID, func(u *domain.User) error {
		u.SaveAddress(addr)
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("users.Update: %w", err)
	}

	return user, nil
}

func (s *AccountService) RemoveAddress(ctx context.Context, userID, addressID string) (domain.User, error) {
	user, err := s.users.Update(ctx, userID, func(u *domain.User) error {
		if !u.RemoveAddress(addressID) {
			return fmt.Errorf("address[%s]: %w", addressID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("users.Update: %w", err)
	}

	return user, nil
}

// ToggleWishlist reports whether the product is on the wishlist afterwards.
func (s *AccountService) ToggleWishlist(ctx context.Context, userID string, productID uuid.UUID) (bool, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return false, fmt.Errorf("products.Get: %w", err)
	}

	var listed bool
	_, err := s.users.Update(ctx, userID, func(u *domain.User) error {
		listed = u.ToggleWishlist(productID)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("users.Update: %w", err)
	}

	return listed, nil
}

// Wishlist resolves the user's wishlist against the catalog; products no longer in the catalog are skipped.
func (s *AccountService) Wishlist(ctx context.Context, userID string) ([]domain.Product, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("users.Get: %w", err)
	}

	products := make([]domain.Product, 0, len(user.Wishlist))
	for _, id := range user.Wishlist {
		p, err := s.products.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("products.Get: %w", err)
		}
		products = append(products, p)
	}

	return products, nil
}
