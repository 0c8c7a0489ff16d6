package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type userRepository struct {
	doc *document[[]domain.User]
}

func NewUser(kv port.KeyValueStore) port.UserRepository {
	return &userRepository{
		doc: newDocument(kv, port.KeyUsers, cloneUsers),
	}
}

func cloneUsers(users []domain.User) []domain.User {
	return cloneSlice(users, domain.User.Clone)
}

func indexOfUser(users []domain.User, match func(u domain.User) bool) int {
	for i := range users {
		if match(users[i]) {
			return i
		}
	}
	return -1
}

func byID(userID string) func(u domain.User) bool {
	return func(u domain.User) bool { return u.ID == userID }
}

func byEmail(email string) func(u domain.User) bool {
	return func(u domain.User) bool { return strings.EqualFold(u.Email, email) }
}

func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return fmt.Errorf("userID is empty")
	}
	if user.Email == "" {
		return fmt.Errorf("email is empty")
	}

	_, err := r.doc.update(ctx, func(users *[]domain.User) (bool, error) {
		if indexOfUser(*users, byEmail(user.Email)) >= 0 {
			return false, fmt.Errorf("email[%s]: %w", user.Email, domain.ErrEmailTaken)
		}
		if indexOfUser(*users, byID(user.ID)) >= 0 {
			return false, fmt.Errorf("user[%s] already exists", user.ID)
		}
		*users = append(*users, user.Clone())
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("doc.update: %w", err)
	}

	return nil
}

func (r *userRepository) find(ctx context.Context, match func(u domain.User) bool, label string) (domain.User, error) {
	users, err := r.doc.read(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("doc.read: %w", err)
	}

	idx := indexOfUser(users, match)
	if idx < 0 {
		return domain.User{}, fmt.Errorf("%s: %w", label, domain.ErrNotFound)
	}

	return users[idx], nil
}

func (r *userRepository) Get(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, fmt.Errorf("userID is empty")
	}
	return r.find(ctx, byID(userID), fmt.Sprintf("user[%s]", userID))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, fmt.Errorf("email is empty")
	}
	return r.find(ctx, byEmail(email), fmt.Sprintf("email[%s]", email))
}

// Update applies fn to the stored user. ID and email uniqueness are preserved.
func (r *userRepository) Update(ctx context.Context, userID string, fn func(u *domain.User) error) (domain.User, error) {
	var updated domain.User

	_, err := r.doc.update(ctx, func(users *[]domain.User) (bool, error) {
		idx := indexOfUser(*users, byID(userID))
		if idx < 0 {
			return false, fmt.Errorf("user[%s]: %w", userID, domain.ErrNotFound)
		}

		u := &(*users)[idx]
		if err := fn(u); err != nil {
			return false, err
		}
		u.ID = userID

		for i := range *users {
			if i != idx && strings.EqualFold((*users)[i].Email, u.Email) {
				return false, fmt.Errorf("email[%s]: %w", u.Email, domain.ErrEmailTaken)
			}
		}

		updated = u.Clone()
		return true, nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("doc.update: %w", err)
	}

	return updated, nil
}
