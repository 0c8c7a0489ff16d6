package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	Get(ctx context.Context, userID string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, userID string, fn func(u *domain.User) error) (domain.User, error)
}
