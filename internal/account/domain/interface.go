package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/stellarhive/account-service/internal/account/domain UserRepository

import "context"

// UserRepository is the persistence boundary for accounts. Lookup methods
// return (nil, nil) when no row matches.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]User, int, error)
}
