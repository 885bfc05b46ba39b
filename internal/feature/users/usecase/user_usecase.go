package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"customer_backend/internal/feature/users/domain/entity"
	"customer_backend/internal/shared/pagination"
	"customer_backend/internal/shared/password"
)

// UserRepository abstracts the persistence layer for user entities.
type UserRepository interface {
	// Create persists a new user. It returns ErrEmailAlreadyExists on a duplicate email.
	Create(ctx context.Context, user *entity.User) error

	// FindByID returns ErrUserNotFound when no user has the id.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByEmail returns ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindMatching returns one page of users and the number of users matching q.Filters.
	FindMatching(ctx context.Context, q pagination.Query) ([]entity.User, int64, error)

	// Update overwrites the stored user. It returns ErrUserNotFound or ErrEmailAlreadyExists.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user. It returns ErrUserNotFound when nothing was deleted.
	Delete(ctx context.Context, id uint) error
}

// sortColumns maps the public sort keys to columns.
var sortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"lastLogin": "last_login",
}

// CreateUserInput carries the fields of a user created by an administrator.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string // optional
	Role     entity.Role
}

// UpdateUserInput carries the fields to change; nil means unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *entity.Role
}

// ListUsersFilter narrows a user listing. Empty values are ignored.
type ListUsersFilter struct {
	Name      string // substring
	Email     string // substring
	Role      string // exact
	SortBy    string
	SortOrder string // ASC or DESC
}

type userUsecase struct {
	users UserRepository
}

// NewUserUsecase creates the users usecase.
func NewUserUsecase(users UserRepository) *userUsecase {
	return &userUsecase{users: users}
}

// Create registers a user, hashing the password when one is given.
// The role defaults to user.
func (u *userUsecase) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := &entity.User{
		Name:  strings.TrimSpace(in.Name),
		Email: email,
		Role:  in.Role,
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	if in.Password != "" {
		hashed, err := password.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns one page of users, newest first unless another sort is requested.
func (u *userUsecase) List(ctx context.Context, req *pagination.Request, f ListUsersFilter) (pagination.Result[entity.User], error) {
	req.WhereContains("name", f.Name).
		WhereContains("email", f.Email).
		WhereEqual("role", f.Role)

	if f.SortBy != "" {
		col, ok := sortColumns[f.SortBy]
		if !ok {
			return pagination.Result[entity.User]{}, fmt.Errorf("%w: %s", ErrInvalidSort, f.SortBy)
		}
		req.SortBy(col, !strings.EqualFold(f.SortOrder, "ASC"))
	}

	return pagination.Paginate[entity.User](ctx, u.users, *req)
}

// Get returns the user with the given id.
func (u *userUsecase) Get(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// Update applies the non-nil fields of in to the user.
// Changing the email to one held by another user fails with ErrEmailAlreadyExists.
func (u *userUsecase) Update(ctx context.Context, id uint, in UpdateUserInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			if _, err := u.users.FindByEmail(ctx, email); err == nil {
				return nil, ErrEmailAlreadyExists
			} else if !errors.Is(err, ErrUserNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Password != nil {
		hashed, err := password.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user with the given id.
func (u *userUsecase) Delete(ctx context.Context, id uint) error {
	if _, err := u.users.FindByID(ctx, id); err != nil {
		return err
	}
	return u.users.Delete(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
