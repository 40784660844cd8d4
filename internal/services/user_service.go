// internal/services/user_service.go
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store"
)

type UserService struct {
	users store.UserStore
}

type CreateUserRequest struct {
	Email string          `json:"email" validate:"required,email,max=255"`
	Name  string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Role  models.UserRole `json:"role,omitempty" validate:"omitempty,oneof=customer admin"`
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		Addresses: models.Addresses{},
	}
	if user.Role == "" {
		user.Role = models.UserRoleCustomer
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, storeError("create user", "user", err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, storeError("get user", "user", err)
	}
	return user, nil
}

func (s *UserService) AddAddress(ctx context.Context, userID uuid.UUID, address *models.Address) (*models.User, error) {
	if err := validate(address); err != nil {
		return nil, err
	}
	return s.rewriteAddresses(ctx, userID, func(list models.Addresses) (models.Addresses, error) {
		return append(list, *address), nil
	})
}

func (s *UserService) UpdateAddress(ctx context.Context, userID uuid.UUID, index int, address *models.Address) (*models.User, error) {
	if err := validate(address); err != nil {
		return nil, err
	}
	return s.rewriteAddresses(ctx, userID, func(list models.Addresses) (models.Addresses, error) {
		if index < 0 || index >= len(list) {
			return nil, &NotFoundError{Resource: "address"}
		}
		list[index] = *address
		return list, nil
	})
}

func (s *UserService) RemoveAddress(ctx context.Context, userID uuid.UUID, index int) (*models.User, error) {
	return s.rewriteAddresses(ctx, userID, func(list models.Addresses) (models.Addresses, error) {
		if index < 0 || index >= len(list) {
			return nil, &NotFoundError{Resource: "address"}
		}
		return append(list[:index:index], list[index+1:]...), nil
	})
}

// rewriteAddresses loads the address list, applies edit and stores the whole
// list back. Concurrent edits to the same user are last write wins.
func (s *UserService) rewriteAddresses(ctx context.Context, userID uuid.UUID, edit func(models.Addresses) (models.Addresses, error)) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError("get user", "user", err)
	}

	current := make(models.Addresses, len(user.Addresses))
	copy(current, user.Addresses)
	next, err := edit(current)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.ReplaceAddresses(ctx, userID, next)
	if err != nil {
		return nil, storeError("replace addresses", "user", err)
	}
	return updated, nil
}
