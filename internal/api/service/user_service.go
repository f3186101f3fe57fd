package service

import (
	"context"
	"errors"
	"fmt"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidRole  = apperr.New(apperr.KindValidation, "unknown role")
	ErrUserConflict = apperr.New(apperr.KindConflict, "username or email already in use")
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error)
	UpdateByUsername(ctx context.Context, username string, in dto.UpdateUserDTO) (*dto.UserResponse, error)
	DeleteByUsername(ctx context.Context, username string) error
	// UpdateSelf applies a partial update to the actor's own profile. A
	// non-admin actor's role change is silently dropped: the write
	// succeeds, the stored role stays as is.
	UpdateSelf(ctx context.Context, actor *models.User, in dto.UpdateUserDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.FromModelToUserResponse(&users[i]))
	}
	return &dto.PaginatedUserResponse{
		Data:       resp,
		Pagination: dto.NewPagination(total, page, pageSize),
	}, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error) {
	if in.Username == "me" {
		return nil, ErrReservedUsername
	}
	role := models.RoleUser
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		role = *in.Role
	}
	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Role:      role,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUserConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdateByUsername(ctx context.Context, username string, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if in.Role != nil && !models.ValidRole(*in.Role) {
		return nil, ErrInvalidRole
	}
	applyUserUpdate(user, in, true)
	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUserConflict
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}

func (s *userService) UpdateSelf(ctx context.Context, actor *models.User, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if in.Role != nil && !models.ValidRole(*in.Role) {
		return nil, ErrInvalidRole
	}
	applyUserUpdate(user, in, user.IsAdmin())
	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUserConflict
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	resp := dto.FromModelToUserResponse(user)
	return &resp, nil
}

// applyUserUpdate copies non-nil fields onto the user. The role field is
// only applied when allowRole is set; otherwise it is dropped without
// error, which is the documented self-profile quirk.
func applyUserUpdate(user *models.User, in dto.UpdateUserDTO, allowRole bool) {
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = in.FirstName
	}
	if in.LastName != nil {
		user.LastName = in.LastName
	}
	if in.Bio != nil {
		user.Bio = in.Bio
	}
	if in.Role != nil && allowRole {
		user.Role = *in.Role
	}
}
