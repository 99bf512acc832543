package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/pkg/auth"
	"github.com/d60-Lab/marketplace/pkg/logger"
)

// UserInput 新建用户
type UserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserUpdate 部分更新，nil 字段不变
type UserUpdate struct {
	Name   *string
	Email  *string
	Role   *string
	Status *string
}

// LoginInput 邮箱或用户名二选一
type LoginInput struct {
	Email    string
	Name     string
	Password string
}

// LoginResult 登录结果
type LoginResult struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type UserService interface {
	Create(ctx context.Context, in UserInput) (*model.User, error)
	Get(ctx context.Context, userID int64) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, userID int64, in UserUpdate) (*model.User, error)
	Delete(ctx context.Context, userID int64) error
	ResetPassword(ctx context.Context, userID int64, password string) error
	// Login 校验密码并签发令牌；roles 为空表示不限角色
	Login(ctx context.Context, in LoginInput, roles ...string) (*LoginResult, error)
}

type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager) UserService {
	return &userService{userRepo: userRepo, tokens: tokens}
}

func (s *userService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	in.Name = sanitize(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, newError(ErrMissingInput, "email & password required")
	}
	if in.Role == "" {
		in.Role = model.RoleBuyer
	}
	if !model.ValidRole(in.Role) {
		return nil, newError(ErrMissingInput, "invalid role")
	}
	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, storageError("create user", err)
	}
	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storageError("create user", err)
	}
	logger.Info("user created", zap.Int64("user_id", user.UserID), zap.String("role", user.Role))
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, storageError("get user", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storageError("list users", err)
	}
	if users == nil {
		users = []*model.User{}
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, userID int64, in UserUpdate) (*model.User, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = sanitize(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, newError(ErrMissingInput, "email required")
		}
		if err := s.ensureEmailFree(ctx, email, userID); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if in.Role != nil {
		if !model.ValidRole(*in.Role) {
			return nil, newError(ErrMissingInput, "invalid role")
		}
		fields["role"] = *in.Role
	}
	if in.Status != nil {
		if !model.ValidUserStatus(*in.Status) {
			return nil, newError(ErrMissingInput, "invalid status")
		}
		fields["status"] = *in.Status
	}
	if len(fields) == 0 {
		return nil, newError(ErrMissingInput, "nothing to update")
	}

	if err := s.userRepo.Update(ctx, userID, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, storageError("update user", err)
	}
	return s.Get(ctx, userID)
}

func (s *userService) Delete(ctx context.Context, userID int64) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "User not found")
		}
		return storageError("delete user", err)
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return newError(ErrMissingInput, "password required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return storageError("reset password", err)
	}
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"password_hash": hash}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "User not found")
		}
		return storageError("reset password", err)
	}
	return nil
}

func (s *userService) Login(ctx context.Context, in LoginInput, roles ...string) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if (email == "" && name == "") || in.Password == "" {
		return nil, newError(ErrMissingInput, "email or name and password required")
	}

	user, err := s.userRepo.GetByLogin(ctx, email, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return nil, storageError("login", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, in.Password); err != nil {
		return nil, newError(ErrUnauthorized, "Invalid credentials")
	}
	if user.Status != model.UserStatusActive {
		return nil, newError(ErrForbidden, "Account disabled")
	}
	if !roleAllowed(user.Role, roles) {
		return nil, newError(ErrForbidden, "Role not permitted")
	}

	token, err := s.tokens.Issue(user.UserID, user.Role)
	if err != nil {
		return nil, storageError("login", err)
	}
	logger.Info("user logged in", zap.Int64("user_id", user.UserID), zap.String("role", user.Role))
	return &LoginResult{Token: token, ID: user.UserID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, self int64) error {
	existing, err := s.userRepo.GetByLogin(ctx, email, "")
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return storageError("check email", err)
	case existing.UserID != self:
		return newError(ErrConflict, "Email already registered")
	}
	return nil
}

func roleAllowed(role string, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
