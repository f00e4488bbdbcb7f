package services

import (
	"fmt"

	"bbshop/internal/models"
	"bbshop/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// RegisterUserRequest is the payload for creating a new account.
type RegisterUserRequest struct {
	Username string      `json:"username" validate:"required,min=3,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	FullName string      `json:"full_name" validate:"omitempty,max=255"`
	Role     models.Role `json:"role" validate:"required"`
}

// UpdateUserRequest carries the mutable fields of an account. Role is
// deliberately absent: it is fixed at registration.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"omitempty,max=255"`
}

// UserService handles business logic for user accounts.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// Register creates a new account with a hashed password. Duplicate
// usernames or emails are rejected.
func (s *UserService) Register(req RegisterUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, models.ErrInvalidArgument)
	}
	if existing, err := s.userRepo.GetByUsername(req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q already taken: %w", req.Username, models.ErrConflict)
	}
	if existing, err := s.userRepo.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %q already registered: %w", req.Email, models.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		Role:     req.Role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a single account. Only the account holder or an admin
// may look it up.
func (s *UserService) GetByID(caller Caller, id string) (*models.User, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return nil, fmt.Errorf("user %s may not read user %s: %w", caller.ID, id, models.ErrForbidden)
	}
	return s.userRepo.GetByID(id)
}

// GetAll retrieves all accounts. Admin only.
func (s *UserService) GetAll(caller Caller) ([]models.User, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("user %s may not list users: %w", caller.ID, models.ErrForbidden)
	}
	return s.userRepo.GetAll()
}

// Update modifies an account's username, email, and full name. Only the
// account holder or an admin may do so; role never changes.
func (s *UserService) Update(caller Caller, id string, req UpdateUserRequest) (*models.User, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return nil, fmt.Errorf("user %s may not update user %s: %w", caller.ID, id, models.ErrForbidden)
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	user.Username = req.Username
	user.Email = req.Email
	user.FullName = req.FullName
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return user, nil
}

// Delete removes an account. Only the account holder or an admin may do so.
func (s *UserService) Delete(caller Caller, id string) error {
	if !caller.IsAdmin() && caller.ID != id {
		return fmt.Errorf("user %s may not delete user %s: %w", caller.ID, id, models.ErrForbidden)
	}
	return s.userRepo.Delete(id)
}
