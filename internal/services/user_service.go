package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/merrylab/timeline/internal/mailer"
	"github.com/merrylab/timeline/internal/models"
	"github.com/merrylab/timeline/internal/repository"
	"github.com/merrylab/timeline/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken    = errors.New("username already exists")
	ErrCannotDeleteSelf = errors.New("you cannot delete your own account")
)

// UserService handles admin-side user management: provisioning,
// updates, and deletion with referential cleanup.
type UserService struct {
	userRepo repository.UserRepository
	mailer   mailer.Mailer
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, m mailer.Mailer) *UserService {
	return &UserService{
		userRepo: userRepo,
		mailer:   m,
	}
}

// CreateUserInput represents input for provisioning a user
type CreateUserInput struct {
	Username   string
	Email      string
	FullName   string
	Department string
	Position   string
	IsAdmin    bool
}

// UpdateUserInput is the admin patch for a user account.
type UpdateUserInput struct {
	Username   *string
	Email      *string
	FullName   *string
	Department *string
	Position   *string
	IsAdmin    *bool
	IsActive   *bool
	Password   *string
}

// CreateUser provisions an account with a generated temporary password
// and emails it to the new user. The welcome mail is best effort: a
// transport failure is logged but does not fail provisioning.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Department:   input.Department,
		Position:     input.Position,
		IsAdmin:      input.IsAdmin,
		IsActive:     true,
		ProfileImage: "default.png",
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendWelcomeEmail(user, tempPassword); err != nil {
		log.Printf("Error sending welcome email: %v", err)
	}

	return user, nil
}

// UpdateUser applies an admin patch, re-checking uniqueness for any
// changed username or email.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Username != nil && *input.Username != user.Username {
		if _, err := s.userRepo.FindByUsername(*input.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		user.Username = *input.Username
	}

	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*input.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *input.Email
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Position != nil {
		user.Position = *input.Position
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user. Self-deletion is rejected. The user's
// assigned tasks survive with a null assignee and their notifications
// are removed, atomically.
func (s *UserService) DeleteUser(id uint64, actor models.Actor) error {
	if id == actor.ID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.DeleteWithCleanup(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ListUsers lists users, optionally filtered by department.
func (s *UserService) ListUsers(department string) ([]models.User, error) {
	users, err := s.userRepo.List(department)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) sendWelcomeEmail(user *models.User, tempPassword string) error {
	body := fmt.Sprintf(`<h2>Welcome to Timeline!</h2>
<p>Hello %s,</p>
<p>Your account has been created successfully. You can now log in using the following credentials:</p>
<p><strong>Username:</strong> %s<br>
<strong>Temporary Password:</strong> %s</p>
<p>Please change your password after the first login.</p>
<p>Thank you,<br>
The Timeline Admin Team</p>`, user.DisplayName(), user.Username, tempPassword)

	return s.mailer.Send(user.Email, "Welcome to Timeline", body)
}
