package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kvenegas/tasks-api/internal/domain/entity"
	repo "github.com/kvenegas/tasks-api/internal/domain/repository"
	"github.com/kvenegas/tasks-api/pkg/helpers"
	"github.com/kvenegas/tasks-api/pkg/mailer"
)

// UserService implements registration, login and profile management.
// Tokens embed {id, role}; passwords are bcrypt-hashed before they ever
// reach the repository.
type UserService struct {
	Repo    repo.UserRepository
	JWT     *helpers.JWTManager
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger
	AppName string
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger, appName string) *UserService {
	return &UserService{Repo: r, JWT: jwt, Pub: pub, Logger: logger, AppName: appName}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

// Register creates a user with a hashed password and issues a token.
// The email is normalized to lowercase; a case-insensitive duplicate
// yields ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, "", err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}

	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}

	s.publishWelcome(ctx, u)
	return u, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password collapse into the same ErrInvalidCredentials so callers cannot
// enumerate accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.Generate(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateProfile applies only the supplied fields. A payload with no fields
// is ErrEmptyUpdate; a new email colliding with another account is
// ErrEmailTaken. A supplied password is always re-hashed.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	if in.Name == nil && in.Email == nil && in.Password == nil {
		return nil, ErrEmptyUpdate
	}

	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != u.Email {
			if other, err := s.Repo.GetByEmail(ctx, email); err == nil && other.ID != u.ID {
				return nil, ErrEmailTaken
			} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
			u.Email = email
		}
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// publishWelcome queues a welcome email. Best-effort: a missing or failing
// broker must never fail registration.
func (s *UserService) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name, "AppName": s.AppName},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email publish failed")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
