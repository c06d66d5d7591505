package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	favoriteRepo "marche/database/repository/favorite"
	userRepo "marche/database/repository/user"
	"marche/models"
	"marche/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func NewDefaultUserService(repo userRepo.UserRepository, favorites favoriteRepo.FavoriteRepository, logger *zap.Logger) (*DefaultUserService, error) {
	if repo == nil || favorites == nil || logger == nil {
		return nil, fmt.Errorf("user service initialization error: missing dependency")
	}
	return &DefaultUserService{Repo: repo, Favorites: favorites, Logger: logger, TokenTTL: 24 * time.Hour}, nil
}

func (s *DefaultUserService) load(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("user_not_found", "user not found")
	}
	return u, err
}

func (s *DefaultUserService) DemoLogin(ctx context.Context, req models.DemoLoginRequest) (*AuthResponse, error) {
	var (
		u   *models.User
		err error
	)
	switch {
	case req.UserID != "":
		u, err = s.Repo.GetByID(ctx, req.UserID)
	case req.Email != "":
		u, err = s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	default:
		return nil, utils.NewValidationError("missing_fields", "userId or email is required")
	}
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.NewNotFoundError("user_not_found", "user not found")
	}
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(u.ID, string(u.Role), s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	s.Logger.Info("demo login", zap.String("userId", u.ID), zap.String("role", string(u.Role)))
	return &AuthResponse{ID: u.ID, Token: token, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

func (s *DefaultUserService) GetMe(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.load(ctx, actor.UserID)
}

func validRole(r models.Role) bool {
	switch r {
	case models.RoleAdmin, models.RoleOrganizer, models.RoleProvider, models.RoleMember:
		return true
	}
	return false
}

func (s *DefaultUserService) Create(ctx context.Context, actor models.Actor, req models.CreateUserRequest) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewForbiddenError("admin_only", "only admins can create users")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.NewValidationError("name_required", "name is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, utils.NewValidationError("invalid_email", "email is not valid")
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	if !validRole(req.Role) {
		return nil, utils.NewValidationError("invalid_role", "role must be admin, organizer, provider or member")
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:                       uuid.New().String(),
		Name:                     name,
		Email:                    strings.ToLower(addr.Address),
		Role:                     req.Role,
		LineNotificationSettings: models.DefaultLineNotificationSettings(),
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.NewConflictError("email_taken", "a user with this email already exists")
		}
		return nil, err
	}
	s.Logger.Info("user created", zap.String("userId", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *DefaultUserService) List(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewForbiddenError("admin_only", "only admins can list users")
	}
	return s.Repo.List(ctx)
}

func (s *DefaultUserService) update(ctx context.Context, actor models.Actor, mutate func(*models.User)) (*models.User, error) {
	u, err := s.load(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	mutate(u)
	u.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LinkLine stores the caller's LINE user id. An empty id unlinks.
func (s *DefaultUserService) LinkLine(ctx context.Context, actor models.Actor, lineUserID string) (*models.User, error) {
	lineUserID = strings.TrimSpace(lineUserID)
	return s.update(ctx, actor, func(u *models.User) {
		u.LineUserID = lineUserID
		u.IsLineLinked = lineUserID != ""
	})
}

func (s *DefaultUserService) UpdateNotificationSettings(ctx context.Context, actor models.Actor, settings models.LineNotificationSettings) (*models.User, error) {
	return s.update(ctx, actor, func(u *models.User) {
		u.LineNotificationSettings = settings
	})
}

func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, actor models.Actor, token string) error {
	_, err := s.update(ctx, actor, func(u *models.User) {
		u.FCMToken = strings.TrimSpace(token)
	})
	return err
}
