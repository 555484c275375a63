package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"
	"vivacondo-api/internal/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login, logout and token validation.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error

	// Authenticate resolves a bearer token to its user. Returns
	// (nil, nil) for unknown or expired tokens; the caller decides what
	// a missing identity means.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type authService struct {
	users    repository.UsersRepository
	condos   repository.CondominiumsRepository
	sessions *session.Store
	logger   *zap.Logger
}

func NewAuthService(users repository.UsersRepository, condos repository.CondominiumsRepository, sessions *session.Store, logger *zap.Logger) AuthService {
	return &authService{
		users:    users,
		condos:   condos,
		sessions: sessions,
		logger:   logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`

	// Client metadata, for logs only.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"` // seconds
	User      LoginUser `json:"user"`
}

type LoginUser struct {
	ID                      int64   `json:"id"`
	Name                    string  `json:"name"`
	LastName                string  `json:"last_name"`
	Email                   string  `json:"email"`
	Role                    string  `json:"role"`
	CondominiumID           *int64  `json:"condominium_id"`
	LastViewedCondominiumID *int64  `json:"last_viewed_condominium_id"`
	LinkedCondominiumIDs    []int64 `json:"linked_condominium_ids"`
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		s.warnLogin(req, 0, "missing_credentials")
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	if user == nil {
		s.warnLogin(req, 0, "unknown_email")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		s.warnLogin(req, user.ID, "password_mismatch")
		return nil, ErrInvalidCredentials
	}

	if !user.AccountStatus {
		s.warnLogin(req, user.ID, "account_disabled")
		return nil, ErrAccountDisabled
	}

	// suporte is not tied to any condominium; everyone else needs at
	// least one active one to have anything to log into.
	if user.Role != domain.RoleSuporte {
		ok, err := s.hasActiveCondominium(ctx, user)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.warnLogin(req, user.ID, "no_active_condominium")
			return nil, ErrNoActiveCondominium
		}
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last_login_at",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}

	token, ttl, err := s.sessions.Create(ctx, user.ID, req.Remember)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user login successful",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
		zap.Bool("remember", req.Remember),
		zap.String("ip_address", req.IPAddress),
		zap.String("user_agent", req.UserAgent),
		zap.Time("login_time", time.Now()),
	)

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(ttl / time.Second),
		User:      loginUserFrom(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	sess, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}

	user, err := s.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user %d: %w", sess.UserID, err)
	}
	if user == nil || !user.AccountStatus {
		// The account vanished or was disabled after login; the token
		// stops working immediately.
		return nil, nil
	}
	return user, nil
}

// hasActiveCondominium checks that the user has somewhere to log into.
// Owners scan their linked set; single-bound roles check the bound id.
func (s *authService) hasActiveCondominium(ctx context.Context, user *domain.User) (bool, error) {
	now := time.Now()

	check := func(id int64) (bool, error) {
		condo, err := s.condos.FindCondominium(ctx, id)
		if err != nil {
			return false, fmt.Errorf("failed to load condominium %d: %w", id, err)
		}
		return condo != nil && condo.IsActive && !condo.Expired(now), nil
	}

	if authz.Classify(user.Role).OwnsMultipleTenants() {
		for _, id := range user.LinkedCondominiumIDs {
			ok, err := check(id)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	if !user.CondominiumID.Valid {
		return false, nil
	}
	return check(user.CondominiumID.Int64)
}

func (s *authService) warnLogin(req LoginRequest, userID int64, reason string) {
	s.logger.Warn("user login failed",
		zap.Int64("user_id", userID),
		zap.String("ip_address", req.IPAddress),
		zap.String("user_agent", req.UserAgent),
		zap.String("reason", reason),
	)
}

func loginUserFrom(u *domain.User) LoginUser {
	out := LoginUser{
		ID:                   u.ID,
		Name:                 u.Name,
		LastName:             u.LastName,
		Email:                u.Email,
		Role:                 u.Role,
		LinkedCondominiumIDs: u.LinkedCondominiumIDs,
	}
	if u.CondominiumID.Valid {
		id := u.CondominiumID.Int64
		out.CondominiumID = &id
	}
	if u.LastViewedCondominiumID.Valid {
		id := u.LastViewedCondominiumID.Int64
		out.LastViewedCondominiumID = &id
	}
	return out
}
