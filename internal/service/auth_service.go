package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/config"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/repository"
	"github.com/DineshPrabhakaran22/Zerodha1/lib/errs"
	"github.com/DineshPrabhakaran22/Zerodha1/lib/hashcrypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMissingFields = errors.New("all fields are required")

type AuthService interface {
	Signup(ctx context.Context, in models.SignupInput) (*models.User, string, error)
	Login(ctx context.Context, in models.LoginInput) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*models.User, error)
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	TokenTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	usersRepo    repository.UsersRepository
	sessionsRepo repository.SessionsRepository
	cfg          config.SecConfig
	now          func() time.Time
}

func NewAuthService(db *gorm.DB, cfg config.SecConfig) AuthService {
	return &authService{
		db:           db,
		usersRepo:    repository.NewUsersRepository(db),
		sessionsRepo: repository.NewSessionsRepository(db),
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *authService) TokenTTL() time.Duration { return s.cfg.TokenTTL }

// Signup creates the user and opens a session for it.
func (s *authService) Signup(ctx context.Context, in models.SignupInput) (*models.User, string, error) {
	const op = "service.auth.Signup"

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", ErrMissingFields
	}

	var user *models.User
	var token string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUsers := repository.NewUsersRepository(tx)
		txSessions := repository.NewSessionsRepository(tx)

		exists, err := txUsers.ExistsUser(ctx, in.Username, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return errs.ErrAlreadyExists
		}

		hashed, err := hashcrypto.HashPwd([]byte(in.Password))
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user = &models.User{
			Username: in.Username,
			Name:     in.Name,
			Email:    in.Email,
			Password: string(hashed),
		}
		if err := txUsers.CreateUser(ctx, user); err != nil {
			return err
		}

		token, err = s.openSession(ctx, txSessions, user)
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return user, token, nil
}

func (s *authService) Login(ctx context.Context, in models.LoginInput) (*models.User, string, error) {
	const op = "service.auth.Login"

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.usersRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, "", errs.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	if err := hashcrypto.ComparePwd([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, "", errs.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, s.sessionsRepo, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return user, token, nil
}

// Logout revokes the session behind token. Unknown tokens are not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.sessionsRepo.DeleteByTokenHash(ctx, hashcrypto.HashToken(token))
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("service.auth.Logout: %w", err)
	}
	return nil
}

// Verify returns the user of a signed, unexpired and unrevoked token.
func (s *authService) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errs.ErrInvalidToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, errs.ErrInvalidToken
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, errs.ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errs.ErrInvalidToken
	}

	session, err := s.sessionsRepo.GetByTokenHash(ctx, hashcrypto.HashToken(token))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidToken
		}
		return nil, err
	}
	if session.UserID != userID || s.now().After(session.ExpiresAt) {
		return nil, errs.ErrInvalidToken
	}

	user, err := s.usersRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionsRepo.DeleteExpired(ctx, s.now())
}

func (s *authService) openSession(ctx context.Context, repo repository.SessionsRepository, user *models.User) (string, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"name": user.Username,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	session := &models.Session{
		UserID:    user.ID,
		TokenHash: hashcrypto.HashToken(signed),
		ExpiresAt: expiresAt,
	}
	if err := repo.StoreSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return signed, nil
}
