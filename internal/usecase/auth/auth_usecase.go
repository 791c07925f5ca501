package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/replication"
	"github.com/gdugdh24/fitmatch-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const DefaultSessionTTL = 24 * 7 * time.Hour

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	mirror      mirror.Mirror
	replicator  *replication.Replicator
	jwtSecret   string
	sessionTTL  time.Duration
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	m mirror.Mirror,
	replicator *replication.Replicator,
	jwtSecret string,
	sessionTTL time.Duration,
	log logrus.FieldLogger,
) *AuthUseCase {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		mirror:      m,
		replicator:  replicator,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
		log:         log,
		now:         time.Now,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Register creates a user with registration defaults. Email uniqueness is
// checked case-sensitively.
func (uc *AuthUseCase) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(uuid.NewString(), email, string(hash))
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.log.WithField("user_id", user.ID).Info("user registered")
	uc.syncUser(user)
	return user.Public(), nil
}

// Login opens a session for the user whose email matches case-insensitively.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session, token, err := uc.createSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user.Public(),
	}, nil
}

// createSession stores a session and returns the JWT carrying its id
func (uc *AuthUseCase) createSession(ctx context.Context, userID string) (*domain.Session, string, error) {
	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.sessionTTL),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	})

	tokenString, err := token.SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return nil, "", err
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", err
	}
	return session, tokenString, nil
}

// VerifyToken verifies JWT token and returns the stored session it names
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(uc.jwtSecret), nil
	}, jwt.WithTimeFunc(uc.now))
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}

	session, err := uc.sessionRepo.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session.Expired(uc.now()) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// Logout removes the stored session only; nothing is signalled remotely.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessionRepo.Delete(ctx, sessionID)
}

// GetSessionUser resolves the session and then its user in the local list.
func (uc *AuthUseCase) GetSessionUser(ctx context.Context, sessionID string) (*domain.User, error) {
	session, err := uc.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return user.Public(), nil
}

func (uc *AuthUseCase) syncUser(user *domain.User) {
	if !uc.mirror.Enabled() {
		return
	}
	public := user.Public()
	uc.replicator.Submit("user:"+user.ID, "sync user "+user.ID, func(ctx context.Context) error {
		return uc.mirror.SyncUser(ctx, public)
	})
}
