package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/utkarsh-90/Axum-Chat-Service/server/auth"
	"github.com/utkarsh-90/Axum-Chat-Service/server/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCredentials   = errors.New("username and password must not be empty")
	ErrUsernameTaken      = errors.New("username already taken")
)

// AuthUsecase handles account creation and token issuance.
type AuthUsecase struct {
	repo   Repository
	tokens *auth.JWTManager
}

func NewAuthUsecase(repo Repository, tokens *auth.JWTManager) *AuthUsecase {
	return &AuthUsecase{repo: repo, tokens: tokens}
}

// Register creates an account and returns the user with a session token.
func (u *AuthUsecase) Register(username, password string) (domain.User, string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return domain.User{}, "", ErrEmptyCredentials
	}
	if _, err := u.repo.GetUserByUsername(username); err == nil {
		return domain.User{}, "", ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user := domain.User{
		ID:           NewID(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.repo.CreateUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := u.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
func (u *AuthUsecase) Login(username, password string) (domain.User, string, error) {
	user, err := u.repo.GetUserByUsername(username)
	if err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := u.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// NewID returns a fresh ULID string. ULIDs sort lexically by creation
// time, which keeps message pagination a plain string comparison.
func NewID() string {
	return ulid.Make().String()
}
