package services

import (
	"chat-relay/auth"
	"chat-relay/errors"
	"chat-relay/repositories"
	"context"
	"fmt"
	"time"
)

type IAuthService interface {
	Register(req auth.RegisterRequest) (AuthenticatedUser, error)
	Login(req auth.LoginRequest) (AuthenticatedUser, error)
	SearchUsers(ctx context.Context, query, requesterID string) ([]repositories.User, error)
}

// AuthenticatedUser pairs an account with a freshly issued session token.
type AuthenticatedUser struct {
	User  repositories.User
	Token string
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokenDuration  time.Duration
	searchLimit    int
}

func NewAuthService(repo repositories.IUserRepository, tokenDuration time.Duration) *AuthService {
	return &AuthService{userRepository: repo, tokenDuration: tokenDuration, searchLimit: 20}
}

func (s *AuthService) Register(req auth.RegisterRequest) (AuthenticatedUser, error) {
	// Validate business rules before any expensive cryptographic operation.
	if err := auth.ValidateRegister(req); err != nil {
		return AuthenticatedUser{}, fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hashing happens in the service layer to keep the repository unaware
	// of plain passwords.
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return AuthenticatedUser{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(req.Name, req.Email, hashedPassword, req.Pic)
	if err != nil {
		return AuthenticatedUser{}, err // Propagates ErrUserAlreadyExists if email is taken
	}

	token, err := auth.GenerateToken(user.ID, s.tokenDuration)
	if err != nil {
		return AuthenticatedUser{}, errors.ErrTokenGeneration
	}

	return AuthenticatedUser{User: user, Token: token}, nil
}

func (s *AuthService) Login(req auth.LoginRequest) (AuthenticatedUser, error) {
	if err := auth.ValidateLogin(req); err != nil {
		return AuthenticatedUser{}, errors.ErrInvalidCredentials
	}

	user, err := s.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		// Generic error to prevent user enumeration attacks.
		return AuthenticatedUser{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return AuthenticatedUser{}, errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.tokenDuration)
	if err != nil {
		return AuthenticatedUser{}, errors.ErrTokenGeneration
	}

	return AuthenticatedUser{User: user, Token: token}, nil
}

// SearchUsers resolves the user-search endpoint. The requester never shows
// up in their own results.
func (s *AuthService) SearchUsers(ctx context.Context, query, requesterID string) ([]repositories.User, error) {
	if query == "" {
		return nil, nil
	}
	return s.userRepository.SearchUsers(ctx, query, requesterID, s.searchLimit)
}
