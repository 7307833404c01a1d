package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"paddyseed/internal/auth"
	"paddyseed/internal/domain"
	"paddyseed/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users  *repos.UserRepo
	Tokens *auth.Service
}

func NewAuthService(users *repos.UserRepo, tokens *auth.Service) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Login checks credentials and issues a bearer token carrying the user's role.
func (s *AuthService) Login(email, password string) (string, time.Time, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", time.Time{}, nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", time.Time{}, nil, ErrBadCreds
	}
	token, expires, err := s.Tokens.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expires, u, nil
}

// UserFromToken resolves the trusted identity for a request.
func (s *AuthService) UserFromToken(token string) (*domain.User, error) {
	claims, err := s.Tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &domain.User{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
