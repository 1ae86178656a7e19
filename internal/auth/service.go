package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"falconsphere/internal/models"
	"falconsphere/pkg/filter"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

type Service struct {
	repo      *Repository
	filter    *filter.Filter
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(repo *Repository, profanity *filter.Filter, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		filter:    profanity,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// Register creates a user with a bcrypt-hashed password. Usernames go
// through the same profanity gate as every other display string.
func (s *Service) Register(username, email, password string) error {
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	if err := s.filter.Check(username); err != nil {
		return err
	}
	if _, err := s.repo.GetUserByUsername(username); err == nil {
		return ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.CreateUser(&models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	})
}

// Login verifies credentials and returns a signed JWT.
func (s *Service) Login(username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
