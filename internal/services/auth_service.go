package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"collegecart/internal/domain"
	"collegecart/internal/repos"
)

const (
	lockThreshold = 5
	lockWindow    = 15 * time.Minute
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Register(email, password, name, hostel, room, phone string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:         uuid.NewString(),
		Email:      email,
		Name:       name,
		Hash:       string(hash),
		Hostel:     hostel,
		RoomNumber: room,
		Phone:      phone,
	}
	if err := s.Users.Create(u); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return s.Users.ByID(u.ID)
}

// Login checks credentials and issues a bearer token. Five consecutive
// failures lock the account for fifteen minutes.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", nil, domain.ErrBadCreds
	}
	if u.LockedUntil != "" {
		until, perr := time.Parse(time.RFC3339, u.LockedUntil)
		if perr == nil && time.Now().Before(until) {
			return "", nil, domain.ErrLocked
		}
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		_ = s.Users.RecordFailure(u.ID, lockThreshold, time.Now().Add(lockWindow))
		return "", nil, domain.ErrBadCreds
	}
	if err := s.Users.ResetFailures(u.ID); err != nil {
		return "", nil, err
	}
	token := uuid.NewString()
	if err := s.Users.BindToken(token, u.ID); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) Logout(token string) error {
	return s.Users.RevokeToken(token)
}

func (s *AuthService) CurrentUser(token string) (*domain.User, error) {
	return s.Users.TokenUser(token)
}

func (s *AuthService) UpdateProfile(id, name, hostel, room, phone string) (*domain.User, error) {
	if err := s.Users.UpdateProfile(id, name, hostel, room, phone); err != nil {
		return nil, err
	}
	return s.Users.ByID(id)
}
