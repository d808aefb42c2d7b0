package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/JoLazarte/marketplace-client/internal/session"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrLoginFailed wraps the backend's rejection message.
	ErrLoginFailed = errors.New("login failed")
)

// authAPI is the slice of the backend client the service needs.
type authAPI interface {
	Authenticate(ctx context.Context, credentials any) (json.RawMessage, error)
	Register(ctx context.Context, user any) (json.RawMessage, error)
	UpdateUser(ctx context.Context, user any, token string) (json.RawMessage, error)
}

// sessionRepo persists the authenticated session across restarts.
type sessionRepo interface {
	SaveAuth(ctx context.Context, rec session.AuthRecord) error
	LoadAuth(ctx context.Context) (*session.AuthRecord, error)
	ClearAuth(ctx context.Context) error
}

// Service owns the authenticated session and the login/register/profile
// flows against the backend.
type Service struct {
	api  authAPI
	repo sessionRepo

	mu      sync.RWMutex
	current *Session
}

func NewService(api authAPI, repo sessionRepo) *Service {
	return &Service{api: api, repo: repo}
}

// Restore rehydrates a persisted session; a missing session is not an error.
func (s *Service) Restore(ctx context.Context) error {
	rec, err := s.repo.LoadAuth(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Session{
		Token: rec.Token,
		User: User{
			Username:  rec.Username,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Email:     rec.Email,
			Role:      Role(rec.Role),
		},
	}
	return nil
}

// loginDTO tolerates the backend naming the token either way.
type loginDTO struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	raw, err := s.api.Authenticate(ctx, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoginFailed, err)
	}

	var dto loginDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("%w: unexpected response", ErrLoginFailed)
	}

	token := dto.AccessToken
	if token == "" {
		token = dto.Token
	}
	if token == "" {
		return nil, fmt.Errorf("%w: response carried no token", ErrLoginFailed)
	}

	sess := &Session{
		Token: token,
		User: User{
			Username:  dto.Username,
			FirstName: dto.FirstName,
			LastName:  dto.LastName,
			Email:     dto.Email,
			Role:      Role(dto.Role),
		},
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	if err := s.repo.SaveAuth(ctx, session.AuthRecord{
		Token:     sess.Token,
		Username:  sess.User.Username,
		FirstName: sess.User.FirstName,
		LastName:  sess.User.LastName,
		Email:     sess.User.Email,
		Role:      string(sess.User.Role),
	}); err != nil {
		log.Printf("auth session save error: %v", err)
	}

	user := sess.User
	return &user, nil
}

// RegisterInput is the sign-up form. Role is always forced to BUYER.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (s *Service) Register(ctx context.Context, input RegisterInput) error {
	input.Role = string(RoleBuyer)
	if _, err := s.api.Register(ctx, input); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// ProfileUpdate is the authenticated profile-edit form.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	token := s.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	if _, err := s.api.UpdateUser(ctx, update, token); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	s.mu.Lock()
	if s.current != nil {
		s.current.User.FirstName = update.FirstName
		s.current.User.LastName = update.LastName
		s.current.User.Email = update.Email
	}
	sess := s.current
	s.mu.Unlock()

	if sess != nil {
		if err := s.repo.SaveAuth(ctx, session.AuthRecord{
			Token:     sess.Token,
			Username:  sess.User.Username,
			FirstName: sess.User.FirstName,
			LastName:  sess.User.LastName,
			Email:     sess.User.Email,
			Role:      string(sess.User.Role),
		}); err != nil {
			log.Printf("auth session save error: %v", err)
		}
	}
	return nil
}

// Logout drops the session locally; there is no server-side invalidation.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.repo.ClearAuth(ctx); err != nil {
		log.Printf("auth session clear error: %v", err)
	}
}

// Token returns the bearer token, empty when logged out.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Service) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := s.current.User
	return &user
}

func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}
