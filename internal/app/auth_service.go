package app

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/xDbibix/Better-Ticketmaster/internal/auth"
	"github.com/xDbibix/Better-Ticketmaster/internal/domain"
)

// AuthUserStore is the user persistence auth needs.
type AuthUserStore interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

// AuthService handles registration and session tokens. Tokens are opaque
// random strings held in process memory; a restart logs everyone out.
type AuthService struct {
	users      AuthUserStore
	tokens     *auth.TokenStore
	bcryptCost int
}

func NewAuthService(users AuthUserStore, tokens *auth.TokenStore, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return domain.User{}, domain.ErrEmailRequired
	}
	if in.Password == "" {
		return domain.User{}, domain.ErrPasswordRequired
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleConsumer
	}
	user := domain.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login verifies credentials and mints a session token. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token := newID()
	s.tokens.Put(token, user.ID)
	return token, user, nil
}

func (s *AuthService) Logout(token string) {
	s.tokens.Remove(token)
}

// CurrentUser resolves a session token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	userID := s.tokens.UserID(token)
	if userID == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return s.users.GetUser(ctx, userID)
}
