package service

import (
	"context"

	"github.com/FireKid846/TG-bot/internal/domain"
)

// AuthService handles authentication logic
type AuthService struct {
	configs  *ConfigService
	sessions *SessionManager
	ownerID  int64
}

// NewAuthService creates a new auth service. ownerID 0 means no owner.
func NewAuthService(configs *ConfigService, sessions *SessionManager, ownerID int64) *AuthService {
	return &AuthService{
		configs:  configs,
		sessions: sessions,
		ownerID:  ownerID,
	}
}

// IsOwner checks the configured owner identity
func (s *AuthService) IsOwner(userID int64) bool {
	return s.ownerID != 0 && userID == s.ownerID
}

// IsAdmin checks the owner identity and the fixed admin username
func (s *AuthService) IsAdmin(who domain.Identity) bool {
	return who.Username == domain.AdminUsername || s.IsOwner(who.UserID)
}

// IsAuthenticated checks if user may run authenticated commands
func (s *AuthService) IsAuthenticated(who domain.Identity) bool {
	return s.sessions.IsAuthenticated(who.UserID, s.IsAdmin(who))
}

// Authenticate verifies username and password against the stored
// credentials and starts a session for userID on success
func (s *AuthService) Authenticate(ctx context.Context, userID int64, username, password string) (bool, error) {
	doc, err := s.configs.Load(ctx)
	if err != nil {
		return false, err
	}

	digest, exists := doc.Users[username]
	if !exists || !domain.CheckPassword(password, digest) {
		return false, nil
	}

	s.sessions.Login(userID)
	return true, nil
}

// Logout ends user's session, reporting whether one existed
func (s *AuthService) Logout(userID int64) bool {
	return s.sessions.Logout(userID)
}

// Enroll stores a credential for username. An existing username is
// silently given the new password.
func (s *AuthService) Enroll(ctx context.Context, username, password string) error {
	return s.configs.PutUser(ctx, username, domain.HashPassword(password))
}
