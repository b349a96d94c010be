package storefront

import (
	"context"
	"errors"
	"fmt"

	"qkart/storefront/internal/domain"
	"qkart/storefront/internal/state"

	log "github.com/sirupsen/logrus"
)

const minCredentialLength = 6

func validateRegistration(username, password, confirm string) error {
	switch {
	case username == "":
		return &ValidationError{Message: "Username is a required field"}
	case len(username) < minCredentialLength:
		return &ValidationError{Message: "Username must be at least 6 characters"}
	case password == "":
		return &ValidationError{Message: "Password is a required field"}
	case len(password) < minCredentialLength:
		return &ValidationError{Message: "Password must be at least 6 characters"}
	case password != confirm:
		return &ValidationError{Message: "Passwords do not match"}
	}
	return nil
}

func validateLogin(username, password string) error {
	switch {
	case username == "":
		return &ValidationError{Message: "Username is a required field"}
	case password == "":
		return &ValidationError{Message: "Password is a required field"}
	}
	return nil
}

// Register creates an account on the backend. It does not log in.
func (s *Store) Register(ctx context.Context, username, password, confirm string) error {
	if err := validateRegistration(username, password, confirm); err != nil {
		s.notify(domain.NotificationWarning, err.Error())
		return err
	}

	if err := s.backend.Register(ctx, username, password); err != nil {
		log.Warnf("⚠️ Registration of %s failed: %v", username, err)
		s.notifyBackendError(err, MsgBackendFailed)
		return err
	}

	log.Infof("✅ Registered %s", username)
	s.notify(domain.NotificationSuccess, "Registered successfully")
	return nil
}

// Login authenticates against the backend, persists the session and loads the cart
func (s *Store) Login(ctx context.Context, username, password string) error {
	if err := validateLogin(username, password); err != nil {
		s.notify(domain.NotificationWarning, err.Error())
		return err
	}

	session, err := s.backend.Login(ctx, username, password)
	if err != nil {
		log.Warnf("⚠️ Login of %s failed: %v", username, err)
		s.notifyBackendError(err, MsgBackendFailed)
		return err
	}

	if err := s.sessions.SetSession(ctx, session); err != nil {
		s.notify(domain.NotificationError, MsgBackendFailed)
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.setSession(session)
	log.Infof("✅ Logged in as %s", session.Username)
	s.notify(domain.NotificationSuccess, "Logged in successfully")

	if err := s.LoadCart(ctx); err != nil {
		log.Warnf("⚠️ Failed to load cart after login: %v", err)
	}
	return nil
}

// Logout forgets the session and empties the cart
func (s *Store) Logout(ctx context.Context) error {
	if err := s.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.setSession(nil)
	s.setCart([]domain.CartReference{})
	log.Info("Logged out")
	return nil
}

func (s *Store) restoreSession(ctx context.Context) error {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNoSession) {
			return nil
		}
		return fmt.Errorf("failed to restore session: %w", err)
	}

	s.setSession(session)
	log.Infof("🔄 Restored session of %s", session.Username)
	return nil
}

func (s *Store) setSession(session *domain.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.emit(Event{Kind: EventSession})
}
