package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"liftdesk/internal/api"
	"liftdesk/internal/domain"
	"liftdesk/internal/eventbus"
)

// ErrNotLoggedIn is returned when no session has been stored
var ErrNotLoggedIn = errors.New("not logged in")

// Store persists the session (token plus user blob) as a JSON file
type Store struct {
	path string
}

// NewStore creates a store backed by path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored session
func (s *Store) Load() (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, errors.Wrap(err, "read session")
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	if sess.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return &sess, nil
}

// Save writes the session readable by the owner only
func (s *Store) Save(sess *domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create session directory")
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "write session")
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove session")
	}
	return nil
}

// Authenticator is the part of the API client the login flow needs
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*domain.Session, error)
	Me(ctx context.Context, token string) (domain.Item, error)
}

// Service runs the login/logout flow. It is the only writer of the session.
type Service struct {
	client Authenticator
	store  *Store
	bus    eventbus.EventBus
	log    logrus.FieldLogger
}

// NewService creates an auth service. bus may be nil.
func NewService(client Authenticator, store *Store, bus eventbus.EventBus, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{client: client, store: store, bus: bus, log: log.WithField("component", "auth")}
}

// Login authenticates, fetches the user profile and stores both
func (s *Service) Login(ctx context.Context, creds api.Credentials) (*domain.Session, error) {
	sess, err := s.client.Login(ctx, creds)
	if err != nil {
		s.log.WithField("email", creds.Email).WithError(err).Warn("login failed")
		return nil, err
	}

	user, err := s.client.Me(ctx, sess.Token)
	if err != nil {
		return nil, errors.Wrap(err, "fetch profile")
	}
	sess.User = user

	if err := s.store.Save(sess); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"email": creds.Email, "role": sess.Role()}).Info("logged in")
	if s.bus != nil {
		s.bus.Publish(eventbus.SessionChangedEvent{LoggedIn: true, Email: creds.Email})
	}
	return sess, nil
}

// Logout forgets the stored session
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.log.Info("logged out")
	if s.bus != nil {
		s.bus.Publish(eventbus.SessionChangedEvent{LoggedIn: false})
	}
	return nil
}

// Current returns the stored session or ErrNotLoggedIn
func (s *Service) Current() (*domain.Session, error) {
	return s.store.Load()
}

// Token returns the stored bearer token, or "" when logged out
func (s *Service) Token() string {
	sess, err := s.store.Load()
	if err != nil {
		return ""
	}
	return sess.Token
}
