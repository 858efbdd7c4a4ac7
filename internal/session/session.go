// Package session owns the process-wide authenticated session to the remote
// API.
//
// One session is shared by both orchestrators. Expiry is checked lazily
// before each remote call via the Token method; an expired session triggers
// exactly one silent re-login before the call fails. Refresh is the single
// shared-mutation point of the whole system and is serialized here.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openshift-ai/oai-manager/internal/ocm"
)

// Manager establishes and refreshes the session.
type Manager struct {
	mu    sync.Mutex
	auth  ocm.AuthService
	token string
	sess  *ocm.Session
	log   zerolog.Logger

	// now is a test hook.
	now func() time.Time
}

// NewManager creates a manager around the given auth service and offline
// token. No login happens until Login or the first Token call.
func NewManager(auth ocm.AuthService, token string, log zerolog.Logger) *Manager {
	return &Manager{
		auth:  auth,
		token: token,
		log:   log,
		now:   time.Now,
	}
}

// Login establishes the session explicitly. An invalid token surfaces as
// an AuthenticationError.
func (m *Manager) Login(ctx context.Context) (*ocm.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginLocked(ctx)
}

// Token returns an access token valid at the time of the call. If the
// current session has expired, one silent re-login is attempted; a failure
// there is fatal for the call and is never papered over by further retries.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess.Valid(m.now()) {
		return m.sess.AccessToken, nil
	}

	if m.sess != nil {
		m.log.Debug().Msg("session expired, re-authenticating")
	}
	sess, err := m.loginLocked(ctx)
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

// Current returns the session as last established, or nil before the first
// login. It never triggers a refresh.
func (m *Manager) Current() *ocm.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil
	}
	copied := *m.sess
	return &copied
}

func (m *Manager) loginLocked(ctx context.Context) (*ocm.Session, error) {
	sess, err := m.auth.Login(ctx, m.token)
	if err != nil {
		m.sess = nil
		if ocm.IsAuthentication(err) {
			return nil, err
		}
		return nil, &ocm.AuthenticationError{Reason: err.Error()}
	}

	m.sess = sess
	m.log.Info().
		Str("account", sess.AccountID).
		Time("expires", sess.Expiry).
		Msg("authenticated with cluster-management service")
	return sess, nil
}
