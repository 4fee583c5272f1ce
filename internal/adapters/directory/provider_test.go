package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincompass/console/config"
)

// fakeConn is a scripted LDAP connection double.
type fakeConn struct {
	bindErrs  map[string]error // keyed by bind DN/name; missing key means success
	searchRes *ldap.SearchResult
	searchErr error
	closed    bool
}

func (f *fakeConn) Bind(username, _ string) error {
	if err, ok := f.bindErrs[username]; ok {
		return err
	}
	return nil
}

func (f *fakeConn) Search(_ *ldap.SearchRequest) (*ldap.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.searchRes != nil {
		return f.searchRes, nil
	}
	return &ldap.SearchResult{}, nil
}

func (f *fakeConn) StartTLS(_ *tls.Config) error { return nil }
func (f *fakeConn) SetTimeout(time.Duration)     {}
func (f *fakeConn) Close() error                 { f.closed = true; return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(c *fakeConn, dialErr error) *Provider {
	cfg := config.LDAPConfig{
		URL:           "ldap://ldap.example.com",
		BaseDN:        "dc=example,dc=com",
		UserAttribute: "sAMAccountName",
		UPNSuffix:     "example.com",
		Timeout:       time.Second,
	}
	p := NewProvider(cfg, testLogger())
	p.dial = func(context.Context) (conn, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return c, nil
	}
	return p
}

func aliceEntry() *ldap.Entry {
	return ldap.NewEntry("cn=Alice,dc=example,dc=com", map[string][]string{
		"displayName": {"Alice Liddell"},
		"mail":        {"alice@example.com"},
	})
}

func TestProvider_DirectBindSuccess(t *testing.T) {
	fc := &fakeConn{searchRes: &ldap.SearchResult{Entries: []*ldap.Entry{aliceEntry()}}}
	p := newTestProvider(fc, nil)

	id, err := p.Authenticate(context.Background(), "Alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "Alice Liddell", id.DisplayName)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.True(t, fc.closed, "connection must be released")
}

func TestProvider_DirectBindInvalidCredentials(t *testing.T) {
	fc := &fakeConn{bindErrs: map[string]error{
		"alice@example.com": ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials")),
	}}
	p := newTestProvider(fc, nil)

	_, err := p.Authenticate(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, fc.closed, "connection must be released on failure")
}

func TestProvider_EmptyPasswordRejectedWithoutDial(t *testing.T) {
	// An empty password must never reach the directory: unauthenticated
	// binds are reported as success by many servers.
	p := newTestProvider(nil, errors.New("dial should not happen"))

	_, err := p.Authenticate(context.Background(), "alice", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProvider_DialFailureIsUnavailable(t *testing.T) {
	p := newTestProvider(nil, errors.New("connection refused"))

	_, err := p.Authenticate(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestProvider_NetworkBindErrorIsUnavailable(t *testing.T) {
	fc := &fakeConn{bindErrs: map[string]error{
		"alice@example.com": ldap.NewError(ldap.ErrorNetwork, errors.New("broken pipe")),
	}}
	p := newTestProvider(fc, nil)

	_, err := p.Authenticate(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, fc.closed)
}

func TestProvider_SearchThenBind(t *testing.T) {
	fc := &fakeConn{searchRes: &ldap.SearchResult{Entries: []*ldap.Entry{aliceEntry()}}}
	p := newTestProvider(fc, nil)
	p.cfg.BindDN = "cn=service,dc=example,dc=com"
	p.cfg.BindPassword = "service-secret"

	id, err := p.Authenticate(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "cn=Alice,dc=example,dc=com", id.DistinguishedName)
}

func TestProvider_SearchThenBindUnknownUser(t *testing.T) {
	fc := &fakeConn{} // empty search result
	p := newTestProvider(fc, nil)
	p.cfg.BindDN = "cn=service,dc=example,dc=com"

	_, err := p.Authenticate(context.Background(), "ghost", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, fc.closed)
}

func TestProvider_AmbiguousSearchIsProtocolError(t *testing.T) {
	fc := &fakeConn{searchRes: &ldap.SearchResult{Entries: []*ldap.Entry{aliceEntry(), aliceEntry()}}}
	p := newTestProvider(fc, nil)
	p.cfg.BindDN = "cn=service,dc=example,dc=com"

	_, err := p.Authenticate(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestProvider_DirectBindSearchFailureStillSucceeds(t *testing.T) {
	// Attributes are best effort once the user bind proved the credentials.
	fc := &fakeConn{searchErr: fmt.Errorf("search unavailable")}
	p := newTestProvider(fc, nil)

	id, err := p.Authenticate(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.Empty(t, id.DisplayName)
}
