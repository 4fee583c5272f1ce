// Package directory authenticates credentials against an external LDAP
// directory and resolves the directory identity of the bound user.
package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/fincompass/console/config"
	domainauth "github.com/fincompass/console/internal/domain/auth"
)

// Classification of directory failures. Callers branch on these to decide
// between a generic credential rejection and an upstream failure.
var (
	// ErrInvalidCredentials means the directory rejected the bind.
	ErrInvalidCredentials = errors.New("directory rejected credentials")
	// ErrUnavailable means the directory could not be reached.
	ErrUnavailable = errors.New("directory is unreachable")
	// ErrProtocol means the directory answered but the exchange failed.
	ErrProtocol = errors.New("directory protocol error")
)

// conn is the subset of *ldap.Conn the provider uses. Abstracted for tests.
type conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	StartTLS(cfg *tls.Config) error
	SetTimeout(d time.Duration)
	Close() error
}

// Provider verifies credentials via LDAP bind and looks up the bound
// user's directory attributes.
type Provider struct {
	cfg    config.LDAPConfig
	logger *slog.Logger
	dial   func(ctx context.Context) (conn, error)
}

// NewProvider builds a Provider for the given directory configuration.
func NewProvider(cfg config.LDAPConfig, logger *slog.Logger) *Provider {
	p := &Provider{cfg: cfg, logger: logger}
	p.dial = p.dialLDAP
	return p
}

func (p *Provider) dialLDAP(ctx context.Context) (conn, error) {
	dialer := &net.Dialer{Timeout: p.cfg.Timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	c, err := ldap.DialURL(p.cfg.URL, ldap.DialWithDialer(dialer))
	if err != nil {
		return nil, err
	}
	c.SetTimeout(p.cfg.Timeout)
	return c, nil
}

// Authenticate binds to the directory with the supplied credentials and,
// on success, returns the resolved directory identity. The connection is
// released on every path, including panics in the LDAP library.
func (p *Provider) Authenticate(ctx context.Context, username, password string) (*domainauth.DirectoryIdentity, error) {
	username = domainauth.NormalizeUsername(username)
	if username == "" || password == "" {
		// An empty password would trigger an unauthenticated LDAP bind,
		// which many servers report as success.
		return nil, ErrInvalidCredentials
	}

	c, err := p.dial(ctx)
	if err != nil {
		p.logger.Warn("directory dial failed", "url", p.cfg.URL, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = c.Close() }()

	if p.cfg.StartTLS {
		if err := c.StartTLS(&tls.Config{MinVersion: tls.VersionTLS12}); err != nil {
			p.logger.Warn("directory starttls failed", "error", err)
			return nil, fmt.Errorf("%w: starttls: %v", ErrUnavailable, err)
		}
	}

	if p.cfg.BindDN != "" {
		return p.searchThenBind(c, username, password)
	}
	return p.directBind(c, username, password)
}

// searchThenBind authenticates via a service account: bind as the service
// account, locate the user's entry, then re-bind as the user.
func (p *Provider) searchThenBind(c conn, username, password string) (*domainauth.DirectoryIdentity, error) {
	if err := c.Bind(p.cfg.BindDN, p.cfg.BindPassword); err != nil {
		return nil, p.classifyBindError("service bind", err)
	}

	entry, err := p.findEntry(c, username)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		// Unknown user is indistinguishable from a bad password to callers.
		return nil, ErrInvalidCredentials
	}

	if err := c.Bind(entry.DN, password); err != nil {
		return nil, p.classifyBindError("user bind", err)
	}
	return p.identityFromEntry(username, entry), nil
}

// directBind authenticates by binding as the user directly, then looks up
// the user's entry for display attributes on a best-effort basis.
func (p *Provider) directBind(c conn, username, password string) (*domainauth.DirectoryIdentity, error) {
	bindName := username
	if p.cfg.UPNSuffix != "" && !strings.Contains(username, "@") {
		bindName = username + "@" + p.cfg.UPNSuffix
	}

	if err := c.Bind(bindName, password); err != nil {
		return nil, p.classifyBindError("user bind", err)
	}

	entry, err := p.findEntry(c, username)
	if err != nil || entry == nil {
		// The bind already proved the credentials; attributes are optional.
		return &domainauth.DirectoryIdentity{Username: username}, nil
	}
	return p.identityFromEntry(username, entry), nil
}

func (p *Provider) findEntry(c conn, username string) (*ldap.Entry, error) {
	req := ldap.NewSearchRequest(
		p.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 2, 0, false,
		fmt.Sprintf("(%s=%s)", p.cfg.UserAttribute, ldap.EscapeFilter(username)),
		[]string{"dn", "displayName", "cn", "mail"},
		nil,
	)

	res, err := c.Search(req)
	if err != nil {
		p.logger.Warn("directory search failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: search: %v", ErrProtocol, err)
	}
	if len(res.Entries) == 0 {
		return nil, nil
	}
	if len(res.Entries) > 1 {
		p.logger.Warn("directory search returned multiple entries", "username", username)
		return nil, fmt.Errorf("%w: ambiguous search result", ErrProtocol)
	}
	return res.Entries[0], nil
}

func (p *Provider) identityFromEntry(username string, entry *ldap.Entry) *domainauth.DirectoryIdentity {
	displayName := entry.GetAttributeValue("displayName")
	if displayName == "" {
		displayName = entry.GetAttributeValue("cn")
	}
	return &domainauth.DirectoryIdentity{
		Username:          username,
		Email:             entry.GetAttributeValue("mail"),
		DisplayName:       displayName,
		DistinguishedName: entry.DN,
	}
}

// classifyBindError maps an LDAP bind failure into the three-way
// classification callers depend on.
func (p *Provider) classifyBindError(stage string, err error) error {
	if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
		return ErrInvalidCredentials
	}
	var netErr net.Error
	if errors.As(err, &netErr) || ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
		p.logger.Warn("directory unreachable during bind", "stage", stage, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, stage, err)
	}
	p.logger.Warn("directory bind protocol error", "stage", stage, "error", err)
	return fmt.Errorf("%w: %s: %v", ErrProtocol, stage, err)
}
