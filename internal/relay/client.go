// Package relay implements the JSON/HTTP client for the server that publishes public keys,
// tracks family membership and relays encrypted invites. The server only ever receives
// public keys, lookup codes and opaque envelopes.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	cryptoDomain "github.com/allisson/familykeys/internal/crypto/domain"
	"github.com/allisson/familykeys/internal/errors"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
	"github.com/allisson/familykeys/internal/metrics"
)

const maxResponseBytes = 1 << 20

// Config holds the relay client settings.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client talks to the relay. It implements the identity PublicKeyPublisher and the invite
// PublicKeyDirectory, FamilyGateway and InviteRelay ports.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient validates cfg and creates a Client. A non-positive RequestsPerSec disables
// throttling.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid relay base url %q", cfg.BaseURL)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// PublishPublicKey stores the public key of userID in the directory.
func (c *Client) PublishPublicKey(ctx context.Context, userID, publicKeyBase64 string) error {
	path := "/v1/users/" + url.PathEscape(userID) + "/public-key"
	return c.do(ctx, http.MethodPut, RoutePublishPublicKey, path, nil,
		PublicKeyRequest{PublicKey: publicKeyBase64}, nil, nil)
}

// FetchPublicKey looks up the public key published for email. found is false when the
// directory has none.
func (c *Client) FetchPublicKey(ctx context.Context, email string) (string, bool, error) {
	var resp PublicKeyResponse
	err := c.do(ctx, http.MethodGet, RouteFetchPublicKey, RouteFetchPublicKey,
		url.Values{"email": {email}}, nil, &resp, nil)
	if errors.Is(err, errors.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return resp.PublicKey, true, nil
}

// CreateFamily creates a family. The server assigns its id and lookup code.
func (c *Client) CreateFamily(ctx context.Context, name string) (*inviteDomain.Family, error) {
	var family FamilyResponse
	if err := c.do(ctx, http.MethodPost, RouteCreateFamily, RouteCreateFamily, nil,
		CreateFamilyRequest{Name: name}, &family, nil); err != nil {
		return nil, err
	}
	return &family, nil
}

// JoinFamily joins the family identified by lookupCode. A code still carrying a key
// segment is refused with ErrKeyLeak before anything is sent.
func (c *Client) JoinFamily(ctx context.Context, lookupCode string) (*inviteDomain.Family, error) {
	if err := checkLookupCode(lookupCode); err != nil {
		return nil, err
	}

	var family FamilyResponse
	err := c.do(ctx, http.MethodPost, RouteJoinFamily, RouteJoinFamily, nil,
		JoinFamilyRequest{LookupCode: lookupCode}, &family, map[int]error{
			http.StatusNotFound: inviteDomain.ErrFamilyNotFound,
		})
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// CreateEncryptedInvite relays invite to the server.
func (c *Client) CreateEncryptedInvite(ctx context.Context, invite *inviteDomain.EncryptedInvite) error {
	if err := checkLookupCode(invite.LookupCode); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, RouteCreateInvite, RouteCreateInvite, nil, invite, nil, map[int]error{
		http.StatusNotFound: inviteDomain.ErrFamilyNotFound,
	})
}

// FetchEncryptedInvite returns the invite record, or ErrEnvelopeNotFound when the server
// has none.
func (c *Client) FetchEncryptedInvite(
	ctx context.Context,
	inviteID uuid.UUID,
) (*inviteDomain.EncryptedInvite, error) {
	var invite inviteDomain.EncryptedInvite
	err := c.do(ctx, http.MethodGet, RouteFetchInvite, "/v1/invites/"+inviteID.String(), nil, nil, &invite,
		map[int]error{http.StatusNotFound: cryptoDomain.ErrEnvelopeNotFound})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptEncryptedInvite marks the invite accepted and returns the family joined.
func (c *Client) AcceptEncryptedInvite(ctx context.Context, inviteID uuid.UUID) (*inviteDomain.Family, error) {
	var family FamilyResponse
	err := c.do(ctx, http.MethodPost, RouteAcceptInvite, "/v1/invites/"+inviteID.String()+"/accept", nil, nil, &family,
		map[int]error{
			http.StatusNotFound: cryptoDomain.ErrEnvelopeNotFound,
			http.StatusConflict: inviteDomain.ErrInviteConsumed,
			http.StatusGone:     inviteDomain.ErrInviteExpired,
		})
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func checkLookupCode(lookupCode string) error {
	if strings.Contains(lookupCode, inviteDomain.KeySeparator) {
		return inviteDomain.ErrKeyLeak
	}
	return nil
}

// do sends one JSON request. statusErrors overrides the default mapping of error statuses.
func (c *Client) do(
	ctx context.Context,
	method, route, path string,
	query url.Values,
	body any,
	out any,
	statusErrors map[int]error,
) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	target := *c.baseURL
	target.Path = c.baseURL.Path + path
	target.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode relay request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(metrics.WithRoute(ctx, route), method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Wrap(ErrRelayUnavailable, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
			return errors.Wrap(ErrRelayUnavailable, "malformed relay response")
		}
		return nil
	}

	return c.statusError(resp, route, statusErrors)
}

func (c *Client) statusError(resp *http.Response, route string, statusErrors map[int]error) error {
	var errResp ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&errResp)

	c.logger.Debug("relay request failed",
		slog.String("route", route),
		slog.Int("status", resp.StatusCode),
		slog.String("error_code", errResp.Error),
	)

	if mapped, ok := statusErrors[resp.StatusCode]; ok {
		return mapped
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusConflict:
		return withMessage(errors.ErrConflict, errResp.Message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return withMessage(errors.ErrInvalidInput, errResp.Message)
	case http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case http.StatusForbidden:
		return errors.ErrForbidden
	default:
		return errors.Wrapf(ErrRelayUnavailable, "unexpected status %d", resp.StatusCode)
	}
}

func withMessage(err error, message string) error {
	if message == "" {
		return err
	}
	return errors.Wrap(err, message)
}
