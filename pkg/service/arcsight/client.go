package arcsight

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/metrics"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/safe"
)

const (
	// DefaultTimeout is the default timeout of one ArcSight request
	DefaultTimeout = 60 * time.Second

	loginEndpoint                = "/www/core-service/rest/LoginService/login"
	caseServiceEndpoint          = "/www/manager-service/rest/CaseService"
	groupServiceEndpoint         = "/www/manager-service/rest/GroupService"
	securityEventServiceEndpoint = "/www/manager-service/rest/SecurityEventService"
	managerSearchServiceEndpoint = "/www/manager-service/rest/ManagerSearchService"
)

// Method is the HTTP verb of an ArcSight REST call
type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

// client implements Service interface
type client struct {
	baseURL  string
	username string
	password string

	versionPattern string
	versionRegex   *regexp.Regexp
	verifySSL      bool
	timeout        time.Duration
	httpClient     *http.Client

	mu    sync.Mutex
	token string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithVersionRegex requires the ESM version to match pattern at its start. An empty
// pattern accepts any version.
func WithVersionRegex(pattern string) Option {
	return func(c *client) {
		c.versionPattern = pattern
	}
}

// WithVerifySSL toggles server certificate verification
func WithVerifySSL(verify bool) Option {
	return func(c *client) {
		c.verifySSL = verify
	}
}

// WithTimeout sets the timeout of one request. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client. WithVerifySSL and WithTimeout are ignored.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// New creates a new ArcSight service for the ESM at baseURL
func New(baseURL, username, password string, opts ...Option) (Service, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, goerr.New("ArcSight base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, goerr.Wrap(err, "invalid ArcSight base URL", goerr.V("base_url", baseURL))
	}
	if username == "" {
		return nil, goerr.New("ArcSight username is required")
	}

	c := &client{
		baseURL:   baseURL,
		username:  username,
		password:  password,
		verifySSL: true,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.versionPattern != "" {
		re, err := regexp.Compile("^(?:" + c.versionPattern + ")")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid version regex", goerr.V("pattern", c.versionPattern))
		}
		c.versionRegex = re
	}

	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if !c.verifySSL {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402
		}
		c.httpClient = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
		}
	}

	return c, nil
}

// Login authenticates against LoginService and validates the ESM version
func (c *client) Login(ctx context.Context) error {
	_, err := c.authToken(ctx)
	return err
}

// authToken returns the cached token, logging in first when there is none
func (c *client) authToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	logging.From(ctx).Info("Logging into ArcSight", slog.String("base_url", c.baseURL))

	body := map[string]any{
		"log.login": map[string]any{
			"log.login":    c.username,
			"log.password": c.password,
		},
	}

	resp, err := c.call(ctx, MethodPost, loginEndpoint, nil, body)
	if err != nil {
		return "", goerr.Wrap(err, "unable to login")
	}

	token, _, err := decodeReturn[string](resp, "log", "login")
	if err != nil {
		return "", goerr.Wrap(err, "unable to login")
	}
	if token == "" {
		return "", goerr.Wrap(ErrAuthentication, "login response carried no auth token")
	}

	if err := c.validateVersion(ctx, token); err != nil {
		return "", err
	}

	c.token = token
	return token, nil
}

func (c *client) validateVersion(ctx context.Context, token string) error {
	resp, err := c.call(ctx, MethodGet, caseServiceEndpoint+"/getESMVersion", url.Values{"authToken": {token}}, nil)
	if err != nil {
		return goerr.Wrap(err, "product version validation failed")
	}

	version, _, err := decodeReturn[string](resp, "cas", "getESMVersion")
	if err != nil {
		return goerr.Wrap(err, "product version validation failed")
	}
	if version == "" {
		return goerr.Wrap(ErrVersionMismatch, "unable to get version from the device")
	}

	logging.From(ctx).Info("Got device version", slog.String("version", version))

	if c.versionRegex == nil {
		return nil
	}

	if !c.versionRegex.MatchString(version) {
		return goerr.Wrap(ErrVersionMismatch,
			fmt.Sprintf("version validation failed for supported version '%s'", c.versionPattern),
			goerr.V("version", version))
	}

	return nil
}

// requestBuilder returns the query and body of a call made with token
type requestBuilder func(token string) (url.Values, any)

// callWithToken runs a call that carries the session token. ESM answers a timed out
// session with an API error, so on ErrAPI the token is discarded and the call is
// retried once after a fresh login.
func (c *client) callWithToken(ctx context.Context, method Method, endpoint string, build requestBuilder) ([]byte, error) {
	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	query, body := build(token)
	resp, err := c.call(ctx, method, endpoint, query, body)
	if err == nil || !errors.Is(err, ErrAPI) {
		return resp, err
	}

	c.discardToken(token)
	logging.From(ctx).Warn("ArcSight rejected the request, logging in again",
		slog.String("endpoint", endpoint),
		slog.String("error", err.Error()),
	)

	token, loginErr := c.authToken(ctx)
	if loginErr != nil {
		return nil, goerr.Wrap(loginErr, "re-login failed", goerr.V("endpoint", endpoint))
	}

	query, body = build(token)
	return c.call(ctx, method, endpoint, query, body)
}

// discardToken forgets token unless another caller already replaced it
func (c *client) discardToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == token {
		c.token = ""
	}
}

// transportCause describes a transport failure without the request URL, whose query
// carries the auth token
func transportCause(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Op + ": " + urlErr.Err.Error()
	}
	return err.Error()
}

// call issues one REST request and returns the raw JSON body. query must not be logged
// since it carries the auth token for GET requests.
func (c *client) call(ctx context.Context, method Method, endpoint string, query url.Values, body any) ([]byte, error) {
	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode request body", goerr.V("endpoint", endpoint))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), reqURL, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request", goerr.V("endpoint", endpoint))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.From(ctx).Debug("Making REST call", slog.String("method", string(method)), slog.String("endpoint", endpoint))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ArcSightRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ArcSightRequestsTotal.WithLabelValues(endpoint, metrics.ResultConnectionError).Inc()
		return nil, goerr.Wrap(ErrConnection, connectionMessage(c.baseURL+endpoint),
			goerr.V("endpoint", endpoint),
			goerr.V("cause", transportCause(err)))
	}
	defer safe.Close(ctx, resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ArcSightRequestsTotal.WithLabelValues(endpoint, metrics.ResultConnectionError).Inc()
		return nil, goerr.Wrap(ErrConnection, "failed to read response body",
			goerr.V("endpoint", endpoint),
			goerr.V("cause", transportCause(err)))
	}

	if resp.StatusCode != http.StatusOK || strings.Contains(resp.Header.Get("Content-Type"), "html") {
		metrics.ArcSightRequestsTotal.WithLabelValues(endpoint, metrics.ResultAPIError).Inc()
		return nil, goerr.Wrap(newAPIError(resp.StatusCode, respBody), "ArcSight request failed",
			goerr.V("endpoint", endpoint),
			goerr.V("status", resp.StatusCode))
	}

	if !json.Valid(respBody) {
		metrics.ArcSightRequestsTotal.WithLabelValues(endpoint, metrics.ResultInvalidResponse).Inc()
		return nil, goerr.Wrap(ErrInvalidResponse, "response is not JSON", goerr.V("endpoint", endpoint))
	}

	metrics.ArcSightRequestsTotal.WithLabelValues(endpoint, metrics.ResultSuccess).Inc()
	return respBody, nil
}
