// Package upstream wraps every credentialed call to the ticketing/assistant
// service. Credentials travel as cookies held in the client's jar; a 401 on
// any call triggers exactly one token refresh and exactly one retry before
// the session is declared expired.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"buschat/internal/domain"
	"buschat/internal/utils"
)

// refresh/retry progression for a single credentialed call. The sequence
// only ever moves forward, which is what makes "refresh exactly once"
// enforceable.
type authState int

const (
	authInitial authState = iota
	authRefreshing
	authRetried
	authExpired
)

// Config for a per-user client.
type Config struct {
	BaseURL string
	// Timeout applies per attempt. Zero means the transport default.
	Timeout time.Duration
	// OnSessionExpired runs once when the refresh-retry sequence exhausts.
	// Wired to clearing the cached identity.
	OnSessionExpired func()
	// Transport overrides the HTTP transport, for tests.
	Transport http.RoundTripper
}

// Client is one user's credentialed connection to the upstream service.
type Client struct {
	base      string
	http      *http.Client
	onExpired func()
	requestID string
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, domain.ValidationError{Field: "base_url", Msg: "upstream base URL is required"}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, domain.InternalError{Msg: "cookie jar init failed", Err: err}
	}

	httpClient := &http.Client{
		Jar:     jar,
		Timeout: cfg.Timeout,
	}
	if cfg.Transport != nil {
		httpClient.Transport = cfg.Transport
	}

	return &Client{
		base:      base,
		http:      httpClient,
		onExpired: cfg.OnSessionExpired,
	}, nil
}

// WithRequestID tags subsequent log lines with the gateway request id.
func (c *Client) WithRequestID(id string) *Client {
	clone := *c
	clone.requestID = id
	return &clone
}

// ExportCookies serializes the credential cookies currently held for the
// upstream host so they can be persisted across restarts.
func (c *Client) ExportCookies() string {
	u, err := url.Parse(c.base)
	if err != nil || c.http.Jar == nil {
		return ""
	}
	cookies := c.http.Jar.Cookies(u)
	if len(cookies) == 0 {
		return ""
	}
	type cookie struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	out := make([]cookie, 0, len(cookies))
	for _, ck := range cookies {
		out = append(out, cookie{Name: ck.Name, Value: ck.Value})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return ""
	}
	return string(data)
}

// ImportCookies restores previously exported credential cookies. Malformed
// input is ignored; the session then simply fails validation and re-logs-in.
func (c *Client) ImportCookies(serialized string) {
	if strings.TrimSpace(serialized) == "" || c.http.Jar == nil {
		return
	}
	u, err := url.Parse(c.base)
	if err != nil {
		return
	}
	var in []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal([]byte(serialized), &in); err != nil {
		return
	}
	cookies := make([]*http.Cookie, 0, len(in))
	for _, ck := range in {
		cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	c.http.Jar.SetCookies(u, cookies)
}

// do runs one credentialed call through the refresh-retry sequence and
// decodes the JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return domain.InternalError{Msg: "encode request body", Err: err}
		}
	}

	state := authInitial
	for {
		status, data, err := c.attempt(ctx, method, path, query, payload)
		if err != nil {
			return domain.UpstreamError{Op: method + " " + path, Err: err}
		}

		if status == http.StatusUnauthorized {
			switch state {
			case authInitial:
				state = authRefreshing
				utils.LogEvent(c.requestID, "upstream", "refresh", "401 on "+path+", refreshing token")
				if err := c.refreshToken(ctx); err != nil {
					state = authExpired
					c.expire()
					return domain.SessionExpiredError{Err: err}
				}
				state = authRetried
				continue
			case authRetried:
				state = authExpired
				c.expire()
				return domain.SessionExpiredError{}
			}
		}

		if status < 200 || status > 299 {
			return domain.UpstreamError{
				Status:  status,
				Op:      method + " " + path,
				Message: upstreamMessage(data),
			}
		}

		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return domain.UpstreamError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	}
}

func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, payload []byte) (int, []byte, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// refreshToken exchanges the stored refresh cookie for fresh credentials.
// The jar picks up whatever Set-Cookie the upstream answers with.
func (c *Client) refreshToken(ctx context.Context) error {
	status, data, err := c.attempt(ctx, http.MethodPost, "/api/auth/refresh-token", nil, nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("refresh rejected: status %d: %s", status, upstreamMessage(data))
	}
	return nil
}

func (c *Client) expire() {
	utils.LogEvent(c.requestID, "upstream", "expired", "refresh exhausted, clearing cached identity")
	if c.onExpired != nil {
		c.onExpired()
	}
}

// upstreamMessage pulls a displayable message out of an error body, if any.
func upstreamMessage(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	for _, s := range []string{body.Message, body.Error, body.Detail} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
