package zabbix

// Copyright (C) 2025 Rizome Labs, Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; either version 2
// of the License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program; if not, write to the Free Software
// Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// APIPath is the fixed JSON-RPC endpoint path on every Zabbix frontend.
const APIPath = "/api_jsonrpc.php"

const defaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	// URL is the frontend base URL, e.g. http://zabbix.example.com:80.
	URL      string
	Username string
	Password string

	// VerifySSL controls TLS certificate verification for HTTPS frontends.
	VerifySSL bool

	// HTTPClient overrides the default transport. Used by tests.
	HTTPClient *http.Client

	// Logger for session lifecycle events. Defaults to slog.Default.
	Logger *slog.Logger
}

// Client is an authenticated Zabbix JSON-RPC session. It owns exactly one
// session token and serializes it transparently into outgoing calls,
// re-authenticating once when the server reports the session expired.
//
// A Client is safe for concurrent use. Two calls that both observe an
// expired token may both re-authenticate; the latest token wins, which the
// server tolerates because login is idempotent.
type Client struct {
	apiURL   string
	username string
	password string
	httpc    *http.Client
	logger   *slog.Logger

	mu    sync.Mutex
	token string

	reqID atomic.Int64
}

// NewClient creates a Zabbix API client. No network traffic happens until
// Login or the first Call.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: !opts.VerifySSL},
			},
		}
	}

	return &Client{
		apiURL:   strings.TrimSuffix(opts.URL, "/") + APIPath,
		username: opts.Username,
		password: opts.Password,
		httpc:    httpc,
		logger:   logger,
	}
}

// APIURL returns the resolved JSON-RPC endpoint.
func (c *Client) APIURL() string {
	return c.apiURL
}

// Token returns the current session token, empty before the first Login.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	Auth    string `json:"auth,omitempty"`
	ID      int64  `json:"id"`
}

// RPCError is the error object of a JSON-RPC 2.0 response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      int64           `json:"id"`
}

// Login authenticates with user.login and stores the returned session
// token. It is idempotent; calling it again replaces the token.
func (c *Client) Login(ctx context.Context) error {
	params := map[string]string{
		"username": c.username,
		"password": c.password,
	}

	resp, err := c.post(ctx, "user.login", params, "")
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return &Error{
			Kind:    KindAuth,
			Message: fmt.Sprintf("authentication failed: %s", resp.Error.Message),
			Code:    resp.Error.Code,
			Data:    resp.Error.Data,
		}
	}

	var token string
	if err := json.Unmarshal(resp.Result, &token); err != nil || token == "" {
		return NewError(KindAuth, "login returned no session token")
	}

	c.setToken(token)
	c.logger.Info("authenticated with zabbix", "url", c.apiURL, "user", c.username)
	return nil
}

// Logout invalidates the session server-side and clears the stored token.
// Safe to call on an unauthenticated client.
func (c *Client) Logout(ctx context.Context) error {
	token := c.Token()
	if token == "" {
		return nil
	}
	c.setToken("")

	resp, err := c.post(ctx, "user.logout", struct{}{}, token)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return apiError("user.logout", resp.Error)
	}
	c.logger.Info("zabbix session closed")
	return nil
}

// Call sends a JSON-RPC request for method with the current session token
// and returns the raw result. When the server reports the session expired,
// it re-authenticates once and retries the call exactly once; a second
// expiry surfaces as an auth error. Transport failures are connection
// errors, remote business errors keep the original code and message.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if params == nil {
		params = struct{}{}
	}

	token := ""
	if authRequired(method) {
		token = c.Token()
		if token == "" {
			if err := c.Login(ctx); err != nil {
				return nil, err
			}
			token = c.Token()
		}
	}

	resp, err := c.post(ctx, method, params, token)
	if err != nil {
		return nil, err
	}
	if resp.Error == nil {
		return resp.Result, nil
	}
	if !sessionExpired(resp.Error) {
		return nil, apiError(method, resp.Error)
	}

	// One transparent refresh, one retry.
	c.logger.Warn("zabbix session expired, re-authenticating", "method", method)
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	resp, err = c.post(ctx, method, params, c.Token())
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		if sessionExpired(resp.Error) {
			return nil, &Error{
				Kind:    KindAuth,
				Message: fmt.Sprintf("session rejected after re-authentication: %s", resp.Error.Message),
				Code:    resp.Error.Code,
				Data:    resp.Error.Data,
			}
		}
		return nil, apiError(method, resp.Error)
	}
	return resp.Result, nil
}

// CallInto performs Call and decodes the result into out.
func (c *Client) CallInto(ctx context.Context, method string, params any, out any) error {
	result, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result, out); err != nil {
		return WrapError(KindAPI, err, "decoding %s result", method)
	}
	return nil
}

// Version returns the remote API version via apiinfo.version, which
// requires no authentication.
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.post(ctx, "apiinfo.version", struct{}{}, "")
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", apiError("apiinfo.version", resp.Error)
	}
	var version string
	if err := json.Unmarshal(resp.Result, &version); err != nil {
		return "", WrapError(KindAPI, err, "decoding apiinfo.version result")
	}
	return version, nil
}

func (c *Client) post(ctx context.Context, method string, params any, token string) (*rpcResponse, error) {
	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		Auth:    token,
		ID:      c.reqID.Add(1),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(KindAPI, err, "encoding %s request", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(KindConnection, err, "building %s request", method)
	}
	req.Header.Set("Content-Type", "application/json-rpc")

	httpResp, err := c.httpc.Do(req)
	if err != nil {
		return nil, WrapError(KindConnection, err, "calling %s", method)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, NewError(KindConnection, "calling %s: unexpected HTTP status %s", method, httpResp.Status)
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, WrapError(KindConnection, err, "reading %s response", method)
	}

	var resp rpcResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, WrapError(KindConnection, err, "decoding %s response", method)
	}
	return &resp, nil
}

// authRequired reports whether a method needs the session token. user.login
// and apiinfo.version are the only token-less methods this client issues.
func authRequired(method string) bool {
	return method != "user.login" && method != "apiinfo.version"
}

// sessionExpired matches the two phrasings Zabbix has used for an invalid
// or expired session token.
func sessionExpired(rpcErr *RPCError) bool {
	detail := rpcErr.Data
	if detail == "" {
		detail = rpcErr.Message
	}
	return strings.Contains(detail, "re-login") || strings.Contains(detail, "Not authorised") ||
		strings.Contains(detail, "Not authorized")
}

// apiError maps a remote-reported error onto the local taxonomy. Uniqueness
// violations become conflicts so callers can distinguish them; everything
// else passes through with code and message preserved.
func apiError(method string, rpcErr *RPCError) *Error {
	kind := KindAPI
	if strings.Contains(rpcErr.Data, "already exists") || strings.Contains(rpcErr.Message, "already exists") {
		kind = KindConflict
	}
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf("%s: %s", method, rpcErr.Message),
		Code:    rpcErr.Code,
		Data:    rpcErr.Data,
	}
}
