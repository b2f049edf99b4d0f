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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedCall is one JSON-RPC request as seen by the stub server.
type recordedCall struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Auth   string          `json:"auth"`
	ID     int64           `json:"id"`
}

// stubAPI is a scriptable Zabbix JSON-RPC endpoint.
type stubAPI struct {
	mu    sync.Mutex
	calls []recordedCall

	// respond maps a method name to a response builder. Unscripted methods
	// get an empty result.
	respond map[string]func(call recordedCall, n int) (result any, rpcErr *RPCError)
}

func newStubAPI() *stubAPI {
	return &stubAPI{respond: map[string]func(recordedCall, int) (any, *RPCError){}}
}

func (s *stubAPI) on(method string, fn func(call recordedCall, n int) (any, *RPCError)) {
	s.respond[method] = fn
}

func (s *stubAPI) callsFor(method string) []recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedCall
	for _, c := range s.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var call recordedCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	n := s.countLocked(call.Method)
	s.mu.Unlock()

	var result any = map[string]any{}
	var rpcErr *RPCError
	if fn, ok := s.respond[call.Method]; ok {
		result, rpcErr = fn(call, n)
	}

	resp := map[string]any{"jsonrpc": "2.0", "id": call.ID}
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// callsFor under the stub's own lock; helper for ServeHTTP bookkeeping.
func (s *stubAPI) countLocked(method string) int {
	n := 0
	for _, c := range s.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, stub *stubAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		URL:      srv.URL,
		Username: "Admin",
		Password: "zabbix",
	})
}

func loginOK(stub *stubAPI, token string) {
	stub.on("user.login", func(recordedCall, int) (any, *RPCError) {
		return token, nil
	})
}

func TestClientLogin(t *testing.T) {
	t.Run("Stores Token", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		client := newTestClient(t, stub)

		err := client.Login(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", client.Token())

		logins := stub.callsFor("user.login")
		require.Len(t, logins, 1)
		assert.Empty(t, logins[0].Auth, "login must not carry a session token")

		var params map[string]string
		require.NoError(t, json.Unmarshal(logins[0].Params, &params))
		assert.Equal(t, "Admin", params["username"])
		assert.Equal(t, "zabbix", params["password"])
	})

	t.Run("Bad Credentials", func(t *testing.T) {
		stub := newStubAPI()
		stub.on("user.login", func(recordedCall, int) (any, *RPCError) {
			return nil, &RPCError{Code: -32602, Message: "Invalid params.", Data: "Incorrect user name or password or account is temporarily blocked."}
		})
		client := newTestClient(t, stub)

		err := client.Login(context.Background())
		require.Error(t, err)
		assert.True(t, IsKind(err, KindAuth))
		assert.Contains(t, err.Error(), "Incorrect user name or password")
		assert.Empty(t, client.Token())
	})

	t.Run("Connection Refused", func(t *testing.T) {
		client := NewClient(Options{URL: "http://127.0.0.1:1", Username: "Admin", Password: "zabbix"})

		err := client.Login(context.Background())
		require.Error(t, err)
		assert.True(t, IsKind(err, KindConnection))
	})
}

func TestClientCall(t *testing.T) {
	t.Run("Includes Token", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("host.get", func(recordedCall, int) (any, *RPCError) {
			return []map[string]string{{"hostid": "10084"}}, nil
		})
		client := newTestClient(t, stub)
		require.NoError(t, client.Login(context.Background()))

		result, err := client.Call(context.Background(), "host.get", map[string]any{"output": "extend"})
		require.NoError(t, err)
		assert.JSONEq(t, `[{"hostid":"10084"}]`, string(result))

		gets := stub.callsFor("host.get")
		require.Len(t, gets, 1)
		assert.Equal(t, "tok-1", gets[0].Auth)
	})

	t.Run("Lazy Login", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		client := newTestClient(t, stub)

		_, err := client.Call(context.Background(), "host.get", nil)
		require.NoError(t, err)
		assert.Len(t, stub.callsFor("user.login"), 1)
	})

	t.Run("Expired Token Retried Exactly Once", func(t *testing.T) {
		stub := newStubAPI()
		tokens := []string{"tok-1", "tok-2"}
		stub.on("user.login", func(_ recordedCall, n int) (any, *RPCError) {
			return tokens[(n-1)%len(tokens)], nil
		})
		stub.on("host.get", func(call recordedCall, n int) (any, *RPCError) {
			if n == 1 {
				return nil, &RPCError{Code: -32602, Message: "Invalid params.", Data: "Session terminated, re-login, please."}
			}
			return []map[string]string{{"hostid": "10084"}}, nil
		})
		client := newTestClient(t, stub)
		require.NoError(t, client.Login(context.Background()))

		result, err := client.Call(context.Background(), "host.get", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"hostid":"10084"}]`, string(result))

		assert.Len(t, stub.callsFor("user.login"), 2, "exactly one re-authentication")
		gets := stub.callsFor("host.get")
		require.Len(t, gets, 2, "exactly one retry")
		assert.Equal(t, "tok-2", gets[1].Auth, "retry must carry the refreshed token")
	})

	t.Run("Second Expiry Surfaces As Auth Error", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("host.get", func(recordedCall, int) (any, *RPCError) {
			return nil, &RPCError{Code: -32602, Message: "Invalid params.", Data: "Session terminated, re-login, please."}
		})
		client := newTestClient(t, stub)
		require.NoError(t, client.Login(context.Background()))

		_, err := client.Call(context.Background(), "host.get", nil)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindAuth))

		assert.Len(t, stub.callsFor("user.login"), 2)
		assert.Len(t, stub.callsFor("host.get"), 2, "no retry beyond the first")
	})

	t.Run("Business Error Passes Through", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("host.create", func(recordedCall, int) (any, *RPCError) {
			return nil, &RPCError{Code: -32500, Message: "Application error.", Data: "No permissions to referred object or it does not exist!"}
		})
		client := newTestClient(t, stub)
		require.NoError(t, client.Login(context.Background()))

		_, err := client.Call(context.Background(), "host.create", map[string]any{"host": "x"})
		require.Error(t, err)
		assert.True(t, IsKind(err, KindAPI))

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, -32500, apiErr.Code)
		assert.Contains(t, apiErr.Data, "No permissions")
		assert.Len(t, stub.callsFor("host.create"), 1, "business errors are not retried")
	})

	t.Run("Already Exists Becomes Conflict", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("host.create", func(recordedCall, int) (any, *RPCError) {
			return nil, &RPCError{Code: -32602, Message: "Invalid params.", Data: `Host with the same name "beta-servicedesk" already exists.`}
		})
		client := newTestClient(t, stub)
		require.NoError(t, client.Login(context.Background()))

		_, err := client.Call(context.Background(), "host.create", map[string]any{"host": "beta-servicedesk"})
		require.Error(t, err)
		assert.True(t, IsKind(err, KindConflict))
		assert.Contains(t, err.Error(), `"beta-servicedesk" already exists`)
	})
}

func TestClientVersion(t *testing.T) {
	stub := newStubAPI()
	stub.on("apiinfo.version", func(recordedCall, int) (any, *RPCError) {
		return "7.0.0", nil
	})
	client := newTestClient(t, stub)

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7.0.0", version)

	calls := stub.callsFor("apiinfo.version")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth, "apiinfo.version is token-less")
	assert.Empty(t, stub.callsFor("user.login"), "no login for token-less methods")
}

func TestClientLogout(t *testing.T) {
	t.Run("Clears Token", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("user.logout", func(recordedCall, int) (any, *RPCError) {
			return true, nil
		})
		client := newTestClient(t, stub)
		require.NoError(t, client.Login(context.Background()))

		require.NoError(t, client.Logout(context.Background()))
		assert.Empty(t, client.Token())
		assert.Len(t, stub.callsFor("user.logout"), 1)
	})

	t.Run("Noop Without Session", func(t *testing.T) {
		stub := newStubAPI()
		client := newTestClient(t, stub)

		require.NoError(t, client.Logout(context.Background()))
		assert.Empty(t, stub.callsFor("user.logout"))
	})
}

func TestHostByName(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("host.get", func(recordedCall, int) (any, *RPCError) {
			return []map[string]any{{"hostid": "10105", "host": "beta-servicedesk", "name": "Beta Service Desk", "status": "0"}}, nil
		})
		client := newTestClient(t, stub)

		host, err := client.HostByName(context.Background(), "beta-servicedesk")
		require.NoError(t, err)
		assert.Equal(t, "10105", host.HostID)
		assert.Equal(t, "Beta Service Desk", host.Name)

		var params struct {
			Filter map[string]string `json:"filter"`
		}
		calls := stub.callsFor("host.get")
		require.Len(t, calls, 1)
		require.NoError(t, json.Unmarshal(calls[0].Params, &params))
		assert.Equal(t, "beta-servicedesk", params.Filter["host"])
	})

	t.Run("Missing", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("host.get", func(recordedCall, int) (any, *RPCError) {
			return []map[string]any{}, nil
		})
		client := newTestClient(t, stub)

		_, err := client.HostByName(context.Background(), "ghost")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindNotFound))
	})
}

func TestLinkTemplate(t *testing.T) {
	t.Run("Appends To Existing Links", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("host.get", func(recordedCall, int) (any, *RPCError) {
			return []map[string]any{{
				"hostid": "10105",
				"host":   "beta-servicedesk",
				"parentTemplates": []map[string]string{
					{"templateid": "10001", "host": "Linux by Zabbix agent"},
				},
			}}, nil
		})
		stub.on("host.update", func(recordedCall, int) (any, *RPCError) {
			return map[string]any{"hostids": []string{"10105"}}, nil
		})
		client := newTestClient(t, stub)

		err := client.LinkTemplate(context.Background(), "10105", "10564")
		require.NoError(t, err)

		updates := stub.callsFor("host.update")
		require.Len(t, updates, 1)
		var params struct {
			HostID    string              `json:"hostid"`
			Templates []map[string]string `json:"templates"`
		}
		require.NoError(t, json.Unmarshal(updates[0].Params, &params))
		assert.Equal(t, "10105", params.HostID)
		require.Len(t, params.Templates, 2, "existing link must be preserved")
		assert.Equal(t, "10001", params.Templates[0]["templateid"])
		assert.Equal(t, "10564", params.Templates[1]["templateid"])
	})

	t.Run("Already Linked Is Noop", func(t *testing.T) {
		stub := newStubAPI()
		loginOK(stub, "tok-1")
		stub.on("host.get", func(recordedCall, int) (any, *RPCError) {
			return []map[string]any{{
				"hostid":          "10105",
				"parentTemplates": []map[string]string{{"templateid": "10001"}},
			}}, nil
		})
		client := newTestClient(t, stub)

		err := client.LinkTemplate(context.Background(), "10105", "10001")
		require.NoError(t, err)
		assert.Empty(t, stub.callsFor("host.update"))
	})
}
