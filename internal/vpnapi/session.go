package vpnapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// Session owns the single bearer credential for the process. Login runs once
// at startup; the token is read-only afterwards. A 401 on a later call is
// surfaced as a *RemoteError, never silently re-authenticated.
type Session struct {
	client *Client
	token  string
}

func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// Login exchanges the service credentials for a bearer token.
func (s *Session) Login(ctx context.Context, username, password string) error {
	data, err := s.client.Do(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return errors.Wrap(err, "login")
	}

	var res LoginResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return errors.Wrap(err, "decode login response")
	}
	if res.Token == "" {
		return errors.New("login: empty token in response")
	}

	s.token = res.Token
	return nil
}

// Authenticated reports whether a credential has been established.
func (s *Session) Authenticated() bool {
	return s.token != ""
}

// Call performs an authenticated request. Without a credential it fails fast
// with ErrNotAuthenticated and sends nothing.
func (s *Session) Call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if s.token == "" {
		return nil, ErrNotAuthenticated
	}
	return s.client.Do(ctx, method, path, body, WithBearer(s.token))
}
