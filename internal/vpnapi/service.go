package vpnapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Service exposes the typed operations of the management API on top of an
// authenticated caller.
type Service struct {
	api caller
}

func NewService(api caller) *Service {
	return &Service{api: api}
}

func (s *Service) SystemStatus(ctx context.Context) (*ServiceStatus, error) {
	data, err := s.api.Call(ctx, http.MethodGet, "/system/status", nil)
	if err != nil {
		return nil, errors.Wrap(err, "get system status")
	}

	var status ServiceStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, errors.Wrap(err, "decode system status")
	}
	return &status, nil
}

func (s *Service) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	data, err := s.api.Call(ctx, http.MethodGet, "/system/info", nil)
	if err != nil {
		return nil, errors.Wrap(err, "get system info")
	}

	var info SystemInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "decode system info")
	}
	return &info, nil
}

func (s *Service) ListUsers(ctx context.Context, protocol Protocol) ([]UserRecord, error) {
	path := fmt.Sprintf("/vpn/%s/users", protocol)
	data, err := s.api.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s users", protocol)
	}

	var users []UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, errors.Wrapf(err, "decode %s user list", protocol)
	}
	return users, nil
}

// ListAllUsers returns every provisioned account grouped by protocol.
func (s *Service) ListAllUsers(ctx context.Context) (map[string][]UserRecord, error) {
	data, err := s.api.Call(ctx, http.MethodGet, "/vpn/users/all", nil)
	if err != nil {
		return nil, errors.Wrap(err, "list all users")
	}

	var grouped map[string][]UserRecord
	if err := json.Unmarshal(data, &grouped); err != nil {
		return nil, errors.Wrap(err, "decode grouped user list")
	}
	return grouped, nil
}

func (s *Service) CreateUser(ctx context.Context, protocol Protocol, req CreateUserRequest) (*VPNConfig, error) {
	path := fmt.Sprintf("/vpn/%s/create", protocol)
	data, err := s.api.Call(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s user", protocol)
	}

	var cfg VPNConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode provisioning result")
	}
	return &cfg, nil
}

// ExtendUser pushes the account's expiry out by the given number of days.
// The remote API confirms with a bare success envelope.
func (s *Service) ExtendUser(ctx context.Context, protocol Protocol, username string, days int) error {
	path := fmt.Sprintf("/vpn/%s/users/%s/extend", protocol, username)
	if _, err := s.api.Call(ctx, http.MethodPut, path, ExtendUserRequest{Days: days}); err != nil {
		return errors.Wrapf(err, "extend %s user %s", protocol, username)
	}
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, protocol Protocol, username string) error {
	path := fmt.Sprintf("/vpn/%s/users/%s", protocol, username)
	if _, err := s.api.Call(ctx, http.MethodDelete, path, nil); err != nil {
		return errors.Wrapf(err, "delete %s user %s", protocol, username)
	}
	return nil
}

func (s *Service) UserTraffic(ctx context.Context, username string) (*UserTraffic, error) {
	path := fmt.Sprintf("/vpn/users/%s/traffic", username)
	data, err := s.api.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "get traffic for %s", username)
	}

	var traffic UserTraffic
	if err := json.Unmarshal(data, &traffic); err != nil {
		return nil, errors.Wrap(err, "decode traffic")
	}
	return &traffic, nil
}
