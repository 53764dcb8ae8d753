package vpnapi

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Protocol is one of the VPN transport types managed by the remote service.
type Protocol string

const (
	ProtocolSSH         Protocol = "ssh"
	ProtocolVMess       Protocol = "vmess"
	ProtocolVLESS       Protocol = "vless"
	ProtocolTrojan      Protocol = "trojan"
	ProtocolShadowsocks Protocol = "shadowsocks"
)

// Protocols lists the supported protocols in presentation order.
var Protocols = []Protocol{
	ProtocolSSH,
	ProtocolVMess,
	ProtocolVLESS,
	ProtocolTrojan,
	ProtocolShadowsocks,
}

// ParseProtocol maps a raw token onto the closed protocol set.
func ParseProtocol(s string) (Protocol, error) {
	for _, p := range Protocols {
		if string(p) == s {
			return p, nil
		}
	}
	return "", errors.Errorf("unknown protocol: %q", s)
}

// Envelope is the uniform response wrapper of the remote API.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ServiceStatus reports health flags of the server-side components.
type ServiceStatus struct {
	SSH          bool `json:"ssh"`
	Nginx        bool `json:"nginx"`
	Xray         bool `json:"xray"`
	Dropbear     bool `json:"dropbear"`
	Stunnel      bool `json:"stunnel"`
	SSHWebSocket bool `json:"ssh_websocket"`
}

type SystemInfo struct {
	OS               string `json:"os"`
	Kernel           string `json:"kernel"`
	CPUName          string `json:"cpu_name"`
	CPUCores         int    `json:"cpu_cores"`
	CPUUsage         string `json:"cpu_usage"`
	RAMUsed          int    `json:"ram_used_mb"`
	RAMTotal         int    `json:"ram_total_mb"`
	RAMUsage         string `json:"ram_usage_percent"`
	Uptime           string `json:"uptime"`
	Domain           string `json:"domain"`
	IP               string `json:"ip"`
	DailyBandwidth   string `json:"daily_bandwidth"`
	MonthlyBandwidth string `json:"monthly_bandwidth"`
}

// UserRecord is one provisioned account as reported by the remote API.
// ExpiryDate stays a raw ISO-8601 string; empty means the account never
// expires. Parsing happens at render time.
type UserRecord struct {
	Username   string `json:"username"`
	IsActive   bool   `json:"is_active"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Days     int    `json:"days"`
	// Password is set only for protocols with a caller-visible secret (ssh);
	// the remote API generates secret material for the rest.
	Password string `json:"password,omitempty"`
}

type ExtendUserRequest struct {
	Days int `json:"days"`
}

// VPNConfig is the provisioning result handed back to the operator.
// The populated fields depend on the protocol.
type VPNConfig struct {
	Protocol string            `json:"protocol,omitempty"`
	Server   string            `json:"server"`
	Port     int               `json:"port"`
	Username string            `json:"username"`
	Password string            `json:"password,omitempty"`
	UUID     string            `json:"uuid,omitempty"`
	Config   map[string]string `json:"config,omitempty"`
}

type UserTraffic struct {
	Username string `json:"username"`
	Upload   string `json:"upload"`
	Download string `json:"download"`
	Total    string `json:"total"`
}
