package messages

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"vpnctl-bot/internal/vpnapi"
)

// General
const (
	AccessDenied = "❌ You are not authorized to use this bot."
	Error        = "❌ Something went wrong. Please try again later."
)

const Welcome = `🤖 *VPN Management Bot*

Welcome! I can help you manage your VPN server.

Available commands:
/help - Show all commands
/status - Check service status
/info - Get server information
/create - Create VPN user
/list - List users
/delete - Delete user
/extend - Extend user
/traffic - Get user traffic

Use /help for detailed command usage.`

const Help = `🤖 *VPN Bot Commands*

📊 *System Commands:*
/status - Check service status
/info - Get server information

👥 *User Management:*
/create - Create VPN user (interactive)
/list - List users by protocol
/delete - Delete user (interactive)
/extend - Extend user (interactive)
/traffic <username> - Get user traffic

📋 *Supported Protocols:*
• ssh - SSH/WebSocket
• vmess - VMESS
• vless - VLESS
• trojan - Trojan
• shadowsocks - Shadowsocks

💡 *Examples:*
/traffic john
/list
/create`

// Prompts and validation
const (
	ChooseProtocolCreate = "🔧 *Create VPN User*\n\nSelect protocol:"
	ChooseProtocolList   = "📋 *List Users*\n\nSelect protocol:"
	ChooseProtocolExtend = "⏳ *Extend VPN User*\n\nSelect protocol:"
	ChooseProtocolDelete = "🗑 *Delete VPN User*\n\nSelect protocol:"

	InvalidParamsFormat = "❌ Invalid format. Use: `username days`"
	InvalidDays         = "❌ Invalid number of days. Please enter a valid number."
	InvalidUsername     = "❌ Please send a single username."
	TrafficUsage        = "❌ Usage: /traffic <username>\nExample: /traffic john"
	UnknownProtocol     = "❌ Unknown protocol."
)

func FormatCreatePrompt(protocol vpnapi.Protocol) string {
	return fmt.Sprintf("🔧 *Creating %s User*\n\n"+
		"Please send username and days in format:\n"+
		"`username days`\n\n"+
		"Example: `john 30`", strings.ToUpper(string(protocol)))
}

func FormatExtendPrompt(protocol vpnapi.Protocol) string {
	return fmt.Sprintf("⏳ *Extending %s User*\n\n"+
		"Please send username and days in format:\n"+
		"`username days`\n\n"+
		"Example: `john 30`", strings.ToUpper(string(protocol)))
}

func FormatDeletePrompt(protocol vpnapi.Protocol) string {
	return fmt.Sprintf("🗑 *Deleting %s User*\n\n"+
		"Please send the username to delete:", strings.ToUpper(string(protocol)))
}

// checkmark renders a boolean health/activity flag.
func checkmark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func FormatServiceStatus(status *vpnapi.ServiceStatus) string {
	return fmt.Sprintf(`🖥 *System Status*

🔐 SSH: %s
🌐 Nginx: %s
⚡ Xray: %s
🔒 Dropbear: %s
🔐 Stunnel: %s
🌐 SSH-WS: %s`,
		checkmark(status.SSH),
		checkmark(status.Nginx),
		checkmark(status.Xray),
		checkmark(status.Dropbear),
		checkmark(status.Stunnel),
		checkmark(status.SSHWebSocket))
}

func FormatSystemInfo(info *vpnapi.SystemInfo) string {
	return fmt.Sprintf(`🖥 *Server Information*

💻 OS: %s
🔧 Kernel: %s
⚡ CPU: %s
🧠 Cores: %d
📊 CPU Usage: %s
💾 RAM: %dMB / %dMB (%s)
⏰ Uptime: %s
🌐 Domain: %s
📍 IP: %s
📈 Daily Bandwidth: %s
📊 Monthly Bandwidth: %s`,
		info.OS, info.Kernel, info.CPUName, info.CPUCores, info.CPUUsage,
		info.RAMUsed, info.RAMTotal, info.RAMUsage,
		info.Uptime, info.Domain, info.IP,
		info.DailyBandwidth, info.MonthlyBandwidth)
}

// FormatExpiry renders an ISO-8601 expiry as a calendar date. An absent value
// means the account never expires.
func FormatExpiry(raw string) string {
	if raw == "" {
		return "Never"
	}
	// Accept a trailing Z as well as an explicit offset.
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

func formatUserLines(b *strings.Builder, users []vpnapi.UserRecord) {
	for i, u := range users {
		fmt.Fprintf(b, "%d. %s %s (Expires: %s)\n",
			i+1, checkmark(u.IsActive), u.Username, FormatExpiry(u.ExpiryDate))
	}
}

func FormatUserList(protocol vpnapi.Protocol, users []vpnapi.UserRecord) string {
	upper := strings.ToUpper(string(protocol))
	if len(users) == 0 {
		return fmt.Sprintf("📋 No %s users found.", upper)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 *%s Users:*\n\n", upper)
	formatUserLines(&b, users)
	return b.String()
}

// FormatAllUsers renders the grouped listing: the known protocols first in
// their canonical order, then anything else the API reports, alphabetically.
func FormatAllUsers(grouped map[string][]vpnapi.UserRecord) string {
	known := lo.Map(vpnapi.Protocols, func(p vpnapi.Protocol, _ int) string {
		return string(p)
	})
	present := lo.Keys(grouped)
	ordered := lo.Filter(known, func(key string, _ int) bool {
		return lo.Contains(present, key)
	})
	extra := lo.Filter(present, func(key string, _ int) bool {
		return !lo.Contains(known, key)
	})
	sort.Strings(extra)
	ordered = append(ordered, extra...)

	var b strings.Builder
	b.WriteString("📋 *All Users:*\n\n")
	for _, key := range ordered {
		fmt.Fprintf(&b, "*%s:*\n", strings.ToUpper(key))
		if users := grouped[key]; len(users) == 0 {
			b.WriteString("No users found\n")
		} else {
			formatUserLines(&b, users)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatTraffic(traffic *vpnapi.UserTraffic) string {
	return fmt.Sprintf(`📊 *Traffic Usage for %s*

⬆️ Upload: %s
⬇️ Download: %s
📈 Total: %s`,
		traffic.Username, traffic.Upload, traffic.Download, traffic.Total)
}

// FormatVPNConfig renders a provisioning result. Optional fields are omitted
// rather than printed empty.
func FormatVPNConfig(protocol vpnapi.Protocol, cfg *vpnapi.VPNConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Protocol:* %s\n", strings.ToUpper(string(protocol)))
	fmt.Fprintf(&b, "*Server:* %s\n", cfg.Server)
	fmt.Fprintf(&b, "*Port:* %d\n", cfg.Port)
	fmt.Fprintf(&b, "*Username:* %s\n", cfg.Username)

	if cfg.Password != "" {
		fmt.Fprintf(&b, "*Password:* `%s`\n", cfg.Password)
	}
	if cfg.UUID != "" {
		fmt.Fprintf(&b, "*UUID:* `%s`\n", cfg.UUID)
	}
	if len(cfg.Config) > 0 {
		b.WriteString("\n*Additional Config:*\n")
		keys := lo.Keys(cfg.Config)
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "*%s:* `%s`\n", key, cfg.Config[key])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatUserCreated(protocol vpnapi.Protocol, cfg *vpnapi.VPNConfig) string {
	return fmt.Sprintf("✅ *%s User Created Successfully!*\n\n%s",
		strings.ToUpper(string(protocol)), FormatVPNConfig(protocol, cfg))
}

func FormatUserExtended(protocol vpnapi.Protocol, username string, days int) string {
	return fmt.Sprintf("✅ *%s user `%s` extended by %d days.*",
		strings.ToUpper(string(protocol)), username, days)
}

func FormatUserDeleted(protocol vpnapi.Protocol, username string) string {
	return fmt.Sprintf("✅ *%s user `%s` deleted.*",
		strings.ToUpper(string(protocol)), username)
}

func FormatCreateFailed(err error) string {
	return fmt.Sprintf("❌ Failed to create user: %v", err)
}

func FormatExtendFailed(err error) string {
	return fmt.Sprintf("❌ Failed to extend user: %v", err)
}

func FormatDeleteFailed(err error) string {
	return fmt.Sprintf("❌ Failed to delete user: %v", err)
}

func FormatStatusFailed(err error) string {
	return fmt.Sprintf("❌ Failed to get system status: %v", err)
}

func FormatInfoFailed(err error) string {
	return fmt.Sprintf("❌ Failed to get server information: %v", err)
}

func FormatListFailed(err error) string {
	return fmt.Sprintf("❌ Failed to list users: %v", err)
}

func FormatTrafficFailed(username string) string {
	return fmt.Sprintf("❌ Failed to get traffic for user: %s", username)
}
