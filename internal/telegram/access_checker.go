package telegram

import (
	"slices"

	"vpnctl-bot/internal/config"
)

// AccessChecker is the static allow-list gate. Pure membership test, the
// list is fixed at construction.
type AccessChecker struct {
	operatorIDs []int64
}

func NewAccessChecker(cfg *config.TelegramConfig) *AccessChecker {
	return &AccessChecker{
		operatorIDs: cfg.OperatorIDs,
	}
}

// IsOperator reports whether the caller may drive the bot.
func (a *AccessChecker) IsOperator(telegramID int64) bool {
	return slices.Contains(a.operatorIDs, telegramID)
}
