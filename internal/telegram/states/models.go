package states

import "vpnctl-bot/internal/vpnapi"

type State string

const (
	StateNone State = "none"
)

// cru -> create user
// exu -> extend user
// deu -> delete user

const (
	CreateUserWaitParams State = "cru_wt_params"
	ExtendUserWaitParams State = "exu_wt_params"
	DeleteUserWaitName   State = "deu_wt_name"
)

// Pending is the closed per-caller record of an in-progress multi-step
// command: which flow is waiting for free-text input and for which protocol.
type Pending struct {
	State    State
	Protocol vpnapi.Protocol
}
