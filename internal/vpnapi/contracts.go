package vpnapi

import (
	"context"
	"encoding/json"
)

type caller interface {
	Call(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}
