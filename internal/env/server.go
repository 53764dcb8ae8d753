package environment

import (
	"net/http"

	"vpnctl-bot/internal/config"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
	}
}

func newServers(cfg config.Config) *Servers {
	var servers Servers
	servers.HTTP.Observability = initObservability(cfg)
	return &servers
}
