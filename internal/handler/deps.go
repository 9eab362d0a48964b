package handler

import (
	"github.com/manuav007/EchoFlow/internal/app/auth"
	"github.com/manuav007/EchoFlow/internal/app/relay"
	"github.com/manuav007/EchoFlow/internal/configs"
)

type AppDeps struct {
	Config *configs.AppConfig
	Hub    *relay.Hub
	Relay  *relay.Router
	Auth   *auth.Store
}
