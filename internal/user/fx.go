package user

import (
	"github.com/apiwikihq/apiwiki/internal/user/repository"
	"github.com/apiwikihq/apiwiki/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
