package wiki

import (
	"github.com/apiwikihq/apiwiki/internal/wiki/repository"
	"github.com/apiwikihq/apiwiki/internal/wiki/service"
	"go.uber.org/fx"
)

var Module = fx.Module("wiki.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
