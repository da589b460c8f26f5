package apicatalog

import (
	"github.com/apiwikihq/apiwiki/internal/apicatalog/repository"
	"github.com/apiwikihq/apiwiki/internal/apicatalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apicatalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
