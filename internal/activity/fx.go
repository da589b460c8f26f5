package activity

import (
	"github.com/apiwikihq/apiwiki/internal/activity/repository"
	"github.com/apiwikihq/apiwiki/internal/activity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
