package board

import (
	"github.com/apiwikihq/apiwiki/internal/board/repository"
	"github.com/apiwikihq/apiwiki/internal/board/service"
	"go.uber.org/fx"
)

var Module = fx.Module("board.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
