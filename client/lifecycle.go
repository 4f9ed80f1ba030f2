package client

import (
	"context"

	"github.com/rs/zerolog"
)

// LifecycleController bridges UI visibility to the engine: opening the main
// view wakes it, closing puts it to sleep. Wake runs async so a slow or
// failing backend never blocks the render thread; failures are logged only.
type LifecycleController struct {
	engine *Engine
	log    zerolog.Logger
}

func NewLifecycleController(engine *Engine, logger zerolog.Logger) *LifecycleController {
	return &LifecycleController{engine: engine, log: logger}
}

// SetVisible is called by the host whenever the main view opens or closes.
func (lc *LifecycleController) SetVisible(visible bool) {
	if visible {
		go func() {
			if err := lc.engine.Wake(context.Background()); err != nil {
				lc.log.Warn().Err(err).Msg("wake failed")
			}
		}()
		return
	}
	lc.engine.Sleep()
}
