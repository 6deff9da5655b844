package commands

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/yetics/armkit/internal/config"
)

// Env carries what every command needs from main.
type Env struct {
	Config *config.Config
	Logger zerolog.Logger
	Stdout io.Writer
}
