package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"president/internal/config"
)

// InitModule wires the Nakama Go runtime module. The config path can be
// set through the runtime env ("president_config").
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	cfg := config.Default()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if path := env["president_config"]; path != "" {
			loaded, err := config.Load(path)
			if err != nil {
				return err
			}
			cfg = loaded
		}
	}

	if err := initializer.RegisterMatch(MatchName, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return NewMatch(cfg), nil
	}); err != nil {
		return err
	}

	logger.Info("President Go module loaded.")
	return nil
}
