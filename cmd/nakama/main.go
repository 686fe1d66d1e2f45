// Package main builds the Nakama plugin. Nakama loads the shared
// object and calls InitModule on boot.
package main

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	nakamaport "president/internal/ports/nakama"
)

// InitModule is the entry point Nakama looks up in the plugin.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	return nakamaport.InitModule(ctx, logger, db, nk, initializer)
}

func main() {}
