// Command president runs the standalone game server and offline
// simulations.
package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"president/internal/bot"
	"president/internal/config"
	"president/internal/domain"
	"president/internal/engine"
	"president/internal/ws"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "president",
	})

	var configPath string

	root := &cobra.Command{
		Use:           "president",
		Short:         "President card game server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file")

	root.AddCommand(serveCmd(logger, &configPath))
	root.AddCommand(simulateCmd(logger, &configPath))

	if err := root.Execute(); err != nil {
		logger.Fatal("command failed", "err", err)
	}
}

func serveCmd(logger *log.Logger, configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rooms over websockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			eng := engine.New(cfg)
			driver := bot.NewDriver(eng, logger)
			server := ws.NewServer(eng, driver, logger)

			logger.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, server.Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func simulateCmd(logger *log.Logger, configPath *string) *cobra.Command {
	var (
		players int
		games   int
		seed    int64
		level   string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play bot-only games and report the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			botLevel, err := bot.ParseLevel(level)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			return simulate(logger, cfg, players, games, seed, botLevel)
		},
	}
	cmd.Flags().IntVar(&players, "players", 4, "number of bot seats (3-5)")
	cmd.Flags().IntVar(&games, "games", 1, "games to play back to back")
	cmd.Flags().Int64Var(&seed, "seed", 0, "deal seed (0 picks one)")
	cmd.Flags().StringVar(&level, "level", "greedy", "bot level (random|greedy)")
	return cmd
}

func simulate(logger *log.Logger, cfg *config.Config, players, games int, seed int64, level bot.Level) error {
	eng := engine.New(cfg)
	const roomID = "sim"
	if err := eng.CreateRoom(roomID); err != nil {
		return err
	}
	driver := bot.NewDriver(eng, logger)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < players; i++ {
		id, err := eng.AddPlayer(roomID, fmt.Sprintf("bot-%d", i+1), true)
		if err != nil {
			return err
		}
		brain, err := bot.NewBrain(level, rng)
		if err != nil {
			return err
		}
		driver.Register(id, brain)
	}

	logger.Info("simulation start", "players", players, "games", games, "seed", seed)
	for game := 1; game <= games; game++ {
		if err := eng.StartGameWithSeed(roomID, seed+int64(game)); err != nil {
			return err
		}
		if err := driver.RunToCompletion(roomID, 20000); err != nil {
			return err
		}
		view, err := eng.Snapshot(roomID, "")
		if err != nil {
			return err
		}
		if view.Phase != string(domain.PhaseFinished) {
			return fmt.Errorf("game %d stalled in phase %s", game, view.Phase)
		}
		names := map[string]string{}
		roles := map[string]string{}
		for _, p := range view.Players {
			names[p.ID] = p.Name
			roles[p.ID] = p.Role
		}
		for place, pid := range view.FinishedOrder {
			logger.Info("result", "game", game, "place", place+1,
				"player", names[pid], "role", roles[pid])
		}
	}
	return nil
}
