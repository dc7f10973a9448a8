package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"showdown-scout/client"
	"showdown-scout/config"
	"showdown-scout/data"
	"showdown-scout/predict"
	"showdown-scout/server"
	"showdown-scout/store"
	"showdown-scout/tracker"
)

var (
	cfgPath string
	cfg     *config.Config
	logger  *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "scout",
		Short:         "Live battle analyzer for simulator matches",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger, err = buildLogger(cfg.Logging.Level)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "scout.yaml", "config file path")
	root.AddCommand(serveCmd(), watchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			dex, err := data.Load(cfg.Data.PokedexPath, cfg.Data.MovesPath)
			if err != nil {
				return fmt.Errorf("load dex: %w", err)
			}
			repo, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			ws, err := client.New(cfg.Showdown.URL, cfg.Showdown.Username, logger)
			if err != nil {
				return err
			}

			srv := server.New(cfg, logger, dex, repo, ws)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				if err := ws.Run(ctx, srv); err != nil && ctx.Err() == nil {
					logger.Error("websocket loop exited", zap.Error(err))
				}
			}()

			return srv.ListenAndServe()
		},
	}
}

// watchCmd joins one battle room and prints each report to stdout, no
// HTTP server involved.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <room-id>",
		Short: "Follow one battle room and print per-turn analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := args[0]
			if !strings.HasPrefix(roomID, "battle-") {
				roomID = "battle-" + roomID
			}

			dex, err := data.Load(cfg.Data.PokedexPath, cfg.Data.MovesPath)
			if err != nil {
				return fmt.Errorf("load dex: %w", err)
			}
			ws, err := client.New(cfg.Showdown.URL, cfg.Showdown.Username, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &watcher{
				roomID: roomID,
				dex:    dex,
				engine: tracker.New(tracker.WithLogger(logger), tracker.WithSelfName(cfg.Showdown.Username)),
				out:    cmd.OutOrStdout(),
				done:   stop,
			}
			go func() {
				if err := ws.Run(ctx, w); err != nil && ctx.Err() == nil {
					logger.Error("websocket loop exited", zap.Error(err))
				}
			}()
			if err := ws.JoinRoom(roomID); err != nil {
				logger.Warn("initial join failed, will retry on connect", zap.Error(err))
			}

			<-ctx.Done()
			return nil
		},
	}
}

type watcher struct {
	roomID string
	dex    *data.Dex
	engine *tracker.Engine
	out    io.Writer
	done   func()
}

func (w *watcher) HandleObservation(roomID string, obs tracker.Observation) {
	if roomID != w.roomID {
		return
	}
	w.engine.Apply(obs)
	if _, ok := obs.(tracker.TurnMarker); !ok {
		return
	}
	report := predict.Analyze(w.dex, w.engine.Snapshot())
	fmt.Fprintf(w.out, "--- Turn %d (%s) ---\n", report.Turn, report.SpeedVerdict)
	fmt.Fprintf(w.out, "switch forecast: %s (%.0f)\n",
		report.SwitchForecast.Likelihood, report.SwitchForecast.Score.Value)
	for _, mf := range report.OpponentMoves {
		fmt.Fprintf(w.out, "  opponent %s %.0f%%\n", mf.Name, mf.Probability)
	}
	if report.Best != nil {
		fmt.Fprintf(w.out, "best: %s %s (%.0f)\n",
			report.Best.Kind, report.Best.Name, report.Best.Score.Value)
	}
}

func (w *watcher) HandleBattleEnd(roomID, winner string) {
	if roomID != w.roomID {
		return
	}
	fmt.Fprintf(w.out, "battle over: %s won\n", winner)
	w.done()
}
