package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/drillgo-dev/drillgo"
	"github.com/drillgo-dev/drillgo/pkg/config"
	"github.com/drillgo-dev/drillgo/pkg/game"
)

// Version is set via ldflags.
var Version = "dev"

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "drillgo",
		Short:         "Interactive training sessions with a merciless teacher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (YAML)")

	root.AddCommand(newPlayCmd(&configFile))
	root.AddCommand(newLeaderboardCmd(&configFile))
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

func newPlayCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start an interactive training session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			app, err := drillgo.NewApp(ctx, cfg, drillgo.Options{
				// Terminal bell on both cues; the presentation layer
				// has nothing fancier to offer.
				Cue: func(game.Cue) { fmt.Print("\a") },
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
				}
			}()

			return app.Run(ctx, runREPL)
		},
	}
}

func newLeaderboardCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the persisted leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			store, err := drillgo.NewStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			board, err := store.Load(ctx)
			if err != nil {
				return fmt.Errorf("load leaderboard: %w", err)
			}

			if len(board) == 0 {
				fmt.Println("The leaderboard is empty.")
				return nil
			}
			for i, e := range board {
				fmt.Printf("%2d. %-20s %6d\n", i+1, e.Name, e.Score)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "drillgo.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.SaveConfig(config.Default(), path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the drillgo version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("drillgo %s\n", Version)
		},
	}
}
