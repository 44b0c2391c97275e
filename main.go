// gym runs the "At the Gym" level: reach the exit before the countdown ends
// without touching lava.
//
// Usage:
//
//	gym                  - play the level
//	gym scores           - show the fastest exits and attempt counts
//
// Flags:
//
//	--level <name>  level in levels/ (basename, .json optional; default: scene.yaml)
//	--debug         draw physics shapes and player state
//	--seed <value>  RNG seed for the celebration spread (0 = random)
//	--db <path>     attempts database (default: ~/.gym/attempts.db)
//	--watch         restart the level when prefabs or levels change on disk
//	-m, --monitor   use the first monitor instead of the primary one
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/atthegym/common"
	"github.com/spf13/cobra"
)

var (
	flagLevel   string
	flagDebug   bool
	flagSeed    uint64
	flagDBPath  string
	flagWatch   bool
	flagMonitor bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "gym",
	Short:        "At the Gym - a one-level platformer",
	SilenceUsage: true,
	RunE:         runGame,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLevel, "level", "", "level name in levels/ (basename, .json optional; empty uses scene.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gym/attempts.db", "path to the attempts database (empty disables it)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug mode")
	rootCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "restart the level when prefabs change on disk")
	rootCmd.Flags().BoolVarP(&flagMonitor, "monitor", "m", false, "use base monitor instead of primary (for multi-monitor setups)")

	rootCmd.AddCommand(scoresCmd)
}

func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gym",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func runGame(cmd *cobra.Command, args []string) error {
	logger := newLogger(flagDebug)

	if flagMonitor {
		if monitors := ebiten.AppendMonitors(nil); len(monitors) > 0 {
			ebiten.SetMonitor(monitors[0])
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("At the Gym")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(GameOptions{
		Level:  flagLevel,
		Debug:  flagDebug,
		Seed:   flagSeed,
		DBPath: flagDBPath,
		Watch:  flagWatch,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("gym: %w", err)
	}
	return nil
}
