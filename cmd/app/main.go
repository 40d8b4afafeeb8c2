package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"line-tracer/internal/config"
	"line-tracer/internal/track"
)

// Render window dimensions
const (
	WindowWidth  = 1200
	WindowHeight = 800
)

var (
	configPath string
	coursePath string
	watchFiles bool
)

var rootCmd = &cobra.Command{
	Use:   "app",
	Short: "Line tracer course editor and simulator",
	Long: `app draws line-following courses out of straights and tangent arcs and
simulates a differential-drive robot following them from its own sensors.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file overlaying the defaults")
	rootCmd.PersistentFlags().StringVar(&coursePath, "course", "course.toml", "Course file")
	rootCmd.PersistentFlags().BoolVarP(&watchFiles, "watch", "w", false, "Reload the course when the file changes")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	ebiten.SetTPS(cfg.View.TPS)
	return cfg, nil
}

// loadCourse reads coursePath. A missing file yields an empty course with
// the configured widths so the editor can start from scratch.
func loadCourse(cfg config.Config) (*track.Course, error) {
	c, err := track.LoadFile(coursePath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("%s not found, starting with an empty course", coursePath)
		return track.NewCourse(cfg.TrackParams()), nil
	}
	return c, err
}

func runWindow(title string, game ebiten.Game) error {
	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(game)
}
