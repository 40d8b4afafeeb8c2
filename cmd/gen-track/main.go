package main

import (
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/spf13/cobra"

	"line-tracer/internal/config"
	"line-tracer/internal/raster"
	"line-tracer/internal/track"
)

var (
	configPath string
	outPath    string
	pngPath    string
	program    string
	straight   float64
	radius     float64
	pngScale   float64
)

var rootCmd = &cobra.Command{
	Use:   "gen-track",
	Short: "Generate a course from a program of straights and turns",
	Long: `gen-track lays out a built-in course program, places corner marks at every
curvature change and a goal mark at the start, and writes the course as
TOML. With --png it also renders the course at its real line width.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file overlaying the defaults")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "course.toml", "Course output file")
	rootCmd.Flags().StringVar(&pngPath, "png", "", "Also render the course to this PNG file")
	rootCmd.Flags().StringVarP(&program, "program", "p", "default", "Course program: default or oval")
	rootCmd.Flags().Float64Var(&straight, "straight", 1, "Oval straight length in meters")
	rootCmd.Flags().Float64Var(&radius, "radius", 0.5, "Oval turn radius in meters")
	rootCmd.Flags().Float64Var(&pngScale, "scale", 1000, "PNG resolution in pixels per meter")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var pieces []track.Piece
	switch program {
	case "default":
		pieces = track.DefaultProgram()
	case "oval":
		pieces = track.OvalProgram(straight, radius)
	default:
		return fmt.Errorf("unknown program %q", program)
	}

	course, err := track.Generate(pieces, cfg.TrackParams())
	if err != nil {
		return err
	}
	segs := course.Segments()
	if err := track.Validate(segs, track.Epsilon); err != nil {
		return err
	}

	if err := track.SaveFile(outPath, course); err != nil {
		return err
	}
	length := 0.0
	for _, s := range segs {
		length += s.Length()
	}
	log.Printf("wrote %s: %d segments, %d marks, %.3f m, closed=%v",
		outPath, len(segs), len(course.Marks()), length, track.IsClosed(segs, track.Epsilon))

	if pngPath == "" {
		return nil
	}
	img := raster.Render(course, raster.Options{Scale: pngScale, Margin: 20})
	f, err := os.Create(pngPath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", pngPath, err)
	}
	log.Printf("wrote %s: %dx%d", pngPath, img.Bounds().Dx(), img.Bounds().Dy())
	return f.Close()
}
