package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"line-tracer/internal/track"
)

var (
	meshStep  float64
	dumpEvery int
	tolerance float64
)

var rootCmd = &cobra.Command{
	Use:   "debug-mesh [course.toml]",
	Short: "Check a course file and print its sampled centerline",
	Long: `debug-mesh loads a course, reports every joint where the path breaks in
position or heading, and prints the flattened centerline with arc length and
heading so generated or hand-drawn courses can be inspected.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().Float64Var(&meshStep, "step", 0.005, "Sampling step in meters")
	rootCmd.Flags().IntVarP(&dumpEvery, "every", "n", 0, "Print every n-th waypoint (0 prints none)")
	rootCmd.Flags().Float64Var(&tolerance, "eps", track.Epsilon, "Joint tolerance")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	c, err := track.LoadFile(args[0])
	if err != nil {
		return err
	}
	segs := c.Segments()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Course: %s\n", args[0])
	fmt.Fprintf(out, "====================\n")
	fmt.Fprintf(out, "Line width:  %.4f m\n", 2*c.HalfLineWidth)
	fmt.Fprintf(out, "Segments:    %d\n", len(segs))
	fmt.Fprintf(out, "Marks:       %d\n", len(c.Marks()))
	fmt.Fprintf(out, "Closed:      %v\n\n", track.IsClosed(segs, tolerance))

	for i, s := range segs {
		kind := "line"
		if _, ok := s.(track.ArcSegment); ok {
			kind = "arc"
		}
		fmt.Fprintf(out, "#%-3d %-4s len %.4f  k %+8.3f  (%.3f, %.3f) -> (%.3f, %.3f)\n",
			i, kind, s.Length(), s.Curvature(), s.Start().X, s.Start().Y, s.End().X, s.End().Y)
	}

	m := track.Flatten(segs, meshStep)
	fmt.Fprintf(out, "\nWaypoints:   %d\n", len(m.Waypoints))
	fmt.Fprintf(out, "Length:      %.4f m\n", m.TotalLen)
	if dumpEvery > 0 {
		for i := 0; i < len(m.Waypoints); i += dumpEvery {
			wp := m.Waypoints[i]
			fmt.Fprintf(out, "  %5d s %.4f  (%.4f, %.4f)  heading %+.3f\n",
				wp.ID, wp.Distance, wp.Position.X, wp.Position.Y, wp.Heading.Angle())
		}
	}

	if err := track.Validate(segs, tolerance); err != nil {
		errs := multierr.Errors(err)
		for _, e := range errs {
			fmt.Fprintf(out, "BREAK: %v\n", e)
		}
		return fmt.Errorf("%d joint breaks", len(errs))
	}
	return nil
}
