package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spf13/cobra"

	"line-tracer/internal/agent"
	"line-tracer/internal/physics"
	"line-tracer/internal/sim"
	"line-tracer/internal/track"
	"line-tracer/internal/watcher"
)

var (
	runMode  string
	runSteps int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate the robot on a course",
	Long: `Keys: W/A/D drive manually, C auto line tracing, P pursuit, left click
drives to a point. R pauses, S single-steps, B undoes a step and
Backspace puts the robot back at the start.`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runMode, "mode", "m", "", "Initial mode: manual, goto, auto or pursuit")
	runCmd.Flags().IntVarP(&runSteps, "steps", "n", 0, "Simulation ticks per frame (default from config)")
}

// Runner is the simulation window.
type Runner struct {
	Sim    *sim.Sim
	View   View
	Steps  int
	reload chan string
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runMode != "" {
		cfg.Sim.Mode = runMode
	}
	if runSteps > 0 {
		cfg.Sim.StepsPerFrame = runSteps
	}
	course, err := loadCourse(cfg)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, course, log.New(os.Stderr, "sim: ", log.LstdFlags))
	if err != nil {
		return err
	}
	r := &Runner{
		Sim:    s,
		View:   NewView(cfg.View.Scale),
		Steps:  cfg.Sim.StepsPerFrame,
		reload: make(chan string, 1),
	}
	r.View.Fit(course.Segments())

	if watchFiles {
		fw, err := watcher.NewFileWatcher(200*time.Millisecond, nil)
		if err != nil {
			return err
		}
		defer fw.Close()
		if err := fw.Watch([]string{coursePath}, r.queueReload); err != nil {
			return err
		}
		fw.Start()
	}
	return runWindow("Line Tracer", r)
}

// queueReload runs on the watcher goroutine; the course is swapped in
// Update so the simulation is only touched from the game loop.
func (r *Runner) queueReload(path string) {
	select {
	case r.reload <- path:
	default:
	}
}

func (r *Runner) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	select {
	case path := <-r.reload:
		if c, err := track.LoadFile(path); err != nil {
			log.Printf("reload: %v", err)
		} else {
			r.Sim.SetCourse(c)
		}
	default:
	}

	r.View.HandleZoomPan()
	r.handleInput()
	for range r.Steps {
		r.Sim.Tick()
	}
	return nil
}

func (r *Runner) handleInput() {
	s := r.Sim

	var fwd, rot float64
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		fwd = 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		rot = 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		rot = -1
	}
	if fwd != 0 || rot != 0 || s.Mode == sim.ModeManualVelocity {
		s.Drive(fwd, rot)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.SetMode(sim.ModeAuto)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		s.SetMode(sim.ModePursuit)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.ToggleRun()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.StepOnce()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		s.UndoStep()
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		s.Reset(physics.Pose{})
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.GoTo(r.View.Cursor())
	}
}

func (r *Runner) Draw(screen *ebiten.Image) {
	s := r.Sim
	screen.Fill(ColorBackground)
	r.View.DrawCourse(screen, s.Course)

	r.View.Polyline(screen, s.BestLapPath, 0.003, ColorBestLap)
	for i, path := range s.LapHistory {
		r.View.Polyline(screen, path, 0.002, lapHistoryColors[i])
	}
	r.View.Polyline(screen, s.CurrentLapPath, 0.002, ColorCurrentLap)

	r.drawController(screen)
	r.View.DrawRobot(screen, s.Robot)
	r.drawHUD(screen)
}

func (r *Runner) drawController(screen *ebiten.Image) {
	samples := r.Sim.Ctrl.Samples()
	for _, p := range samples {
		r.View.Dot(screen, p, 0.0015, ColorSample)
	}
	for _, i := range r.Sim.Ctrl.Corners() {
		if i < len(samples) {
			r.View.Dot(screen, samples[i], 0.004, ColorCorner)
		}
	}

	switch a := r.Sim.Agent.(type) {
	case *agent.GoTo:
		r.View.Dot(screen, a.Goal, 0.005, ColorTarget)
	case *agent.Pursuit:
		r.View.Dot(screen, a.Last.Pos, 0.004, ColorTarget)
		r.View.StrokeWorld(screen, r.Sim.Robot.Pose.Position(), a.Last.Pos, 0.001, ColorTarget)
	}
}

func (r *Runner) drawHUD(screen *ebiten.Image) {
	s := r.Sim
	vector.FillRect(screen, 0, 0, 180, 230, ColorPanel, true)

	seconds := func(ticks int) float64 { return float64(ticks) * s.Dt }
	msg := "STATUS MONITOR\n"
	msg += "----------------\n"
	msg += fmt.Sprintf("Mode:    %s\n", s.Mode)
	msg += fmt.Sprintf("Time:    %.2fs\n", seconds(s.Ticks))
	msg += fmt.Sprintf("Speed:   %.3f\n", s.Robot.Rates.Velocity().Len())
	if along, lateral, ok := s.Progress(); ok {
		msg += fmt.Sprintf("s/d:     %.3f %+.4f\n", along, lateral)
	}
	msg += fmt.Sprintf("Laps:    %d\n", s.Laps)
	msg += fmt.Sprintf("Current: %.2fs\n", seconds(s.CurrentLapTime))
	msg += fmt.Sprintf("Last:    %.2fs\n", seconds(s.LastLapTime))
	msg += fmt.Sprintf("Best:    %.2fs\n", seconds(s.BestLapTime))
	if !s.Running {
		msg += " [PAUSED]"
	}
	if s.Ctrl.InCorner() {
		msg += " [CORNER]"
	}
	ebitenutil.DebugPrint(screen, msg)

	const panelW = 160
	x := WindowWidth - panelW - 10
	vector.FillRect(screen, float32(x), 0, panelW, 120, ColorPanel, true)
	specs := "AGENT PARAMS\n"
	specs += "------------\n"
	specs += s.Agent.DebugInfoStr()
	ebitenutil.DebugPrintAt(screen, specs, x+10, 10)
}

func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

