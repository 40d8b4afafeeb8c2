package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spf13/cobra"

	"line-tracer/internal/common"
	"line-tracer/internal/track"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Draw a course with the mouse",
	Long: `Press the left button to place the start point, drag to propose a tangent
arc and release to commit it. Hold Ctrl while dragging for a straight line.
Hold Shift to propose the arc that closes the loop; releasing with Shift
commits it and snaps the end onto the start. Right click places a corner
mark; Shift with right click places the goal mark laps are timed on.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

// Editor is the authoring window.
type Editor struct {
	Course *track.Course
	View   View
	Path   string

	dragging bool
	status   string
	last     common.Vec2
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	course, err := loadCourse(cfg)
	if err != nil {
		return err
	}
	ed := &Editor{Course: course, View: NewView(cfg.View.Scale), Path: coursePath}
	ed.View.Fit(course.Segments())
	return runWindow("Line Tracer - Course Editor", ed)
}

func (e *Editor) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	e.View.HandleZoomPan()
	e.handleMouse()
	e.handleKeys()
	return nil
}

func (e *Editor) handleMouse() {
	pos := e.View.Cursor()
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		e.Course.SetStartPoint(pos)
		e.dragging = true
	}

	if e.dragging && !pos.Near(e.last, 1e-9) {
		switch {
		case shift:
			e.Course.CloseLoopWithTangentArc()
		case ebiten.IsKeyPressed(ebiten.KeyControl):
			e.Course.ProposeLine(pos)
		default:
			e.Course.ProposeCurve(pos)
		}
	}
	e.last = pos

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		e.dragging = false
		e.Course.CommitPending()
		if shift {
			e.Course.ForceCloseLoop()
		}
		if err := track.Validate(e.Course.Segments(), track.Epsilon); err != nil {
			log.Printf("course: %v", err)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if shift {
			e.Course.AddGoalMark(pos)
		} else {
			e.Course.AddMark(pos)
		}
	}
}

func (e *Editor) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := track.SaveFile(e.Path, e.Course); err != nil {
			e.status = err.Error()
			log.Print(err)
			return
		}
		e.status = "saved " + e.Path
		log.Printf("saved %s (%d segments)", e.Path, len(e.Course.Segments()))
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		e.Course.Undo()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		e.Course.Redo()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		n := e.Course.PlaceCornerMarks()
		e.status = fmt.Sprintf("placed %d marks", n)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.Course.Clear()
		e.status = "cleared"
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		e.dump()
	}
}

func (e *Editor) dump() {
	for i, seg := range e.Course.Segments() {
		log.Printf("segment %d: %+v", i, seg)
	}
	if seg, ok := e.Course.Pending(); ok {
		log.Printf("pending: %+v", seg)
	}
}

func (e *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)
	e.View.DrawCourse(screen, e.Course)
	if p, ok := e.Course.Cursor(); ok {
		e.View.Dot(screen, p, 0.004, ColorPending)
	}
	Crosshair(screen)

	vector.FillRect(screen, 0, 0, 220, 190, ColorPanel, true)
	closed := track.IsClosed(e.Course.Segments(), track.Epsilon)
	msg := "COURSE EDITOR\n"
	msg += "----------------\n"
	msg += fmt.Sprintf("Phase:    %s\n", e.Course.Phase())
	msg += fmt.Sprintf("Segments: %d\n", len(e.Course.Segments()))
	msg += fmt.Sprintf("Marks:    %d\n", len(e.Course.Marks()))
	msg += fmt.Sprintf("Redo:     %d\n", e.Course.RedoDepth())
	msg += fmt.Sprintf("Closed:   %v\n", closed)
	msg += "\nS save  U/R undo/redo\nM marks  C clear  Q quit\nRB add mark  1/2 zoom\n"
	msg += e.status
	ebitenutil.DebugPrint(screen, msg)
}

func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}
