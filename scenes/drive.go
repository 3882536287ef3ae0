// Package scenes holds the interactive ebiten scenes.
package scenes

import (
	"errors"
	"image/color"

	cfg "github.com/automoto/racetrainer/config"
	"github.com/automoto/racetrainer/shared/episode"
	"github.com/automoto/racetrainer/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ErrQuit is returned from Update when the player closes the session.
var ErrQuit = errors.New("quit")

// DriveScene lets a person drive the track with the heuristic key mapping.
type DriveScene struct {
	sim      *sim.Sim
	onFinish func([]episode.Summary)
	width    int
	height   int
	flash    LapFlash
}

// NewDriveScene wraps a simulation built with the heuristic policy.
// onFinish receives every finished episode.
func NewDriveScene(s *sim.Sim, width, height int, onFinish func([]episode.Summary)) *DriveScene {
	e := s.ECS()
	e.AddRenderer(cfg.Default, DrawTrack)
	e.AddRenderer(cfg.Default, DrawDrivers)
	e.AddRenderer(cfg.Default, DrawHUD)

	return &DriveScene{
		sim:      s,
		onFinish: onFinish,
		width:    width,
		height:   height,
	}
}

func (d *DriveScene) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		d.finish(d.sim.Finish())
		return ErrQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		d.finish(d.sim.Finish())
	}

	d.finish(d.sim.Step())

	if controllers := d.sim.Controllers(); len(controllers) > 0 {
		d.flash.Observe(controllers[0].Stats())
	}
	d.flash.Update(d.sim.Clock().Delta)
	return nil
}

func (d *DriveScene) finish(done []episode.Summary) {
	if len(done) > 0 && d.onFinish != nil {
		d.onFinish(done)
	}
}

func (d *DriveScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)
	d.sim.ECS().Draw(screen)
	DrawLapFlash(screen, &d.flash, d.width, d.height)
}

func (d *DriveScene) Layout(_, _ int) (int, int) {
	return d.width, d.height
}
