package scenes

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/automoto/racetrainer/components"
	"github.com/automoto/racetrainer/systems"
	"github.com/automoto/racetrainer/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	wallColor       = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	guideColor      = color.RGBA{R: 40, G: 90, B: 160, A: 160}
	checkpointColor = color.RGBA{R: 40, G: 160, B: 60, A: 160}
	targetColor     = color.RGBA{R: 240, G: 220, B: 40, A: 220}
	disabledColor   = color.RGBA{R: 80, G: 80, B: 80, A: 120}
	headingColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	driverColors = []color.RGBA{
		{R: 220, G: 50, B: 50, A: 255},
		{R: 50, G: 120, B: 230, A: 255},
		{R: 240, G: 150, B: 30, A: 255},
		{R: 160, G: 60, B: 200, A: 255},
	}
)

func drawObject(screen *ebiten.Image, e *donburi.Entry, clr color.Color) {
	o := components.Object.Get(e)
	vector.DrawFilledRect(screen, float32(o.X), float32(o.Y), float32(o.W), float32(o.H), clr, false)
}

// DrawTrack draws walls, guides and checkpoints. The first driver's next
// target checkpoint is highlighted.
func DrawTrack(e *ecs.ECS, screen *ebiten.Image) {
	target := -1
	for d := range components.Driver.Iter(e.World) {
		if components.Driver.Get(d).Slot == 0 {
			target = components.Driver.Get(d).Controller.State().NextTargetCheckpointIndex
		}
	}

	tags.Wall.Each(e.World, func(entry *donburi.Entry) {
		drawObject(screen, entry, wallColor)
	})
	tags.Guide.Each(e.World, func(entry *donburi.Entry) {
		drawObject(screen, entry, guideColor)
	})
	tags.Checkpoint.Each(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Checkpoint) {
			drawObject(screen, entry, disabledColor)
			return
		}
		if components.Checkpoint.Get(entry).Index == target {
			drawObject(screen, entry, targetColor)
			return
		}
		drawObject(screen, entry, checkpointColor)
	})
}

// DrawDrivers draws each driver's collider and a heading tick.
func DrawDrivers(e *ecs.ECS, screen *ebiten.Image) {
	tags.Driver.Each(e.World, func(entry *donburi.Entry) {
		d := components.Driver.Get(entry)
		o := components.Object.Get(entry)
		drawObject(screen, entry, driverColors[d.Slot%len(driverColors)])

		// Yaw 0 points up the map; positive yaw turns clockwise on screen.
		rad := d.Controller.Pose().Yaw * math.Pi / 180
		cx := o.X + o.W/2
		cy := o.Y + o.H/2
		reach := math.Max(o.W, o.H)
		vector.StrokeLine(screen,
			float32(cx), float32(cy),
			float32(cx+math.Sin(rad)*reach), float32(cy-math.Cos(rad)*reach),
			2, headingColor, false)
	})
}

// DrawHUD prints the first driver's episode state.
func DrawHUD(e *ecs.ECS, screen *ebiten.Image) {
	var b strings.Builder
	if clock, ok := systems.GetClock(e); ok {
		fmt.Fprintf(&b, "t %.2fs  tick %d\n", clock.Time, clock.Tick)
	}

	tags.Driver.Each(e.World, func(entry *donburi.Entry) {
		d := components.Driver.Get(entry)
		c := d.Controller
		stats := c.Stats()
		ep := components.Episode.Get(entry)
		fmt.Fprintf(&b, "driver %d  ep %d  step %d  next %d  speed %.1f  return %.1f  laps %d",
			d.Slot, ep.Number, ep.Steps, c.State().NextTargetCheckpointIndex,
			c.State().CurrentSpeed, c.CumulativeReward(), stats.Laps)
		if stats.BestLapTime > 0 {
			fmt.Fprintf(&b, "  best %.2fs", stats.BestLapTime)
		}
		b.WriteString("\n")
	})
	b.WriteString("SPACE accelerate  A/D steer  R restart  ESC quit")

	ebitenutil.DebugPrint(screen, b.String())
}

// DrawLapFlash shows the lap banner centred near the top, fading with it.
func DrawLapFlash(screen *ebiten.Image, f *LapFlash, width, height int) {
	if !f.Visible() {
		return
	}

	const w, h = 180, 24
	x := float32(width-w) / 2
	y := float32(height) / 8
	bg := color.RGBA{A: uint8(200 * f.Alpha())}
	vector.DrawFilledRect(screen, x, y, w, h, bg, false)
	ebitenutil.DebugPrintAt(screen, f.Text(), int(x)+8, int(y)+4)
}
