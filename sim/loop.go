package sim

import (
	"log"
	"sync"
	"time"

	"github.com/automoto/racetrainer/shared/episode"
	"github.com/automoto/racetrainer/shared/netcomponents"
)

// Publisher receives a snapshot after every real-time tick.
type Publisher interface {
	Publish(drivers []netcomponents.NetDriverData, session netcomponents.NetSessionData)
}

// GameLoop steps a Sim at wall-clock pace, for spectating.
type GameLoop struct {
	sim        *Sim
	tickRate   int
	sink       func([]episode.Summary) error
	publishers []Publisher
	stopChan   chan struct{}
	stopOnce   sync.Once
	stopErr    error
}

func NewGameLoop(sim *Sim, tickRate int, sink func([]episode.Summary) error) *GameLoop {
	return &GameLoop{
		sim:      sim,
		tickRate: tickRate,
		sink:     sink,
		stopChan: make(chan struct{}),
	}
}

// AddPublisher must be called before Run.
func (g *GameLoop) AddPublisher(p Publisher) {
	g.publishers = append(g.publishers, p)
}

// Run blocks until Stop or Fail is called. Running episodes are ended and
// flushed before it returns the error passed to Fail, if any.
func (g *GameLoop) Run() error {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("Sim loop started at %d ticks/second", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			g.flush(g.sim.Finish())
			log.Println("Sim loop stopped")
			return g.stopErr
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() {
		close(g.stopChan)
	})
}

// Fail stops the loop and makes Run return err. Only the first Stop or
// Fail has an effect.
func (g *GameLoop) Fail(err error) {
	g.stopOnce.Do(func() {
		g.stopErr = err
		close(g.stopChan)
	})
}

func (g *GameLoop) tick() {
	g.flush(g.sim.Step())

	if len(g.publishers) == 0 {
		return
	}
	drivers, session := g.sim.Views()
	for _, p := range g.publishers {
		p.Publish(drivers, session)
	}
}

func (g *GameLoop) flush(done []episode.Summary) {
	if len(done) == 0 || g.sink == nil {
		return
	}
	if err := g.sink(done); err != nil {
		log.Printf("Episode sink error: %v", err)
	}
}
