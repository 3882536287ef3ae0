// Package spectate mirrors a running simulation to websocket spectators.
package spectate

import (
	"log"
	"sync"

	"github.com/automoto/racetrainer/shared/netcomponents"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Server keeps a networked mirror world with one entity per driver and a
// session entity, and syncs it to connected clients.
type Server struct {
	world     donburi.World
	transport *transports.WsServerTransport

	drivers map[int]donburi.Entity
	session donburi.Entity
	hasSess bool

	clients int
	mu      sync.Mutex
}

// NewServer creates the mirror world. Components must already be
// registered with protocol.RegisterComponents.
func NewServer() *Server {
	world := donburi.NewWorld()

	s := &Server{
		world:   world,
		drivers: make(map[int]donburi.Entity),
	}

	// Set up the world for esync
	srvsync.UseEsync(world)

	s.setupRouterCallbacks()
	return s
}

// Start listens on port. It blocks while the transport runs.
func (s *Server) Start(port uint) error {
	s.transport = transports.NewWsServerTransport(port, "", nil)
	log.Printf("[spectate] listening on port %d", port)
	return s.transport.Start()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.mu.Lock()
		s.clients++
		s.mu.Unlock()
		log.Printf("[spectate] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.mu.Lock()
		s.clients--
		s.mu.Unlock()
		if err != nil {
			log.Printf("[spectate] client %s disconnected with error: %v", client.Id(), err)
			return
		}
		log.Printf("[spectate] client %s disconnected", client.Id())
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[spectate] client error: %v", err)
	})
}

// Publish copies a snapshot into the mirror world and syncs it.
func (s *Server) Publish(drivers []netcomponents.NetDriverData, session netcomponents.NetSessionData) {
	s.mu.Lock()
	for _, d := range drivers {
		entry, ok := s.driverEntry(d.Slot)
		if !ok {
			continue
		}
		netcomponents.NetDriver.SetValue(entry, d)
	}
	if entry, ok := s.sessionEntry(); ok {
		netcomponents.NetSession.SetValue(entry, session)
	}
	s.mu.Unlock()

	if err := srvsync.DoSync(); err != nil {
		log.Printf("[spectate] sync error: %v", err)
	}
}

func (s *Server) driverEntry(slot int) (*donburi.Entry, bool) {
	if entity, ok := s.drivers[slot]; ok && s.world.Valid(entity) {
		return s.world.Entry(entity), true
	}

	entity := s.world.Create(netcomponents.NetDriver)
	// Interpolate so spectators see smooth motion
	if err := srvsync.NetworkSync(s.world, &entity, srvsync.WithInterp(netcomponents.NetDriver)); err != nil {
		log.Printf("[spectate] failed to sync driver %d: %v", slot, err)
		s.world.Remove(entity)
		return nil, false
	}
	s.drivers[slot] = entity
	return s.world.Entry(entity), true
}

func (s *Server) sessionEntry() (*donburi.Entry, bool) {
	if s.hasSess && s.world.Valid(s.session) {
		return s.world.Entry(s.session), true
	}

	entity := s.world.Create(netcomponents.NetSession)
	if err := srvsync.NetworkSync(s.world, &entity, netcomponents.NetSession); err != nil {
		log.Printf("[spectate] failed to sync session: %v", err)
		s.world.Remove(entity)
		return nil, false
	}
	s.session = entity
	s.hasSess = true
	return s.world.Entry(entity), true
}

// World returns the mirror world
func (s *Server) World() donburi.World {
	return s.world
}

// ClientCount returns the number of connected spectators
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}
