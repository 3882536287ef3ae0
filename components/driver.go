package components

import (
	"github.com/automoto/racetrainer/agent"
	"github.com/yohamta/donburi"
)

// DriverData binds an agent controller to its action source.
type DriverData struct {
	Slot            int
	Controller      *agent.Controller
	Policy          agent.Policy
	Pending         agent.DiscreteActions // decided this tick, applied by UpdateDrivers
	RejectedActions int
}

var Driver = donburi.NewComponentType[DriverData]()
