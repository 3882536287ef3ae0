package netcomponents

import "github.com/yohamta/donburi"

// NetSessionData describes the running session to spectators.
type NetSessionData struct {
	Track            string
	Tick             int
	Time             float64
	FinishedEpisodes int
	TotalCheckpoints int
}

var NetSession = donburi.NewComponentType[NetSessionData]()
