package netcomponents

import (
	"math"

	"github.com/yohamta/donburi"
)

// NetDriverData is the spectator view of one driver, in map pixels.
type NetDriverData struct {
	Slot           int
	X, Y           float64
	Yaw            float64 // degrees, 0 = up the map
	Speed          float64
	NextCheckpoint int
	Return         float64
	Episode        int
}

var NetDriver = donburi.NewComponentType[NetDriverData]()

// LerpNetDriver interpolates between two driver snapshots. Yaw takes the
// short way round.
func LerpNetDriver(from, to NetDriverData, t float64) *NetDriverData {
	dyaw := math.Mod(to.Yaw-from.Yaw+540, 360) - 180
	yaw := math.Mod(from.Yaw+dyaw*t+360, 360)
	return &NetDriverData{
		Slot:           to.Slot,
		X:              from.X + (to.X-from.X)*t,
		Y:              from.Y + (to.Y-from.Y)*t,
		Yaw:            yaw,
		Speed:          from.Speed + (to.Speed-from.Speed)*t,
		NextCheckpoint: to.NextCheckpoint,
		Return:         to.Return,
		Episode:        to.Episode,
	}
}
