package protocol

import (
	"github.com/automoto/racetrainer/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetDriver  uint = 10
	SyncIDNetSession uint = 11
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetDriver uint8 = 10
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	// Interpolated so spectators see smooth motion between snapshots
	if err := esync.RegisterComponent(
		SyncIDNetDriver,
		netcomponents.NetDriverData{},
		netcomponents.NetDriver,
		esync.WithInterpFn(InterpIDNetDriver, netcomponents.LerpNetDriver),
	); err != nil {
		return err
	}

	// Session: no interpolation (counters)
	if err := esync.RegisterComponent(
		SyncIDNetSession,
		netcomponents.NetSessionData{},
		netcomponents.NetSession,
	); err != nil {
		return err
	}

	return nil
}
