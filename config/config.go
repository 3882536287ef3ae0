package config

import "github.com/yohamta/donburi/ecs"

// Default is the only ECS layer the simulation uses.
const Default ecs.LayerID = 0

// DriverConfig contains the kinematic tuning of every driver
type DriverConfig struct {
	TurnSpeed    float64 // degrees per second
	Acceleration float64 // units per second squared
	MaxSpeed     float64 // units per second

	// Side of the square collider, in track units
	ColliderSize float64
}

// RewardConfig contains the reward shaping table
type RewardConfig struct {
	CheckpointBase   float64
	SpeedBonusScale  float64
	SpeedBonusWindow float64 // seconds
	WrongCheckpoint  float64
	Guide            float64
	WallHit          float64
	WallStay         float64
}

// EpisodeConfig contains reset and termination settings
type EpisodeConfig struct {
	// Spawn area in track-local units
	SpawnMinX float64
	SpawnMaxX float64
	SpawnY    float64
	SpawnMinZ float64
	SpawnMaxZ float64
	SpawnYaw  float64 // degrees

	MaxSteps         int  // 0 = never end on step count
	EndOnOutOfBounds bool // end when the driver leaves the map
	Behavior         string
}

// SimConfig contains simulation loop settings
type SimConfig struct {
	TickRate int // ticks per simulated second
	Drivers  int
	Seed     int64
	Policy   string
}

// TrackConfig contains track loading settings
type TrackConfig struct {
	Dir           string // empty = embedded tracks
	Name          string
	PixelsPerUnit float64
	CellSize      int // resolv space cell size in pixels
}

// StoreConfig selects the episode store backend
type StoreConfig struct {
	Kind string // "memory" or "sqlite"
	Path string
}

// SpectateConfig contains the spectator server settings
type SpectateConfig struct {
	Port uint // 0 = disabled
}

// ViewConfig contains the manual drive window settings
type ViewConfig struct {
	Width  int
	Height int
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	LogRewards bool // log every checkpoint reward
}

var Driver DriverConfig
var Reward RewardConfig
var Episode EpisodeConfig
var Sim SimConfig
var Track TrackConfig
var Store StoreConfig
var Spectate SpectateConfig
var View ViewConfig
var Debug DebugConfig

func init() {
	Driver = DriverConfig{
		TurnSpeed:    100.0,
		Acceleration: 5.0,
		MaxSpeed:     10.0,
		ColliderSize: 1.0,
	}

	Reward = RewardConfig{
		CheckpointBase:   10,
		SpeedBonusScale:  10,
		SpeedBonusWindow: 3,
		WrongCheckpoint:  -10,
		Guide:            100, // 10x a checkpoint; strong lane-centering pull
		WallHit:          -10,
		WallStay:         -1,
	}

	Episode = EpisodeConfig{
		SpawnMinX:        -3.5,
		SpawnMaxX:        3.5,
		SpawnY:           1,
		SpawnMinZ:        -1.5,
		SpawnMaxZ:        3.0,
		SpawnYaw:         180,
		MaxSteps:         5000,
		EndOnOutOfBounds: true,
		Behavior:         "default",
	}

	Sim = SimConfig{
		TickRate: 50, // 0.02s fixed step
		Drivers:  1,
		Seed:     42,
		Policy:   "random",
	}

	Track = TrackConfig{
		Name:          "oval",
		PixelsPerUnit: 16,
		CellSize:      16,
	}

	Store = StoreConfig{
		Kind: "sqlite",
		Path: "racetrainer.db",
	}

	View = ViewConfig{
		Width:  960,
		Height: 640,
	}

	Debug = DebugConfig{
		LogRewards: false,
	}
}
