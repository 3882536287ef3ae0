package systems

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/automoto/racetrainer/shared/episode"
	"github.com/quasilyte/gdata"
)

// PersonalBest is the best result ever recorded on one track
type PersonalBest struct {
	Track       string  `json:"track"`
	BestLapTime float64 `json:"bestLapTime"` // 0 = no lap yet
	BestReturn  float64 `json:"bestReturn"`
	Episodes    int     `json:"episodes"`
}

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence initializes the gdata manager for personal best storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "racetrainer",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

func bestKey(track string) string {
	return fmt.Sprintf("best_%s", track)
}

// LoadPersonalBest loads the stored record for a track
func LoadPersonalBest(track string) (*PersonalBest, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem(bestKey(track))
	if err != nil {
		log.Printf("Warning: Could not load personal best: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		// Nothing recorded on this track yet
		return nil, nil
	}

	var best PersonalBest
	if err := json.Unmarshal(data, &best); err != nil {
		log.Printf("Warning: Could not parse personal best: %v", err)
		return nil, err
	}
	return &best, nil
}

// SavePersonalBest saves the record for a track
func SavePersonalBest(best *PersonalBest) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(best)
	if err != nil {
		log.Printf("Warning: Could not serialize personal best: %v", err)
		return err
	}

	if err := gdataManager.SaveItem(bestKey(best.Track), data); err != nil {
		log.Printf("Warning: Could not save personal best: %v", err)
		return err
	}
	return nil
}

// MergePersonalBest folds finished episodes into a record and reports
// whether anything improved.
func MergePersonalBest(best *PersonalBest, summaries []episode.Summary) bool {
	improved := false
	for _, s := range summaries {
		if best.Episodes == 0 || s.Return > best.BestReturn {
			best.BestReturn = s.Return
			improved = true
		}
		if s.BestLapTime > 0 && (best.BestLapTime == 0 || s.BestLapTime < best.BestLapTime) {
			best.BestLapTime = s.BestLapTime
			improved = true
		}
		best.Episodes++
	}
	return improved
}

// RecordPersonalBest merges summaries into the stored record for track.
func RecordPersonalBest(track string, summaries []episode.Summary) {
	if !gdataInitialized || len(summaries) == 0 {
		return
	}
	best, err := LoadPersonalBest(track)
	if err != nil {
		return
	}
	if best == nil {
		best = &PersonalBest{Track: track}
	}
	if MergePersonalBest(best, summaries) {
		log.Printf("[records] new personal best on %s: lap %.2fs, return %.2f",
			track, best.BestLapTime, best.BestReturn)
	}
	_ = SavePersonalBest(best)
}
