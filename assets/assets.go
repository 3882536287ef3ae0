package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/automoto/racetrainer/shared/trackdata"
)

var (
	//go:embed all:tracks
	trackFS embed.FS
)

// TracksDir is the directory holding .tmx tracks inside TrackFS.
const TracksDir = "tracks"

// TrackFS returns the filesystem tracks are read from: dir when set,
// otherwise the embedded tracks.
func TrackFS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return trackFS
}

// LoadTracks loads every track found in dir (or the embedded set).
func LoadTracks(dir string) (map[string]*trackdata.TrackData, []string, error) {
	return trackdata.LoadAllTracks(TrackFS(dir), TracksDir)
}

// LoadTrack loads a single named track.
func LoadTrack(dir, name string) (*trackdata.TrackData, error) {
	data, err := trackdata.LoadTrack(TrackFS(dir), TracksDir+"/"+name+".tmx")
	if err != nil {
		return nil, fmt.Errorf("track %q: %w", name, err)
	}
	return data, nil
}
