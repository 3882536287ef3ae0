package trackdata

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// ErrNoCheckpoints is returned for a track without a Checkpoints layer entry.
var ErrNoCheckpoints = errors.New("track has no checkpoints")

// Object group names read from TMX files.
const (
	GroupCheckpoints = "Checkpoints"
	GroupGuides      = "Guides"
	GroupWalls       = "Walls"
	GroupStart       = "Start"
)

// LoadTrack parses a TMX file. It takes an fs.FS so callers can pass
// embed.FS or os.DirFS.
func LoadTrack(fsys fs.FS, tmxPath string) (*TrackData, error) {
	trackMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	data := &TrackData{
		Name:      strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		MapWidth:  trackMap.Width * trackMap.TileWidth,
		MapHeight: trackMap.Height * trackMap.TileHeight,
	}

	startFound := false
	for _, og := range trackMap.ObjectGroups {
		switch og.Name {
		case GroupCheckpoints:
			// Object order is the checkpoint sequence.
			for _, o := range og.Objects {
				data.Checkpoints = append(data.Checkpoints, Volume{
					X:        o.X,
					Y:        o.Y,
					W:        o.Width,
					H:        o.Height,
					Disabled: o.Properties.GetBool("disabled"),
				})
			}
		case GroupGuides:
			for _, o := range og.Objects {
				data.Guides = append(data.Guides, Volume{X: o.X, Y: o.Y, W: o.Width, H: o.Height})
			}
		case GroupWalls:
			for _, o := range og.Objects {
				data.Walls = append(data.Walls, Volume{X: o.X, Y: o.Y, W: o.Width, H: o.Height})
			}
		case GroupStart:
			if len(og.Objects) > 0 && !startFound {
				data.StartX = og.Objects[0].X
				data.StartY = og.Objects[0].Y
				startFound = true
			}
		}
	}

	if len(data.Checkpoints) == 0 {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrNoCheckpoints)
	}
	if !startFound {
		return nil, fmt.Errorf("%s: missing %s object", tmxPath, GroupStart)
	}

	return data, nil
}

// LoadAllTracks discovers all .tmx files in tracksDir within fsys, loads
// each, and returns a map keyed by stem name plus a sorted list of names.
func LoadAllTracks(fsys fs.FS, tracksDir string) (map[string]*TrackData, []string, error) {
	pattern := tracksDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", tracksDir)
	}

	tracks := make(map[string]*TrackData, len(matches))
	names := make([]string, 0, len(matches))

	for _, path := range matches {
		data, err := LoadTrack(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		tracks[data.Name] = data
		names = append(names, data.Name)
	}

	sort.Strings(names)
	return tracks, names, nil
}
