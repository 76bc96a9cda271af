package paths

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/railmap/railmap/internal/geom"
)

// The geometry corpus is a directory tree of JSON files. Each file holds a
// list of paths with WGS84 coordinates and node names attached to vertex
// indices:
//
//	{"paths": [
//	  {"id": "de.1000",
//	   "coordinates": [[9.43, 54.78], [9.44, 54.77], ...],
//	   "nodes": {"flw": 0, "fri": 17}}
//	]}

type corpusFile struct {
	Paths []corpusPath `json:"paths"`
}

type corpusPath struct {
	ID          string         `json:"id"`
	Coordinates [][2]float64   `json:"coordinates"`
	Nodes       map[string]int `json:"nodes"`
}

// LoadDir reads every .json file under dir into a fresh store. A corpus
// problem aborts the load; a broken corpus must never produce a partial
// store.
func LoadDir(dir string) (*Store, error) {
	store := NewStore()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		return loadFile(store, path)
	})
	if err != nil {
		return nil, fmt.Errorf("loading path corpus: %w", err)
	}
	return store, nil
}

func loadFile(store *Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file corpusFile
	if err := json.Unmarshal(data, &file); err != nil {
		return &ErrCorpus{File: path, Reason: err.Error()}
	}
	for _, cp := range file.Paths {
		if cp.ID == "" {
			return &ErrCorpus{File: path, Reason: "path without id"}
		}
		if len(cp.Coordinates) < 2 {
			return &ErrCorpus{
				File:   path,
				Reason: fmt.Sprintf("path %q has fewer than two vertices", cp.ID),
			}
		}
		line := make(geom.Polyline, len(cp.Coordinates))
		for i, c := range cp.Coordinates {
			line[i] = geom.ToMercator(c[0], c[1])
		}
		for name, idx := range cp.Nodes {
			if idx < 0 || idx >= len(line) {
				return &ErrCorpus{
					File: path,
					Reason: fmt.Sprintf("path %q: node %q at vertex %d of %d",
						cp.ID, name, idx, len(line)),
				}
			}
		}
		store.Add(New(cp.ID, line, cp.Nodes))
	}
	return nil
}
