// Package atlas builds and publishes the immutable snapshot the render
// path works on.
//
// An Atlas is everything a tile render needs: the frozen feature set, the
// spatial index over it, the style tables and the path store. Snapshots are
// swapped atomically; renders in flight keep the snapshot they started on.
package atlas

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/railmap/railmap/internal/config"
	"github.com/railmap/railmap/internal/eval"
	"github.com/railmap/railmap/internal/feature"
	"github.com/railmap/railmap/internal/paths"
	"github.com/railmap/railmap/internal/style"
)

// Atlas is one immutable snapshot of the loaded map.
type Atlas struct {
	Set   *feature.Set
	Index *feature.Index
	Style *style.Style
	Store *paths.Store
}

// Build loads the geometry corpus and evaluates every configured map
// source into a fresh snapshot.
//
// Statement-level evaluation errors are logged and their features dropped;
// they do not fail the build. Unreadable files and a broken geometry corpus
// do.
func Build(cfg *config.Config, log *logrus.Logger) (*Atlas, error) {
	store, err := paths.LoadDir(cfg.PathsDir())
	if err != nil {
		return nil, fmt.Errorf("loading geometry corpus: %w", err)
	}
	files, err := cfg.MapFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no map sources matched the configured regions")
	}

	st := cfg.StyleTables()
	set := feature.NewSet()
	ev := &eval.Evaluator{
		Store: store,
		Style: st,
		Set:   set,
		Log:   log,
	}
	dropped := 0
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading map source: %w", err)
		}
		dropped += len(ev.Source(file, string(src)))
	}
	set.Freeze()

	log.WithFields(logrus.Fields{
		"sources":  len(files),
		"features": set.Len(),
		"dropped":  dropped,
	}).Info("atlas built")

	return &Atlas{
		Set:   set,
		Index: feature.BuildIndex(set),
		Style: st,
		Store: store,
	}, nil
}
