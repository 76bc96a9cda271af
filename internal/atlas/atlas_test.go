package atlas

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"

	"github.com/railmap/railmap/internal/render"
	"github.com/railmap/railmap/internal/style"
)

const corpus = `{"paths": [
  {"id": "de.test",
   "coordinates": [[13.0, 51.0], [13.005, 51.0], [13.01, 51.0]],
   "nodes": {"a": 0, "b": 2}}
]}`

const mapSource = `
let pa = path("de.test");
with detail = 4 {
	track(:first, pa[:a, :b]);
	station(:first, pa[:b] >> 1dt, "Testheim");
}
`

const configTemplate = `
[paths]
dir = "geometry"

[regions]
de = ["maps/*.map"]
`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// workspace lays out a loadable config, corpus and map source in a temp
// directory and returns the config file path.
func workspace(t *testing.T) (dir, cfgFile string) {
	t.Helper()
	dir = t.TempDir()
	cfgFile = write(t, dir, "config.toml", configTemplate)
	write(t, dir, "geometry/de.json", corpus)
	write(t, dir, "maps/de.map", mapSource)
	return dir, cfgFile
}

// testTile returns the tile containing the test path at zoom 13, where
// detail level 4 is rendered.
func testTile() (z, x, y uint32) {
	tile := maptile.At(orb.Point{13.0, 51.0}, 13)
	return uint32(tile.Z), tile.X, tile.Y
}

func TestOpenAndRender(t *testing.T) {
	_, cfgFile := workspace(t)
	h, err := Open(cfgFile, nil, quietLog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a := h.Current()
	if a.Set.Len() != 2 {
		t.Fatalf("atlas has %d features, want 2", a.Set.Len())
	}

	layer, _ := style.LayerByName("el")
	z, x, y := testTile()
	tile, err := h.RenderTile(layer, z, x, y, render.FormatPNG)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(tile) == 0 {
		t.Fatal("empty tile")
	}

	again, err := h.RenderTile(layer, z, x, y, render.FormatPNG)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(tile, again) {
		t.Error("cached render differs")
	}
	if s := h.CacheStats(); s.Hits == 0 {
		t.Errorf("second render missed the cache: %+v", s)
	}
}

func TestRegionRestriction(t *testing.T) {
	dir, cfgFile := workspace(t)
	write(t, dir, "config.toml", configTemplate+`
at = ["maps-at/*.map"]
`)
	write(t, dir, "maps-at/at.map", `
		let pa = path("de.test");
		with detail = 3 { track(:first, pa[:a, :b]); }
	`)

	h, err := Open(cfgFile, []string{"de"}, quietLog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if h.Current().Set.Len() != 2 {
		t.Errorf("restricted atlas has %d features, want 2", h.Current().Set.Len())
	}

	if _, err := Open(cfgFile, []string{"nope"}, quietLog()); err == nil {
		t.Error("unknown region restriction accepted")
	}
}

func TestOpenFailsWithoutCorpus(t *testing.T) {
	dir := t.TempDir()
	cfgFile := write(t, dir, "config.toml", configTemplate)
	write(t, dir, "maps/de.map", mapSource)
	if _, err := Open(cfgFile, nil, quietLog()); err == nil {
		t.Error("open succeeded without a geometry corpus")
	}
}

func TestEvalErrorsDoNotFailBuild(t *testing.T) {
	dir, cfgFile := workspace(t)
	write(t, dir, "maps/broken.map", `
		let pa = path("no.such.path");
		with detail = 4 { track(:first, pa[:a, :b]); }
	`)
	h, err := Open(cfgFile, nil, quietLog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if h.Current().Set.Len() != 2 {
		t.Errorf("atlas has %d features, want the 2 good ones", h.Current().Set.Len())
	}
}

func TestReloadSwapsAtlas(t *testing.T) {
	dir, cfgFile := workspace(t)
	h, err := Open(cfgFile, nil, quietLog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	write(t, dir, "maps/more.map", `
		let pa = path("de.test");
		with detail = 3 { track(:first, pa[:a, :b]); }
	`)
	if err := h.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if h.Current().Set.Len() != 3 {
		t.Errorf("reloaded atlas has %d features, want 3", h.Current().Set.Len())
	}
}

func TestFailedReloadKeepsAtlas(t *testing.T) {
	dir, cfgFile := workspace(t)
	h, err := Open(cfgFile, nil, quietLog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	before := h.Current()

	// A corrupt corpus file makes the rebuild fail outright.
	write(t, dir, "geometry/de.json", "{")
	if err := h.Reload(); err == nil {
		t.Fatal("reload of a broken corpus succeeded")
	}
	if h.Current() != before {
		t.Error("failed reload replaced the atlas")
	}

	layer, _ := style.LayerByName("el")
	z, x, y := testTile()
	if _, err := h.RenderTile(layer, z, x, y, render.FormatPNG); err != nil {
		t.Errorf("render after failed reload: %v", err)
	}
}
