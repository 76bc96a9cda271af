package atlas

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/railmap/railmap/internal/config"
	"github.com/railmap/railmap/internal/feature"
	"github.com/railmap/railmap/internal/render"
	"github.com/railmap/railmap/internal/style"
	"github.com/railmap/railmap/internal/tilecache"
)

// Handle publishes the current atlas to the render path and owns the tile
// cache over it.
type Handle struct {
	file    string
	regions []string
	log     *logrus.Logger
	cfg     atomic.Pointer[config.Config]
	current atomic.Pointer[Atlas]
	cache   *tilecache.Cache
}

// Open loads the configuration, builds the first atlas and returns a
// serving handle. A non-empty regions list restricts which configured
// regions load, here and on every later reload. A failed first build is
// fatal to the caller; there is no older snapshot to fall back to.
func Open(configFile string, regions []string, log *logrus.Logger) (*Handle, error) {
	cfg, err := loadConfig(configFile, regions)
	if err != nil {
		return nil, err
	}
	a, err := Build(cfg, log)
	if err != nil {
		return nil, err
	}
	h := &Handle{
		file:    configFile,
		regions: regions,
		log:     log,
		cache:   tilecache.New(cfg.Server.CacheTiles),
	}
	h.cfg.Store(cfg)
	h.current.Store(a)
	return h, nil
}

func loadConfig(file string, regions []string) (*config.Config, error) {
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Restrict(regions); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Config returns the configuration of the current snapshot.
func (h *Handle) Config() *config.Config {
	return h.cfg.Load()
}

// Current returns the snapshot new renders pin.
func (h *Handle) Current() *Atlas {
	return h.current.Load()
}

// Reload re-reads the configuration, rebuilds the atlas and swaps it in.
// On any failure the previous snapshot stays published and keeps serving.
func (h *Handle) Reload() error {
	cfg, err := loadConfig(h.file, h.regions)
	if err == nil {
		var a *Atlas
		if a, err = Build(cfg, h.log); err == nil {
			h.cfg.Store(cfg)
			h.current.Store(a)
			h.cache.Purge()
			h.log.Info("atlas reloaded")
			return nil
		}
	}
	h.log.WithError(err).Error("reload failed, keeping previous atlas")
	return err
}

// RenderTile returns the encoded tile, rendering and caching it on demand.
// Concurrent requests for the same tile share one render.
func (h *Handle) RenderTile(layer style.Layer, z, x, y uint32, format render.Format) ([]byte, error) {
	a := h.Current()
	key := tilecache.Key{
		Layer:  layer.Name,
		Z:      z,
		X:      x,
		Y:      y,
		Format: format.String(),
	}
	return h.cache.GetOrBuild(key, func() ([]byte, error) {
		scene := feature.Assemble(a.Set, a.Index, a.Style, layer, z, x, y)
		data, err := render.Tile(scene, format)
		if err != nil {
			return nil, &render.ErrRender{Layer: layer.Name, Z: z, X: x, Y: y, Err: err}
		}
		return data, nil
	})
}

// CacheStats exposes the tile cache counters.
func (h *Handle) CacheStats() tilecache.Stats {
	return h.cache.Stats()
}
