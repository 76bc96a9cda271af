// Package server exposes the tile atlas over HTTP.
//
// The surface is deliberately small: a slippy-map tile endpoint per layer
// and an index page carrying a minimal map client. Tile URLs are parsed by
// hand; the shape never changes and a router dependency would outweigh it.
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/railmap/railmap/internal/atlas"
	"github.com/railmap/railmap/internal/geom"
	"github.com/railmap/railmap/internal/render"
	"github.com/railmap/railmap/internal/style"
)

// ErrRequest reports a request that names no servable tile.
type ErrRequest struct {
	Path   string
	Reason string
}

func (e *ErrRequest) Error() string {
	return fmt.Sprintf("request %s: %s", e.Path, e.Reason)
}

// Server handles tile requests against an atlas handle.
type Server struct {
	handle *atlas.Handle
	log    *logrus.Logger
}

// New returns a server over the given atlas handle.
func New(h *atlas.Handle, log *logrus.Logger) *Server {
	return &Server{handle: h, log: log}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path == "/" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, indexPage)
		return
	}

	layer, z, x, y, format, err := parseTilePath(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := s.handle.RenderTile(layer, z, x, y, format)
	if err != nil {
		s.log.WithError(err).Error("tile render failed")
		http.Error(w, "tile render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Write(data)
}

// parseTilePath splits /{layer}/{z}/{x}/{y}.{ext} and validates every
// part. Anything off the scheme is a not-found, never a server error.
func parseTilePath(path string) (layer style.Layer, z, x, y uint32, format render.Format, err error) {
	fail := func(reason string) (style.Layer, uint32, uint32, uint32, render.Format, error) {
		return style.Layer{}, 0, 0, 0, 0, &ErrRequest{Path: path, Reason: reason}
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != 4 {
		return fail("not a tile path")
	}
	layer, ok := style.LayerByName(parts[0])
	if !ok {
		return fail("unknown layer")
	}

	last := parts[3]
	dot := strings.LastIndexByte(last, '.')
	if dot < 0 {
		return fail("missing format extension")
	}
	format, ok = render.ParseFormat(last[dot+1:])
	if !ok {
		return fail("unknown format extension")
	}

	z, err = parseCoord(parts[1])
	if err != nil {
		return fail("bad zoom")
	}
	x, err = parseCoord(parts[2])
	if err != nil {
		return fail("bad x")
	}
	y, err = parseCoord(last[:dot])
	if err != nil {
		return fail("bad y")
	}
	if z > geom.MaxZoom {
		return fail("zoom out of range")
	}
	if limit := uint32(1) << z; x >= limit || y >= limit {
		return fail("tile coordinate out of range")
	}
	return layer, z, x, y, format, nil
}

func parseCoord(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}
