// Command railmap serves railway history map tiles.
//
// It loads a TOML configuration, evaluates the configured map sources into
// an atlas and serves slippy-map tiles over HTTP, reloading the atlas when
// sources change on disk.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"

	"github.com/railmap/railmap/internal/atlas"
	"github.com/railmap/railmap/internal/config"
	"github.com/railmap/railmap/internal/server"
	"github.com/railmap/railmap/internal/watch"
)

const reloadDebounce = 500 * time.Millisecond

type regionList []string

func (r *regionList) String() string { return fmt.Sprint(*r) }

func (r *regionList) Set(v string) error {
	*r = append(*r, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		flags      = flag.NewFlagSet("railmap", flag.ExitOnError)
		configFile = flags.String("m", "config.toml", "map definition file")
		listen     = flags.String("l", "", "listen address (overrides the config)")
		level      = flags.String("log", "info", "log level")
		regions    regionList
	)
	flags.Var(&regions, "r", "region to load (repeatable, default all)")
	flags.Parse(args)

	log := newLog(*level)

	h, err := atlas.Open(*configFile, regions, log)
	if err != nil {
		log.WithError(err).Error("startup failed")
		var cfgErr *config.ErrConfig
		if errors.As(err, &cfgErr) {
			return 2
		}
		return 1
	}

	w, err := watch.New(h.Config().WatchDirs(), reloadDebounce, log, func() {
		// Reload logs its own outcome; a failed reload keeps serving
		// the previous atlas.
		_ = h.Reload()
	})
	if err != nil {
		log.WithError(err).Error("starting file watcher")
		return 1
	}
	defer w.Close()

	addr := h.Config().Server.Listen
	if *listen != "" {
		addr = *listen
	}
	log.WithField("listen", addr).Info("serving tiles")
	if err := http.ListenAndServe(addr, server.New(h, log)); err != nil {
		log.WithError(err).Error("http server failed")
		return 1
	}
	return 0
}

func newLog(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&nested.Formatter{
		HideKeys:        false,
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	log.SetOutput(os.Stdout)
	if lv, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lv)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
