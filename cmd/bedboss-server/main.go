// Command bedboss-server provides a REST API for bedboss operations.
//
// Usage:
//
//	bedboss-server [options]
//
// Options:
//
//	-config   YAML configuration file
//	-port     Port to listen on (default: server.port)
//	-host     Host to bind to (default: server.host)
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/databio/bedboss-sub000/api/handlers"
	"github.com/databio/bedboss-sub000/api/middleware"
	"github.com/databio/bedboss-sub000/internal/config"
	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

func main() {
	cfgFile := flag.String("config", "", "YAML configuration file")
	port := flag.Int("port", 0, "Port to listen on")
	host := flag.String("host", "", "Host to bind to")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.WithError(err).Fatal("could not load configuration")
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	level, _ := logrus.ParseLevel(cfg.Log.Level)
	log.SetLevel(level)

	api, err := newAPI(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("could not initialize")
	}

	addr := cfg.Server.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(api, cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("server is shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Fatal("could not gracefully shutdown")
		}
		close(done)
	}()

	log.WithField("addr", addr).Info("bedboss API server starting")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatalf("could not listen on %s", addr)
	}

	<-done
	log.Info("server stopped")
}

// newAPI loads the genome registry and excluded ranges named by cfg. Without
// a registry only classification and footprint endpoints are useful.
func newAPI(cfg *config.Config, log *logrus.Logger) (*handlers.API, error) {
	var (
		reg *bedboss.Registry
		err error
	)
	switch {
	case cfg.Registry.Path != "":
		reg, err = bedboss.LoadRegistry(cfg.Registry.Path)
	case cfg.Registry.ChromSizes != "":
		reg, err = bedboss.LoadChromSizesDir(cfg.Registry.ChromSizes)
	default:
		log.Warn("no genome registry configured")
	}
	if err != nil {
		return nil, err
	}

	p := bedboss.NewPipeline(reg)
	p.Logger = log
	p.AllowPartial = cfg.Classifier.AllowPartial
	p.Classifier.Options = cfg.Classifier.TableOptions()
	p.Classifier.Logger = log
	p.Validator.Exclude = cfg.Compatibility.Exclude
	p.Validator.Workers = cfg.Compatibility.Workers
	p.Validator.Logger = log

	if path := cfg.ExcludedRanges.Path; path != "" {
		x, err := bedboss.LoadExcludedRanges(path)
		if err != nil {
			return nil, err
		}
		p.Validator.Overlaps = x
	}

	api := handlers.New(p)
	api.MaxBodyBytes = cfg.Server.MaxBodyBytes
	api.Logger = log
	return api, nil
}

func newRouter(api *handlers.API, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bedboss.Version()))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/classify", api.ClassifyHandler)
		r.Post("/footprint", api.FootprintHandler)
		r.Post("/compatibility", api.CompatibilityHandler)
		r.Post("/predict", api.PredictHandler)
		r.Get("/genomes", api.GenomesHandler)
	})

	return r
}
