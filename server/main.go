package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

type options struct {
	addr         string
	clientDir    string
	dbPath       string
	tuningPath   string
	publicURL    string
	endOnDefeat  bool
	seatPassword string
	secret       string
}

func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", ":8080", "HTTP listen address")
	flag.StringVar(&opts.clientDir, "client", "", "Directory of static client files (optional)")
	flag.StringVar(&opts.dbPath, "db", "brandonjj.db", "SQLite database path, empty to disable persistence")
	flag.StringVar(&opts.tuningPath, "tuning", "", "YAML tuning file, reloaded on change (optional)")
	flag.StringVar(&opts.publicURL, "public-url", "", "Base URL encoded in /qr join links")
	flag.BoolVar(&opts.endOnDefeat, "end-on-defeat", false, "Freeze the round when the boss or a player reaches zero health")
	flag.StringVar(&opts.seatPassword, "seat-password", "", "Password required to claim a seat (optional)")
	flag.StringVar(&opts.secret, "secret", "", "Hex seat-token signing secret (default: stored in the database)")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tuning, err := LoadTuning(opts.tuningPath)
	if err != nil {
		return err
	}

	var db *DB
	if opts.dbPath != "" {
		db, err = OpenDB(opts.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Printf("Persisting rounds to %s", opts.dbPath)
	}

	analytics := NewAnalytics(db)
	defer analytics.Stop()

	secret, err := loadOrCreateSecret(db, opts.secret)
	if err != nil {
		return err
	}
	auth, err := NewSeatAuth(secret, opts.seatPassword)
	if err != nil {
		return err
	}

	sess, err := NewSession(SessionOptions{
		Tuning:      tuning,
		Auth:        auth,
		DB:          db,
		Analytics:   analytics,
		EndOnDefeat: opts.endOnDefeat,
	})
	if err != nil {
		return err
	}
	hub := NewHub(sess)
	mux := SetupRoutes(hub, RouteOptions{
		ClientDir: opts.clientDir,
		PublicURL: opts.publicURL,
		DB:        db,
		Analytics: analytics,
	})
	server := &http.Server{Addr: opts.addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sess.Run(ctx) })
	g.Go(func() error {
		hub.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		log.Printf("Server starting on %s", opts.addr)
		if opts.clientDir != "" {
			log.Printf("Serving client files from %s", opts.clientDir)
		}
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if opts.tuningPath != "" {
		w, err := NewTuningWatcher(opts.tuningPath)
		if err != nil {
			log.Printf("config: hot reload disabled: %v", err)
		} else {
			g.Go(func() error { return w.Run(ctx) })
			g.Go(func() error { return reloadTuning(ctx, w, sess) })
		}
	}

	return g.Wait()
}
