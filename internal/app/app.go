package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/perchapp/perch/internal/config"
	"github.com/perchapp/perch/internal/demoserver"
	"github.com/perchapp/perch/internal/mutate"
	"github.com/perchapp/perch/internal/prefs"
	"github.com/perchapp/perch/internal/roost"
	"github.com/perchapp/perch/internal/state"
	"github.com/perchapp/perch/internal/ui"
)

// Options configure the perch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/perch/prefs.toml
	Server     string // overrides the configured Roost server
	Demo       bool   // run against an embedded seeded server
}

// Run boots the perch TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Server != "" {
		cfg.Server = opts.Server
	}
	if opts.Demo && cfg.UserID == "" {
		cfg.UserID = "u-demo"
		cfg.Name = "Demo User"
		cfg.Username = "demo"
	}
	if cfg.UserID == "" {
		return fmt.Errorf("no user_id configured; set one in the config file or pass -demo")
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	if opts.Demo {
		addr, err := startDemoServer(ctx, cfg.UserID)
		if err != nil {
			return fmt.Errorf("start demo server: %w", err)
		}
		cfg.Server = addr
	}

	client, err := roost.NewClient(cfg.Server)
	if err != nil {
		return fmt.Errorf("init roost client: %w", err)
	}

	store := &state.Store{}
	controller := mutate.New(store, client)

	uiOpts := ui.Options{
		Context:    ctx,
		Client:     client,
		Store:      store,
		Controller: controller,
		Config:     &cfg,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// startDemoServer serves the embedded Roost API on a loopback port and
// returns its address. The listener is torn down when ctx is cancelled.
func startDemoServer(ctx context.Context, viewerID string) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}

	srv := &http.Server{Handler: demoserver.New(viewerID).Router()}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("demo server: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return ln.Addr().String(), nil
}
