package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"modcanvas/internal/canvas"
	"modcanvas/internal/config"
	"modcanvas/internal/handler"
	"modcanvas/internal/hub"
	"modcanvas/internal/render"
	"modcanvas/internal/repository/sqlite"
	"modcanvas/internal/service"
	"modcanvas/internal/watcher"
)

func serveCmd() *cobra.Command {
	var (
		addr         string
		watchCatalog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the canvas HTTP API and event stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch-catalog") {
				cfg.Catalog.Watch = watchCatalog
			}
			return serve(cfg, path)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":3000", "HTTP listen address")
	cmd.Flags().BoolVar(&watchCatalog, "watch-catalog", false, "Reload the catalog file when it changes")
	return cmd
}

func serve(cfg *config.Config, cfgPath string) error {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting modcanvas server...")
	if cfgPath != "" {
		log.Printf("Config loaded: %s", cfgPath)
	}
	log.Printf("Config: %s", cfg.Summary())

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize event bus and SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-ctx.Done():
				return
			}
		}
	}()

	store := canvas.NewStore(cfg.CanvasSettings())
	svc := service.NewCanvasService(store, cat, repo, eventBus)
	svc.SetPreviewOptions(render.Options{
		Width:      cfg.Canvas.Preview.Width,
		Height:     cfg.Canvas.Preview.Height,
		Background: render.BackgroundColor,
	})

	if cfg.Catalog.Watch {
		if cfg.Catalog.Path == "" {
			log.Println("Warning: catalog.watch set without catalog.path, nothing to watch")
		} else {
			watcher.WatchCatalog(ctx, cfg.Catalog.Path, svc.SetCatalog)
		}
	}

	// Setup routes
	mux := http.NewServeMux()
	handler.NewCanvasHandler(svc).RegisterRoutes(mux)
	mux.Handle("GET /events", sseHub)

	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}
