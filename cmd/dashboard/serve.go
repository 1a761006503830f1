package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/video-task-dashboard/internal/config"
	"github.com/yukikurage/video-task-dashboard/internal/constants"
	"github.com/yukikurage/video-task-dashboard/internal/handlers"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the overdue poller",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Set Gin mode
	gin.SetMode(a.cfg.GinMode)

	if a.aiService == nil {
		log.Println("OPENAI_API_KEY is not set, recommendations are disabled")
	}

	if err := a.poller.Start(ctx); err != nil {
		return err
	}
	defer a.poller.Stop()

	// Initialize Gin router
	r := gin.Default()

	store, err := newSessionStore(a.cfg)
	if err != nil {
		return err
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Dependencies{
		Tasks:     a.tasks,
		Views:     a.views,
		AIService: a.aiService,
		Editors:   a.cfg.Editors,
	})

	srv := &http.Server{
		Addr:    a.cfg.HTTPAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", a.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	options := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}

	switch cfg.SessionBackend {
	case "redis":
		store, err := redisStore.NewStore(
			10,              // Redis pool size
			"tcp",           // network type
			cfg.RedisAddr(), // Redis address from config
			"",              // username (empty for default user)
			"",              // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis session store: %w", err)
		}
		store.Options(options)
		return store, nil
	case "cookie", "":
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(options)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
