package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Brownie44l1/photovocalizer/internal/app"
	"github.com/Brownie44l1/photovocalizer/internal/handlers"
	"github.com/Brownie44l1/photovocalizer/internal/history"
	"github.com/Brownie44l1/photovocalizer/internal/notify"
	"github.com/Brownie44l1/photovocalizer/internal/websocket"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Port = servePort
		}
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	classifier, cleanup, err := newClassifier(cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize model: %w", err)
	}
	defer cleanup()

	store, err := history.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	recognizer, err := newRecognizer(cfg)
	if err != nil {
		return fmt.Errorf("failed to load speech model: %w", err)
	}
	if recognizer != nil {
		defer recognizer.Close()
	} else {
		appLog.Warning("VOSK_MODEL_PATH not set, /voice/audio is disabled")
	}

	a := newApp(cfg, appLog, classifier, store)
	notifyEvents(a, notify.New(cfg.Notifications))

	hub := websocket.NewHub(appLog)
	go hub.Run(ctx)
	a.Subscribe(func(e app.Event) {
		data, err := json.Marshal(e)
		if err != nil {
			appLog.Error("Failed to encode event: %v", err)
			return
		}
		hub.Broadcast(data)
	})

	handler := handlers.NewHandler(handlers.Options{
		App:        a,
		Recognizer: recognizer,
		History:    store,
		Logger:     appLog,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.Routes(handler, hub),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("Server starting on port %d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
