package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmdinternal "github.com/spacelift-io/gpuautoscalr/cmd/internal"
	gpuinternal "github.com/spacelift-io/gpuautoscalr/internal"
)

// Azure Functions custom handler for the GPU fleet autoscaler. The Functions
// host talks to it over HTTP on FUNCTIONS_CUSTOMHANDLER_PORT:
//   - the AutoscalerTimer timer trigger arrives as POST /AutoscalerTimer,
//   - the WorkerPing HTTP trigger (route "workers/{id}/ping") is forwarded
//     as-is, so it arrives under the default "api" route prefix. Requires
//     enableForwardingHttpRequest in host.json.

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var cfg gpuinternal.RuntimeConfig
	if err := cfg.Parse(gpuinternal.PlatformAzure); err != nil {
		logger.Error("failed to parse configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := gpuinternal.NewDynamoDBRegistry(ctx, &cfg)
	if err != nil {
		logger.Error("failed to create worker registry", "error", err)
		os.Exit(1)
	}

	port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/AutoscalerTimer", func(w http.ResponseWriter, r *http.Request) {
		handleAutoscaler(w, r, logger, &cfg)
	})

	mux.Handle("POST /api/workers/{id}/ping", &cmdinternal.PingHandler{
		Registry: registry,
		Token:    cfg.WorkerPingToken,
		Logger:   logger,
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("GPU Fleet Autoscaler Azure Function"))
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting Azure Functions custom handler", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("Shutdown signal received, starting graceful shutdown")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown due to timeout", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}

func handleAutoscaler(w http.ResponseWriter, r *http.Request, logger *slog.Logger, cfg *gpuinternal.RuntimeConfig) {
	startTime := time.Now()

	if invocationID := r.Header.Get("x-azure-functions-invocationid"); invocationID != "" {
		logger = logger.With("invocation_id", invocationID)
	}

	logger.Info("Autoscaler invoked")

	status, body := http.StatusOK, map[string]string{}

	if err := cmdinternal.Handle(r.Context(), logger, cfg, gpuinternal.PlatformAzure, nil); err != nil {
		logger.Error("autoscaling failed", "error", err, "duration", time.Since(startTime))
		status, body["error"] = http.StatusInternalServerError, err.Error()
	} else {
		logger.Info("Autoscaler completed successfully", "duration", time.Since(startTime))
		body["status"] = "success"
		body["duration"] = time.Since(startTime).String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}
