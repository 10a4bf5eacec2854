package internal

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/spacelift-io/gpuautoscalr/internal"
)

// PingHandler records heartbeats sent by the fleet's workers. When Token is
// set, requests must carry it as a bearer token; without it the endpoint
// relies on the platform's own invoker authentication.
type PingHandler struct {
	Registry internal.Registry
	Token    string
	Logger   *slog.Logger

	// Now is the ping time. Defaults to time.Now.
	Now func() time.Time
}

// Ping records a heartbeat for the worker and returns the HTTP status of the
// reply.
func (h *PingHandler) Ping(ctx context.Context, authorization, workerID string) int {
	logger := h.Logger.With("worker_id", workerID)

	if !h.authorized(authorization) {
		logger.Warn("rejected unauthorized ping")
		return http.StatusUnauthorized
	}

	if workerID == "" {
		return http.StatusBadRequest
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	err := h.Registry.RecordPing(ctx, workerID, now())

	switch {
	case errors.Is(err, internal.ErrWorkerNotFound):
		// The worker was reaped; it should shut itself down.
		return http.StatusNotFound
	case err != nil:
		logger.Error("could not record ping", "error", err)
		return http.StatusInternalServerError
	default:
		return http.StatusNoContent
	}
}

func (h *PingHandler) authorized(authorization string) bool {
	if h.Token == "" {
		return true
	}

	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(h.Token)) == 1
}

// ServeHTTP serves routes with an {id} path wildcard.
func (h *PingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.Ping(r.Context(), r.Header.Get("Authorization"), r.PathValue("id"))

	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(status)}); err != nil {
		h.Logger.Warn("failed to encode response", "error", err)
	}
}

// PingWorkerID extracts the worker ID from a "/workers/{id}/ping" path.
func PingWorkerID(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/workers/")
	if !ok {
		return "", false
	}

	workerID, ok := strings.CutSuffix(rest, "/ping")
	if !ok || workerID == "" || strings.Contains(workerID, "/") {
		return "", false
	}

	return workerID, true
}

// FunctionURLPing serves a heartbeat arriving through a Lambda function URL.
// It returns false when the event is not a function URL request, so the
// caller can treat it as a scheduled scaling invocation.
func (h *PingHandler) FunctionURLPing(ctx context.Context, payload json.RawMessage) (*events.LambdaFunctionURLResponse, bool) {
	var request events.LambdaFunctionURLRequest
	if err := json.Unmarshal(payload, &request); err != nil || request.RequestContext.HTTP.Method == "" {
		return nil, false
	}

	reply := func(status int) *events.LambdaFunctionURLResponse {
		return &events.LambdaFunctionURLResponse{StatusCode: status}
	}

	workerID, ok := PingWorkerID(request.RawPath)
	if !ok {
		return reply(http.StatusNotFound), true
	}

	if request.RequestContext.HTTP.Method != http.MethodPost {
		return reply(http.StatusMethodNotAllowed), true
	}

	// Function URLs lowercase header names.
	return reply(h.Ping(ctx, request.Headers["authorization"], workerID)), true
}
