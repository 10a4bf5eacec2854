package internal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	cmdinternal "github.com/spacelift-io/gpuautoscalr/cmd/internal"
	"github.com/spacelift-io/gpuautoscalr/internal"
)

const workerID = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

var pingNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// pingRecorder implements only the RecordPing part of the registry.
type pingRecorder struct {
	internal.Registry

	pings map[string]time.Time
	err   error
}

func (r *pingRecorder) RecordPing(_ context.Context, workerID string, at time.Time) error {
	if r.err != nil {
		return r.err
	}

	r.pings[workerID] = at
	return nil
}

func setupPingHandler(token string) (*cmdinternal.PingHandler, *pingRecorder) {
	recorder := &pingRecorder{pings: map[string]time.Time{}}

	return &cmdinternal.PingHandler{
		Registry: recorder,
		Token:    token,
		Logger:   slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Now:      func() time.Time { return pingNow },
	}, recorder
}

func TestPingHandler_RecordsPing(t *testing.T) {
	sut, recorder := setupPingHandler("")

	status := sut.Ping(t.Context(), "", workerID)

	require.Equal(t, http.StatusNoContent, status)
	require.Equal(t, pingNow, recorder.pings[workerID])
}

func TestPingHandler_UnknownWorker_ReturnsNotFound(t *testing.T) {
	sut, recorder := setupPingHandler("")
	recorder.err = fmt.Errorf("could not update worker %s: %w", workerID, internal.ErrWorkerNotFound)

	require.Equal(t, http.StatusNotFound, sut.Ping(t.Context(), "", workerID))
}

func TestPingHandler_RegistryFails_ReturnsServerError(t *testing.T) {
	sut, recorder := setupPingHandler("")
	recorder.err = errors.New("bacon")

	require.Equal(t, http.StatusInternalServerError, sut.Ping(t.Context(), "", workerID))
}

func TestPingHandler_Token(t *testing.T) {
	for _, tc := range []struct {
		name          string
		authorization string
		want          int
	}{
		{name: "missing", authorization: "", want: http.StatusUnauthorized},
		{name: "wrong", authorization: "Bearer nope", want: http.StatusUnauthorized},
		{name: "not a bearer token", authorization: "s3cret", want: http.StatusUnauthorized},
		{name: "valid", authorization: "Bearer s3cret", want: http.StatusNoContent},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sut, recorder := setupPingHandler("s3cret")

			require.Equal(t, tc.want, sut.Ping(t.Context(), tc.authorization, workerID))

			_, recorded := recorder.pings[workerID]
			require.Equal(t, tc.want == http.StatusNoContent, recorded)
		})
	}
}

func TestPingHandler_ServeHTTP(t *testing.T) {
	sut, recorder := setupPingHandler("s3cret")

	mux := http.NewServeMux()
	mux.Handle("POST /workers/{id}/ping", sut)

	req := httptest.NewRequest(http.MethodPost, "/workers/"+workerID+"/ping", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, recorder.pings, workerID)

	req = httptest.NewRequest(http.MethodPost, "/workers/"+workerID+"/ping", nil)
	rec = httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestPingWorkerID(t *testing.T) {
	for _, tc := range []struct {
		path string
		want string
		ok   bool
	}{
		{path: "/workers/" + workerID + "/ping", want: workerID, ok: true},
		{path: "/workers//ping"},
		{path: "/workers/a/b/ping"},
		{path: "/workers/" + workerID},
		{path: "/scale"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := cmdinternal.PingWorkerID(tc.path)

			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func functionURLEvent(t *testing.T, method, path string, headers map[string]string) json.RawMessage {
	t.Helper()

	request := events.LambdaFunctionURLRequest{RawPath: path, Headers: headers}
	request.RequestContext.HTTP.Method = method

	payload, err := json.Marshal(request)
	require.NoError(t, err)

	return payload
}

func TestFunctionURLPing(t *testing.T) {
	sut, recorder := setupPingHandler("s3cret")

	response, ok := sut.FunctionURLPing(t.Context(), functionURLEvent(t, http.MethodPost, "/workers/"+workerID+"/ping",
		map[string]string{"authorization": "Bearer s3cret"}))

	require.True(t, ok)
	require.Equal(t, http.StatusNoContent, response.StatusCode)
	require.Equal(t, pingNow, recorder.pings[workerID])
}

func TestFunctionURLPing_WrongMethodOrPath(t *testing.T) {
	sut, _ := setupPingHandler("")

	response, ok := sut.FunctionURLPing(t.Context(), functionURLEvent(t, http.MethodGet, "/workers/"+workerID+"/ping", nil))
	require.True(t, ok)
	require.Equal(t, http.StatusMethodNotAllowed, response.StatusCode)

	response, ok = sut.FunctionURLPing(t.Context(), functionURLEvent(t, http.MethodPost, "/scale", nil))
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestFunctionURLPing_ScheduledEventIsNotAPing(t *testing.T) {
	sut, recorder := setupPingHandler("")

	scheduled := json.RawMessage(`{"version":"0","id":"89d1a02d","detail-type":"Scheduled Event","source":"aws.events","detail":{}}`)

	_, ok := sut.FunctionURLPing(t.Context(), scheduled)

	require.False(t, ok)
	require.Empty(t, recorder.pings)
}
