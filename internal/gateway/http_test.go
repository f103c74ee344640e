package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/punchcard/internal/punch"
)

func jsonServer(t *testing.T, status int, response string, capture *[]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if capture != nil {
			*capture = body
		}
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPGeofence_Check(t *testing.T) {
	var body []byte
	srv := jsonServer(t, http.StatusOK, `{"allowed": true}`, &body)

	g := NewHTTPGeofence(srv.URL)
	allowed, err := g.Check(context.Background(), "sector-7", -23.5616, -46.6559)
	require.NoError(t, err)
	assert.True(t, allowed)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, "sector-7", req["sectorId"])
	assert.InDelta(t, -23.5616, req["lat"], 1e-9)
	assert.InDelta(t, -46.6559, req["lon"], 1e-9)
}

func TestHTTPGeofence_ServerErrorIsError(t *testing.T) {
	srv := jsonServer(t, http.StatusInternalServerError, "", nil)

	g := NewHTTPGeofence(srv.URL)
	_, err := g.Check(context.Background(), "sector-7", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPGeofence_UnreachableIsError(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"allowed": true}`, nil)
	srv.Close()

	g := NewHTTPGeofence(srv.URL)
	_, err := g.Check(context.Background(), "sector-7", 0, 0)
	assert.Error(t, err)
}

func TestHTTPBiometric_Match(t *testing.T) {
	var body []byte
	srv := jsonServer(t, http.StatusOK, `{"matched": true, "confidence": 0.93}`, &body)

	b := NewHTTPBiometric(srv.URL)
	res, err := b.Match(context.Background(), "user-42", []float64{0.1, 0.2})
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.InDelta(t, 0.93, res.Confidence, 1e-9)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, "user-42", req["userId"])
}

func TestHTTPSubmitter_Submit(t *testing.T) {
	var body []byte
	srv := jsonServer(t, http.StatusCreated, "", &body)

	ts, err := punch.ParseTimeOfDay("08:00:00")
	require.NoError(t, err)
	s := NewHTTPSubmitter(srv.URL, "user-42")
	err = s.Submit(context.Background(), punch.Record{
		ID:        "rec-1",
		Type:      punch.ClockIn,
		Timestamp: ts,
		Location:  "-23.561600,-46.655900",
	})
	require.NoError(t, err)

	var req map[string]any
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, "rec-1", req["id"])
	assert.Equal(t, "user-42", req["userId"])
	assert.Equal(t, "clock_in", req["type"])
	assert.Equal(t, "08:00:00", req["timestamp"])
	assert.Equal(t, "-23.561600,-46.655900", req["location"])
}

func TestHTTPSubmitter_RejectedStatusIsError(t *testing.T) {
	srv := jsonServer(t, http.StatusConflict, "", nil)

	s := NewHTTPSubmitter(srv.URL, "user-42")
	err := s.Submit(context.Background(), punch.Record{ID: "rec-1", Type: punch.ClockIn})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 409")
}

func TestHTTPAuditSink_NormalizesToNFC(t *testing.T) {
	var irBody, alertBody []byte
	irSrv := jsonServer(t, http.StatusOK, "", &irBody)
	alertSrv := jsonServer(t, http.StatusOK, "", &alertBody)

	// "José" with a combining acute accent (NFD form).
	nfdName := "José"

	sink := NewHTTPAuditSink(irSrv.URL, alertSrv.URL)
	require.NoError(t, sink.ReportIrregularity(context.Background(), Irregularity{
		UserID:   nfdName,
		SectorID: "sector-7",
		Reason:   "fora da cerca",
	}))
	require.NoError(t, sink.AlertManager(context.Background(), ManagerAlert{
		UserID:   nfdName,
		SectorID: "sector-7",
		Message:  "batida bloqueada",
		Metadata: AlertMetadata{Tipo: "clock_in", Horario: "08:00:00"},
	}))

	var ir Irregularity
	require.NoError(t, json.Unmarshal(irBody, &ir))
	assert.Equal(t, "José", ir.UserID, "NFD input stored as precomposed NFC")

	var alert ManagerAlert
	require.NoError(t, json.Unmarshal(alertBody, &alert))
	assert.Equal(t, "José", alert.UserID)
	assert.Equal(t, "clock_in", alert.Metadata.Tipo)
	assert.Equal(t, "08:00:00", alert.Metadata.Horario)
}
