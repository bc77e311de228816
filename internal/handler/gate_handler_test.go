package handler

import (
	"TripGenie-App/internal/domain/gate"
	"TripGenie-App/internal/domain/projection"
	"TripGenie-App/internal/usecase"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViews(t *testing.T) {
	s := newTestServer(t, &fakePlanRepo{}, nil)
	id := s.startDashboard(t)

	w := s.do(http.MethodGet, "/trips/"+id+"/views/itinerary?day=2&collapsed=true", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	itinerary := decode[projection.ItineraryView](t, w)
	assert.True(t, itinerary.Header.Collapsed)
	require.Len(t, itinerary.Days, 3)
	assert.True(t, itinerary.Days[1].Selected)
	assert.False(t, itinerary.FlightBackup.Unlocked)
	assert.Empty(t, itinerary.FlightBackup.Content)

	w = s.do(http.MethodGet, "/trips/"+id+"/views/itinerary?day=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/trips/"+id+"/views/map?day=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mapView := decode[projection.MapView](t, w)
	assert.Len(t, mapView.Markers, 2)
	assert.Len(t, mapView.Paths, 1)
	assert.NotNil(t, mapView.FitBounds)

	w = s.do(http.MethodGet, "/trips/"+id+"/views/map?format=geojson", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 6+3, "マーカー6件と日ごとの経路3件")

	w = s.do(http.MethodGet, "/trips/"+id+"/views/map?format=kml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/trips/"+id+"/views/detail?day=1&activity=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[projection.DetailView](t, w)
	assert.Equal(t, "Ichiran", detail.PlaceName)
	assert.NotEmpty(t, detail.Links)

	w = s.do(http.MethodGet, "/trips/"+id+"/views/detail?day=1&activity=9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/trips/"+id+"/views/detail?day=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComparison(t *testing.T) {
	repo := &fakePlanRepo{standardErr: errors.New("status 503")}
	s := newTestServer(t, repo, nil)
	id := s.startDashboard(t)

	w := s.do(http.MethodPost, "/trips/"+id+"/comparison", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[projection.ComparisonView](t, w)
	assert.Equal(t, projection.ColumnReady, view.Current.Status)
	assert.Equal(t, projection.ColumnError, view.Baseline.Status, "比較用の失敗は列のエラーとして返す")

	repo.standardErr = nil
	w = s.do(http.MethodPost, "/trips/"+id+"/comparison", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[projection.ComparisonView](t, w)
	assert.Equal(t, projection.ColumnReady, view.Baseline.Status)
	assert.Len(t, view.Baseline.Days, 2)
}

// openGate はゲートを開始してIDを返す
func (s *testServer) openGate(t *testing.T, id string, feature gate.Feature) string {
	t.Helper()
	w := s.do(http.MethodPost, "/trips/"+id+"/gates", OpenGateRequest{Feature: feature})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[gate.Snapshot](t, w).ID
}

func TestExportGate(t *testing.T) {
	s := newTestServer(t, &fakePlanRepo{}, nil)
	id := s.startDashboard(t)

	gateID := s.openGate(t, id, gate.FeatureExport)

	w := s.do(http.MethodPost, "/trips/"+id+"/gates/"+gateID+"/claim", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "解除前は受け取れない")

	w = s.do(http.MethodPost, "/trips/"+id+"/gates/"+gateID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unlocked", decode[gate.Snapshot](t, w).State)

	w = s.do(http.MethodPost, "/trips/"+id+"/gates/"+gateID+"/claim?format=xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "不正なformatではゲートを消費しない")

	w = s.do(http.MethodPost, "/trips/"+id+"/gates/"+gateID+"/claim?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "TripGenie_Plan_")
	rows := readCSV(t, w.Body.Bytes())
	require.Len(t, rows, 1+6)
	assert.Equal(t, projection.ExportHeader, rows[0])
	assert.Equal(t, []string{"Day 1", "Theme 1", "Senso-ji", "Visit", "sightseeing", "Free"}, rows[1])

	w = s.do(http.MethodPost, "/trips/"+id+"/gates/"+gateID+"/claim", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "報酬は一度だけ")
}

func TestExportGate_PDF(t *testing.T) {
	s := newTestServer(t, &fakePlanRepo{}, nil)
	id := s.startDashboard(t)

	gateID := s.openGate(t, id, gate.FeatureExport)
	s.clock.Advance(gate.DefaultExportDuration)

	w := s.do(http.MethodPost, "/trips/"+id+"/gates/"+gateID+"/claim?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestDetailUnlockGate(t *testing.T) {
	s := newTestServer(t, &fakePlanRepo{}, nil)
	id := s.startDashboard(t)

	w := s.do(http.MethodPost, "/trips/"+id+"/gates", OpenGateRequest{Feature: gate.FeatureContinuation})
	assert.Equal(t, http.StatusBadRequest, w.Code, "継続ゲートは利用者から開始できない")

	gateID := s.openGate(t, id, gate.FeatureDetailUnlock)
	s.clock.Advance(gate.DefaultDetailUnlockDuration)

	w = s.do(http.MethodGet, "/trips/"+id+"/gates/"+gateID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unlocked", decode[gate.Snapshot](t, w).State)

	w = s.do(http.MethodPost, "/trips/"+id+"/gates/"+gateID+"/claim", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reward := decode[usecase.GateReward](t, w)
	assert.Equal(t, "Rest at the lounge", reward.FlightDelayBackup)

	w = s.do(http.MethodGet, "/trips/"+id+"/views/itinerary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	itinerary := decode[projection.ItineraryView](t, w)
	assert.True(t, itinerary.FlightBackup.Unlocked)
	assert.Equal(t, "Rest at the lounge", itinerary.FlightBackup.Content)

	w = s.do(http.MethodGet, "/trips/"+id+"/gates/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContinuationGateClaim(t *testing.T) {
	s := newTestServer(t, &fakePlanRepo{}, nil)

	w := s.do(http.MethodPost, "/trips", japanRequest())
	require.Equal(t, http.StatusAccepted, w.Code)
	status := decode[usecase.SessionStatus](t, w)
	require.NotNil(t, status.ContinuationGate)

	require.Eventually(t, func() bool {
		w := s.do(http.MethodGet, "/trips/"+status.SessionID, nil)
		return w.Code == http.StatusOK && decode[usecase.SessionStatus](t, w).PlanReady
	}, 2*time.Second, 5*time.Millisecond)

	s.clock.Advance(gate.DefaultContinuationDuration)
	w = s.do(http.MethodPost, "/trips/"+status.SessionID+"/gates/"+status.ContinuationGate.ID+"/claim", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reward := decode[usecase.GateReward](t, w)
	require.NotNil(t, reward.Status)
	assert.Equal(t, usecase.PhaseDashboard, reward.Status.Phase)
}

func TestFlightLink(t *testing.T) {
	s := newTestServer(t, &fakePlanRepo{}, nil)
	id := s.startDashboard(t)

	w := s.do(http.MethodGet, "/trips/"+id+"/links/flights", nil)
	require.Equal(t, http.StatusOK, w.Code)
	link := decode[usecase.FlightLink](t, w)
	assert.Equal(t, "https://www.skyscanner.com/transport/flights/singapore/japan/251010/251015", link.URL)
	assert.True(t, link.HasDates)

	w = s.do(http.MethodGet, "/trips/"+id+"/links/flights?qr=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}
