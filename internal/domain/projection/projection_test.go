package projection

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"TripGenie-App/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func samplePlan() *model.TripPlan {
	return &model.TripPlan{
		Summary:         "Tokyo & Kyoto",
		EstimatedBudget: "$1,200",
		DateReasoning:   "Cherry blossom season",
		WeatherForecast: "Mild",
		TransportAdvice: "Get a Suica card",
		Warnings:        []string{"Crowds at Shibuya"},
		PackingList:     []string{"Walking shoes"},
		SuggestedHotels: []model.HotelSuggestion{{Name: "Hotel Gracery", PriceRange: "$150/night"}},
		Days: []model.DayPlan{
			{
				DayNumber: 1,
				Theme:     "Old Tokyo",
				Activities: []model.Activity{
					{PlaceName: "Senso-ji", Action: "Visit the temple", Latitude: 35.7148, Longitude: 139.7967, Type: model.ActivityTypeSightseeing},
					{PlaceName: "Mystery stall", Action: "Snack", Type: model.ActivityTypeFood},
					{PlaceName: "Ichiran, Shibuya", Action: "Eat \"tonkotsu\" ramen", Latitude: 35.6595, Longitude: 139.7005, Type: model.ActivityTypeFood, CostEstimate: "¥1,500"},
				},
			},
			{
				DayNumber: 2,
				Theme:     "Kyoto",
				Activities: []model.Activity{
					{PlaceName: "Shinkansen", Action: "Ride to Kyoto", Latitude: 35.6812, Longitude: 139.7671, Type: model.ActivityTypeTransport},
					{PlaceName: "Hotel Granvia", Action: "Check in", Latitude: 34.9858, Longitude: 135.7588, Type: model.ActivityTypeHotel},
				},
			},
			{
				DayNumber: 3,
				Theme:     "Free day",
				Activities: []model.Activity{
					{PlaceName: "Fushimi Inari", Action: "Hike", Latitude: 34.9671, Longitude: 135.7727, Type: model.ActivityTypeOther},
				},
			},
		},
	}
}

func TestProjectItinerary(t *testing.T) {
	plan := samplePlan()
	before := plan.Clone()

	view := ProjectItinerary(plan, ListState{SelectedDay: intPtr(2)})

	assert.Equal(t, before, plan, "射影はドキュメントを変更しない")
	assert.Equal(t, "Flexible", view.Header.SuggestedDates)
	assert.Equal(t, "Cherry blossom season", view.Header.DateReasoning)
	require.Len(t, view.Days, 3)
	assert.Equal(t, "Day 1: Old Tokyo", view.Days[0].Title)
	assert.False(t, view.Days[0].Selected)
	assert.True(t, view.Days[1].Selected)

	day1 := view.Days[0].Activities
	assert.Equal(t, []int{1, 2, 3}, []int{day1[0].Number, day1[1].Number, day1[2].Number})
	assert.False(t, day1[1].OnMap, "座標なしはリストには残るが地図には載らない")
	assert.Contains(t, view.Days[1].Activities[1].HotelBookingURL, "booking.com")

	require.Len(t, view.Hotels, 1)
	assert.Equal(t, "https://www.booking.com/searchresults.html?ss=Hotel+Gracery", view.Hotels[0].BookingURL)

	assert.False(t, view.FlightBackup.Unlocked)
	assert.Empty(t, view.FlightBackup.Content)

	again := ProjectItinerary(plan, ListState{SelectedDay: intPtr(2)})
	assert.Equal(t, view, again, "同じ入力には同じ結果")
}

func TestProjectItinerary_CollapsedAndUnlocked(t *testing.T) {
	plan := samplePlan()
	view := ProjectItinerary(plan, ListState{HeaderCollapsed: true, FlightBackupUnlocked: true})

	assert.True(t, view.Header.Collapsed)
	assert.Empty(t, view.Header.DateReasoning)
	assert.True(t, view.FlightBackup.Unlocked)
	assert.Equal(t, model.DefaultFlightDelayBackup, view.FlightBackup.Content)

	plan.FlightDelayBackup = "Take the airport express"
	view = ProjectItinerary(plan, ListState{FlightBackupUnlocked: true})
	assert.Equal(t, "Take the airport express", view.FlightBackup.Content)
}

func TestProjectMap_AllDays(t *testing.T) {
	view := ProjectMap(samplePlan(), MapState{})

	require.Len(t, view.Markers, 5, "座標なしの1件は除外")
	assert.Equal(t, 3, view.Markers[1].Number, "番号はリスト上の位置のまま")
	assert.Equal(t, ColorDefault, view.Markers[0].Color)
	assert.Equal(t, ColorFood, view.Markers[1].Color)
	assert.Equal(t, ColorTransport, view.Markers[2].Color)
	assert.Equal(t, ColorHotel, view.Markers[3].Color)

	require.Len(t, view.Paths, 2, "1点しか無い日は経路なし")
	assert.Equal(t, PathColorEven, view.Paths[0].Color)
	assert.Equal(t, PathColorOdd, view.Paths[1].Color)
	for _, p := range view.Paths {
		assert.True(t, p.Dashed)
		assert.Greater(t, p.LengthMeters, 0.0)
	}

	require.NotNil(t, view.FitBounds)
	assert.Equal(t, MapFitPadding, view.Padding)
	assert.InDelta(t, 34.9671, view.FitBounds.South, 1e-9)
	assert.InDelta(t, 35.7148, view.FitBounds.North, 1e-9)
	assert.InDelta(t, 135.7588, view.FitBounds.West, 1e-9)
	assert.InDelta(t, 139.7967, view.FitBounds.East, 1e-9)
}

func TestProjectMap_SelectedDay(t *testing.T) {
	view := ProjectMap(samplePlan(), MapState{SelectedDay: intPtr(2)})

	require.Len(t, view.Markers, 2)
	for _, m := range view.Markers {
		assert.Equal(t, 2, m.DayNumber)
	}
	require.Len(t, view.Paths, 1)
	assert.False(t, view.Paths[0].Dashed)
	assert.Equal(t, PathColorEven, view.Paths[0].Color, "描画した日の中での順番で色が決まる")

	require.NotNil(t, view.FitBounds)
	assert.InDelta(t, 34.9858, view.FitBounds.South, 1e-9)
	assert.InDelta(t, 35.6812, view.FitBounds.North, 1e-9)
}

func TestProjectMap_NoRenderablePoints(t *testing.T) {
	plan := &model.TripPlan{Days: []model.DayPlan{{
		DayNumber:  1,
		Activities: []model.Activity{{PlaceName: "Somewhere", Action: "Wander", Type: model.ActivityTypeOther}},
	}}}

	view := ProjectMap(plan, MapState{})
	assert.Empty(t, view.Markers)
	assert.Empty(t, view.Paths)
	assert.Nil(t, view.FitBounds)

	empty := ProjectMap(samplePlan(), MapState{SelectedDay: intPtr(9)})
	assert.Empty(t, empty.Markers)
	assert.Nil(t, empty.FitBounds)
}

func TestMapView_FeatureCollection(t *testing.T) {
	fc := ProjectMap(samplePlan(), MapState{}).FeatureCollection()

	assert.Len(t, fc.Features, 7)
	assert.Len(t, fc.BBox, 4)

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"FeatureCollection"`)
	assert.Contains(t, string(raw), `"kind":"path"`)
}

func TestProjectComparison(t *testing.T) {
	current := samplePlan()

	loading := ProjectComparison(current, nil, nil)
	assert.Equal(t, ColumnReady, loading.Current.Status)
	assert.Equal(t, ColumnLoading, loading.Baseline.Status)
	assert.Len(t, loading.Current.Days, 3)

	failed := ProjectComparison(current, nil, errors.New("boom"))
	assert.Equal(t, ColumnError, failed.Baseline.Status)
	assert.Equal(t, "boom", failed.Baseline.Error)
	assert.Len(t, failed.Current.Days, 3, "比較列の失敗は現在のプランに影響しない")

	baseline := samplePlan()
	baseline.Days = baseline.Days[:1]
	ready := ProjectComparison(current, baseline, nil)
	assert.Equal(t, ColumnReady, ready.Baseline.Status)
	require.Len(t, ready.Baseline.Days, 1)
	assert.Equal(t, "Senso-ji", ready.Baseline.Days[0].Entries[0].PlaceName)
}

func TestProjectDetail(t *testing.T) {
	plan := samplePlan()

	detail, err := ProjectDetail(plan, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Senso-ji", detail.PlaceName)
	assert.Contains(t, detail.Description, "must-visit")
	assert.NotEmpty(t, detail.Links)

	_, err = ProjectDetail(plan, 1, 4)
	assert.ErrorIs(t, err, model.ErrActivityNotFound)
	_, err = ProjectDetail(plan, 7, 1)
	assert.ErrorIs(t, err, model.ErrActivityNotFound)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePlan()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, ExportHeader, records[0])
	assert.Equal(t, []string{"Day 1", "Old Tokyo", "Ichiran, Shibuya", "Eat \"tonkotsu\" ramen", "food", "¥1,500"}, records[3])
	assert.Equal(t, "Day 3", records[6][0])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, samplePlan()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 4, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "TripGenie_Plan_2025-04-01.csv", ExportFileName(now, "csv"))
	assert.Equal(t, "TripGenie_Plan_2025-04-01.pdf", ExportFileName(now, "pdf"))
}
