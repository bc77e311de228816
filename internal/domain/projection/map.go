package projection

import (
	"TripGenie-App/internal/domain/model"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// MapFitPadding は表示範囲を合わせるときの余白（px）
const MapFitPadding = 50

const (
	ColorFood      = "#EF4444"
	ColorTransport = "#10B981"
	ColorHotel     = "#8B5CF6"
	ColorDefault   = "#3B82F6"

	PathColorEven = "#4F46E5"
	PathColorOdd  = "#0ea5e9"
)

// MapState は地図のローカルなUI状態
type MapState struct {
	SelectedDay *int
}

// Marker は地図上の1地点。Numberは一覧と同じ日内の1始まりの番号
type Marker struct {
	DayNumber    int                `json:"day_number"`
	Number       int                `json:"number"`
	PlaceName    string             `json:"place_name"`
	Action       string             `json:"action"`
	CostEstimate string             `json:"cost_estimate,omitempty"`
	Type         model.ActivityType `json:"type"`
	Color        string             `json:"color"`
	Latitude     float64            `json:"latitude"`
	Longitude    float64            `json:"longitude"`
}

// Path は1日分の移動経路。座標は [経度, 緯度] の順
type Path struct {
	DayNumber    int            `json:"day_number"`
	Color        string         `json:"color"`
	Dashed       bool           `json:"dashed"`
	Points       orb.LineString `json:"points"`
	LengthMeters float64        `json:"length_meters"`
}

// Bounds は表示範囲（南西・北東）
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// MapView は地図画面の描画内容
type MapView struct {
	SelectedDay *int     `json:"selected_day,omitempty"`
	Markers     []Marker `json:"markers"`
	Paths       []Path   `json:"paths"`
	FitBounds   *Bounds  `json:"fit_bounds,omitempty"`
	Padding     int      `json:"padding"`
}

// MarkerColor はアクティビティ種別ごとのマーカー色
func MarkerColor(t model.ActivityType) string {
	switch t {
	case model.ActivityTypeFood:
		return ColorFood
	case model.ActivityTypeTransport:
		return ColorTransport
	case model.ActivityTypeHotel:
		return ColorHotel
	default:
		return ColorDefault
	}
}

// ProjectMap はドキュメントと選択中の日から地図を組み立てる
//
// 日が選択されていればその日のマーカーと実線の経路のみ、未選択なら全日程を点線で描画する。
// 描画できない座標のアクティビティはスキップされるが番号は詰めない。
// 表示範囲は実際に描画した地点だけから計算する。
func ProjectMap(plan *model.TripPlan, state MapState) MapView {
	view := MapView{
		Markers: []Marker{},
		Paths:   []Path{},
		Padding: MapFitPadding,
	}
	if plan == nil {
		return view
	}

	days := plan.Days
	if state.SelectedDay != nil {
		selected := *state.SelectedDay
		view.SelectedDay = &selected
		days = nil
		for _, day := range plan.Days {
			if day.DayNumber == selected {
				days = append(days, day)
			}
		}
	}

	var rendered orb.MultiPoint
	for dayIndex, day := range days {
		var line orb.LineString
		for i, act := range day.Activities {
			if !act.HasCoordinates() {
				continue
			}
			point := orb.Point{act.Longitude, act.Latitude}
			line = append(line, point)
			rendered = append(rendered, point)

			view.Markers = append(view.Markers, Marker{
				DayNumber:    day.DayNumber,
				Number:       i + 1,
				PlaceName:    act.PlaceName,
				Action:       act.Action,
				CostEstimate: act.CostEstimate,
				Type:         act.Type,
				Color:        MarkerColor(act.Type),
				Latitude:     act.Latitude,
				Longitude:    act.Longitude,
			})
		}

		if len(line) < 2 {
			continue
		}
		color := PathColorEven
		if dayIndex%2 == 1 {
			color = PathColorOdd
		}
		view.Paths = append(view.Paths, Path{
			DayNumber:    day.DayNumber,
			Color:        color,
			Dashed:       state.SelectedDay == nil,
			Points:       line,
			LengthMeters: geo.Length(line),
		})
	}

	if len(rendered) > 0 {
		bound := rendered.Bound()
		view.FitBounds = &Bounds{
			South: bound.Bottom(),
			West:  bound.Left(),
			North: bound.Top(),
			East:  bound.Right(),
		}
	}
	return view
}

// FeatureCollection は地図をGeoJSONとして返す
func (v MapView) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, m := range v.Markers {
		f := geojson.NewFeature(orb.Point{m.Longitude, m.Latitude})
		f.Properties["kind"] = "marker"
		f.Properties["day_number"] = m.DayNumber
		f.Properties["number"] = m.Number
		f.Properties["place_name"] = m.PlaceName
		f.Properties["action"] = m.Action
		f.Properties["type"] = string(m.Type)
		f.Properties["color"] = m.Color
		if m.CostEstimate != "" {
			f.Properties["cost_estimate"] = m.CostEstimate
		}
		fc.Append(f)
	}

	for _, p := range v.Paths {
		f := geojson.NewFeature(p.Points)
		f.Properties["kind"] = "path"
		f.Properties["day_number"] = p.DayNumber
		f.Properties["color"] = p.Color
		f.Properties["dashed"] = p.Dashed
		f.Properties["length_meters"] = p.LengthMeters
		fc.Append(f)
	}

	if b := v.FitBounds; b != nil {
		fc.BBox = geojson.NewBBox(orb.Bound{
			Min: orb.Point{b.West, b.South},
			Max: orb.Point{b.East, b.North},
		})
	}
	return fc
}
