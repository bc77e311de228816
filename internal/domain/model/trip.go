package model

import (
	"math"
	"strings"
)

// ActivityType はアクティビティの種別
type ActivityType string

const (
	ActivityTypeSightseeing ActivityType = "sightseeing"
	ActivityTypeFood        ActivityType = "food"
	ActivityTypeTransport   ActivityType = "transport"
	ActivityTypeHotel       ActivityType = "hotel"
	ActivityTypeOther       ActivityType = "other"
)

// Valid は生成サービスのスキーマで許可された種別かどうかを判定する
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeSightseeing, ActivityTypeFood, ActivityTypeTransport, ActivityTypeHotel, ActivityTypeOther:
		return true
	default:
		return false
	}
}

// Activity は1日の中の1つの立ち寄り先
type Activity struct {
	PlaceName    string       `json:"place_name"`
	Action       string       `json:"action"`                  // ここで何をするか
	Description  string       `json:"description,omitempty"`   // 詳細表示用の説明
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	TransportTip string       `json:"transport_tip,omitempty"`
	Type         ActivityType `json:"type"`
	CostEstimate string       `json:"cost_estimate,omitempty"`
}

// HasCoordinates は地図に描画できる座標を持つかどうかを判定する
// 非有限値・範囲外・(0,0) は描画不可として扱う（リストには表示される）
func (a Activity) HasCoordinates() bool {
	if math.IsNaN(a.Latitude) || math.IsNaN(a.Longitude) || math.IsInf(a.Latitude, 0) || math.IsInf(a.Longitude, 0) {
		return false
	}
	if a.Latitude < -90 || a.Latitude > 90 || a.Longitude < -180 || a.Longitude > 180 {
		return false
	}
	return !(a.Latitude == 0 && a.Longitude == 0)
}

// IsHotel はホテル扱いのアクティビティかどうか
func (a Activity) IsHotel() bool {
	return a.Type == ActivityTypeHotel || strings.Contains(strings.ToLower(a.PlaceName), "hotel")
}

// HotelSuggestion はホテル未指定時に提案される宿泊先
type HotelSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceRange  string `json:"price_range"`
}

// DayPlan は1日分の行程。Activitiesの順序は訪問順
type DayPlan struct {
	DayNumber  int        `json:"day_number"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

// TripPlan は旅程ドキュメント全体
// セッション中は常に丸ごと置き換えられ、部分的に書き換えられることはない
type TripPlan struct {
	Summary           string            `json:"trip_summary"`
	EstimatedBudget   string            `json:"estimated_budget"`
	SuggestedDates    string            `json:"suggested_dates,omitempty"`
	DateReasoning     string            `json:"date_reasoning,omitempty"`
	SuggestedHotels   []HotelSuggestion `json:"suggested_hotels,omitempty"`
	Warnings          []string          `json:"warnings"`
	PackingList       []string          `json:"packing_list"`
	WeatherForecast   string            `json:"weather_forecast"`
	TransportAdvice   string            `json:"transport_advice"`
	FlightDelayBackup string            `json:"flight_delay_backup,omitempty"`
	Days              []DayPlan         `json:"days"`

	// Language は作成時に宣言された出力言語。以降の更新でも引き継がれる
	Language Language `json:"language,omitempty"`
}

// Clone はドキュメントのディープコピーを返す
func (p *TripPlan) Clone() *TripPlan {
	if p == nil {
		return nil
	}
	cp := *p
	cp.SuggestedHotels = cloneSlice(p.SuggestedHotels)
	cp.Warnings = cloneSlice(p.Warnings)
	cp.PackingList = cloneSlice(p.PackingList)
	cp.Days = cloneSlice(p.Days)
	for i := range cp.Days {
		cp.Days[i].Activities = cloneSlice(p.Days[i].Activities)
	}
	return &cp
}

// cloneSlice はnilと空スライスを区別したままコピーする
func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// DayByNumber は指定された日番号のDayPlanを取得する
func (p *TripPlan) DayByNumber(dayNumber int) (*DayPlan, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Days {
		if p.Days[i].DayNumber == dayNumber {
			return &p.Days[i], true
		}
	}
	return nil, false
}

// ActivityCount は全日程のアクティビティ数を返す
func (p *TripPlan) ActivityCount() int {
	if p == nil {
		return 0
	}
	count := 0
	for _, day := range p.Days {
		count += len(day.Activities)
	}
	return count
}
