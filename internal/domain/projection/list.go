package projection

import (
	"fmt"

	"TripGenie-App/internal/domain/helper"
	"TripGenie-App/internal/domain/model"
)

// ListState は一覧画面のローカルなUI状態。ドキュメントとは独立している
type ListState struct {
	SelectedDay     *int
	HeaderCollapsed bool

	// FlightBackupUnlocked は受け取り済みのdetail_unlockゲートからのみ導出される
	FlightBackupUnlocked bool
}

// ItineraryHeader は一覧上部のサマリ
type ItineraryHeader struct {
	Summary         string `json:"summary"`
	SuggestedDates  string `json:"suggested_dates"`
	EstimatedBudget string `json:"estimated_budget"`
	DateReasoning   string `json:"date_reasoning,omitempty"`
	WeatherForecast string `json:"weather_forecast,omitempty"`
	Collapsed       bool   `json:"collapsed"`
}

// HotelCard は提案ホテルと予約リンク
type HotelCard struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceRange  string `json:"price_range"`
	BookingURL  string `json:"booking_url"`
}

// ActivityItem は一覧上のアクティビティ。Numberは日内の1始まりの番号
type ActivityItem struct {
	Number          int                `json:"number"`
	PlaceName       string             `json:"place_name"`
	Action          string             `json:"action"`
	Type            model.ActivityType `json:"type"`
	CostEstimate    string             `json:"cost_estimate,omitempty"`
	TransportTip    string             `json:"transport_tip,omitempty"`
	OnMap           bool               `json:"on_map"`
	HotelBookingURL string             `json:"hotel_booking_url,omitempty"`
}

// DaySection は1日分の一覧
type DaySection struct {
	DayNumber  int            `json:"day_number"`
	Title      string         `json:"title"`
	Theme      string         `json:"theme"`
	Selected   bool           `json:"selected"`
	Activities []ActivityItem `json:"activities"`
}

// FlightBackup はフライト遅延時の代替案。解除前は本文を含めない
type FlightBackup struct {
	Unlocked bool   `json:"unlocked"`
	Content  string `json:"content,omitempty"`
}

// ItineraryView は一覧画面の描画内容
type ItineraryView struct {
	Header          ItineraryHeader `json:"header"`
	Hotels          []HotelCard     `json:"hotels"`
	Days            []DaySection    `json:"days"`
	Warnings        []string        `json:"warnings"`
	PackingList     []string        `json:"packing_list"`
	WeatherForecast string          `json:"weather_forecast"`
	TransportAdvice string          `json:"transport_advice"`
	FlightBackup    FlightBackup    `json:"flight_backup"`
}

// ProjectItinerary はドキュメントとUI状態から一覧画面を組み立てる
// 同じ入力に対して常に同じ結果を返し、planを変更しない
func ProjectItinerary(plan *model.TripPlan, state ListState) ItineraryView {
	if plan == nil {
		return ItineraryView{Hotels: []HotelCard{}, Days: []DaySection{}, Warnings: []string{}, PackingList: []string{}}
	}

	dates := plan.SuggestedDates
	if dates == "" {
		dates = model.DefaultSuggestedDates
	}
	header := ItineraryHeader{
		Summary:         plan.Summary,
		SuggestedDates:  dates,
		EstimatedBudget: plan.EstimatedBudget,
		Collapsed:       state.HeaderCollapsed,
	}
	if !state.HeaderCollapsed {
		header.DateReasoning = plan.DateReasoning
		header.WeatherForecast = plan.WeatherForecast
	}

	hotels := make([]HotelCard, 0, len(plan.SuggestedHotels))
	for _, h := range plan.SuggestedHotels {
		hotels = append(hotels, HotelCard{
			Name:        h.Name,
			Description: h.Description,
			PriceRange:  h.PriceRange,
			BookingURL:  helper.HotelBookingURL(h.Name),
		})
	}

	days := make([]DaySection, 0, len(plan.Days))
	for _, day := range plan.Days {
		items := make([]ActivityItem, 0, len(day.Activities))
		for i, act := range day.Activities {
			item := ActivityItem{
				Number:       i + 1,
				PlaceName:    act.PlaceName,
				Action:       act.Action,
				Type:         act.Type,
				CostEstimate: act.CostEstimate,
				TransportTip: act.TransportTip,
				OnMap:        act.HasCoordinates(),
			}
			if act.IsHotel() {
				item.HotelBookingURL = helper.HotelBookingURL(act.PlaceName)
			}
			items = append(items, item)
		}
		days = append(days, DaySection{
			DayNumber:  day.DayNumber,
			Title:      dayTitle(day),
			Theme:      day.Theme,
			Selected:   state.SelectedDay != nil && *state.SelectedDay == day.DayNumber,
			Activities: items,
		})
	}

	backup := FlightBackup{Unlocked: state.FlightBackupUnlocked}
	if backup.Unlocked {
		backup.Content = plan.FlightDelayBackup
		if backup.Content == "" {
			backup.Content = model.DefaultFlightDelayBackup
		}
	}

	return ItineraryView{
		Header:          header,
		Hotels:          hotels,
		Days:            days,
		Warnings:        append([]string{}, plan.Warnings...),
		PackingList:     append([]string{}, plan.PackingList...),
		WeatherForecast: plan.WeatherForecast,
		TransportAdvice: plan.TransportAdvice,
		FlightBackup:    backup,
	}
}

func dayTitle(day model.DayPlan) string {
	return fmt.Sprintf("Day %d: %s", day.DayNumber, day.Theme)
}
