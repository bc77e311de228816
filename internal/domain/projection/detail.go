package projection

import (
	"fmt"

	"TripGenie-App/internal/domain/helper"
	"TripGenie-App/internal/domain/model"
)

// DetailView は1つのアクティビティの詳細画面
type DetailView struct {
	DayNumber    int                `json:"day_number"`
	Number       int                `json:"number"`
	PlaceName    string             `json:"place_name"`
	Action       string             `json:"action"`
	Description  string             `json:"description"`
	Type         model.ActivityType `json:"type"`
	CostEstimate string             `json:"cost_estimate,omitempty"`
	TransportTip string             `json:"transport_tip,omitempty"`
	Links        []helper.Link      `json:"links"`
}

// ProjectDetail は日番号と日内の番号（1始まり）からアクティビティの詳細を組み立てる
func ProjectDetail(plan *model.TripPlan, dayNumber, number int) (DetailView, error) {
	day, ok := plan.DayByNumber(dayNumber)
	if !ok || number < 1 || number > len(day.Activities) {
		return DetailView{}, fmt.Errorf("Day %d の %d 番目: %w", dayNumber, number, model.ErrActivityNotFound)
	}
	act := day.Activities[number-1]

	description := act.Description
	if description == "" {
		description = fmt.Sprintf("%s is a must-visit spot. It offers unique experiences typical of the local culture. Travelers recommend spending some time here to soak in the atmosphere.", act.PlaceName)
	}

	return DetailView{
		DayNumber:    day.DayNumber,
		Number:       number,
		PlaceName:    act.PlaceName,
		Action:       act.Action,
		Description:  description,
		Type:         act.Type,
		CostEstimate: act.CostEstimate,
		TransportTip: act.TransportTip,
		Links:        helper.PlaceLinks(act),
	}, nil
}
