package ai

import "google.golang.org/genai"

var (
	requiredPlanKeys     = []string{"trip_summary", "estimated_budget", "days", "warnings", "packing_list", "transport_advice"}
	requiredDayKeys      = []string{"day_number", "theme", "activities"}
	requiredActivityKeys = []string{"place_name", "action", "latitude", "longitude", "type"}
)

func stringField(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Items:       &genai.Schema{Type: genai.TypeString},
		Description: description,
	}
}

// tripSchema は生成サービスに渡すレスポンススキーマ
func tripSchema() *genai.Schema {
	activity := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"place_name":    stringField(""),
			"action":        stringField("What to do here"),
			"description":   stringField("2 sentences describing why this place is interesting for the details view."),
			"latitude":      {Type: genai.TypeNumber},
			"longitude":     {Type: genai.TypeNumber},
			"transport_tip": stringField(""),
			"type": {
				Type: genai.TypeString,
				Enum: []string{"sightseeing", "food", "transport", "hotel", "other"},
			},
			"cost_estimate": stringField(""),
		},
		Required: requiredActivityKeys,
	}

	day := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"day_number": {Type: genai.TypeInteger},
			"theme":      stringField(""),
			"activities": {Type: genai.TypeArray, Items: activity},
		},
		Required: requiredDayKeys,
	}

	hotel := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        stringField(""),
			"description": stringField(""),
			"price_range": stringField("e.g. $100-150/night"),
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"trip_summary":        stringField("A catchy summary of the trip"),
			"estimated_budget":    stringField("Total estimated cost for the trip excluding flights (e.g., $500 - $700 USD per person)"),
			"suggested_dates":     stringField("Specific dates (e.g. 'April 5 - April 10') if user only gave duration, or user's dates."),
			"date_reasoning":      stringField("Why these dates? (e.g. 'Cherry blossom season', 'Low crowds')"),
			"suggested_hotels":    {Type: genai.TypeArray, Items: hotel, Description: "Suggest 2-3 hotels if user didn't specify one."},
			"warnings":            stringList("Safety or tourist trap warnings"),
			"packing_list":        stringList("Essential items to pack"),
			"weather_forecast":    stringField("Expected weather and clothing advice"),
			"transport_advice":    stringField("Best way to get around (cards, apps, etc)"),
			"flight_delay_backup": stringField("A contingency plan if flights are delayed"),
			"days":                {Type: genai.TypeArray, Items: day},
		},
		Required: requiredPlanKeys,
	}
}
