package projection

import "TripGenie-App/internal/domain/model"

// ColumnStatus は比較画面の各列の状態
type ColumnStatus string

const (
	ColumnReady   ColumnStatus = "ready"
	ColumnLoading ColumnStatus = "loading"
	ColumnError   ColumnStatus = "error"
)

// ComparisonEntry は比較画面の1行（場所と行動）
type ComparisonEntry struct {
	Number    int    `json:"number"`
	PlaceName string `json:"place_name"`
	Action    string `json:"action"`
}

// ComparisonDay は比較画面の1日分
type ComparisonDay struct {
	DayNumber int               `json:"day_number"`
	Title     string            `json:"title"`
	Entries   []ComparisonEntry `json:"entries"`
}

// ComparisonColumn は比較画面の列
type ComparisonColumn struct {
	Label  string          `json:"label"`
	Status ColumnStatus    `json:"status"`
	Days   []ComparisonDay `json:"days"`
	Error  string          `json:"error,omitempty"`
}

// ComparisonView は現在のプランと一般的な団体ツアーの2列比較
type ComparisonView struct {
	Current  ComparisonColumn `json:"current"`
	Baseline ComparisonColumn `json:"baseline"`
}

// ProjectComparison は現在のプランと比較用ツアーから比較画面を組み立てる
// baselineもbaselineErrも無ければ比較列は読み込み中、エラーがあればエラー表示となる
func ProjectComparison(current, baseline *model.TripPlan, baselineErr error) ComparisonView {
	view := ComparisonView{
		Current:  ComparisonColumn{Label: "Your Plan", Status: ColumnReady, Days: comparisonDays(current)},
		Baseline: ComparisonColumn{Label: "Standard Group Tour", Days: []ComparisonDay{}},
	}

	switch {
	case baselineErr != nil:
		view.Baseline.Status = ColumnError
		view.Baseline.Error = baselineErr.Error()
	case baseline == nil:
		view.Baseline.Status = ColumnLoading
	default:
		view.Baseline.Status = ColumnReady
		view.Baseline.Days = comparisonDays(baseline)
	}
	return view
}

func comparisonDays(plan *model.TripPlan) []ComparisonDay {
	if plan == nil {
		return []ComparisonDay{}
	}
	days := make([]ComparisonDay, 0, len(plan.Days))
	for _, day := range plan.Days {
		entries := make([]ComparisonEntry, 0, len(day.Activities))
		for i, act := range day.Activities {
			entries = append(entries, ComparisonEntry{Number: i + 1, PlaceName: act.PlaceName, Action: act.Action})
		}
		days = append(days, ComparisonDay{DayNumber: day.DayNumber, Title: dayTitle(day), Entries: entries})
	}
	return days
}
