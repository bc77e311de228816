package service

import (
	"fmt"
	"strings"

	"TripGenie-App/internal/domain/model"
)

// ValidatePlan は生成サービスから返されたドキュメントが不変条件を満たすか検証する
// 違反がある場合は全ての問題点を含む *model.ValidationFailure を返す
func ValidatePlan(plan *model.TripPlan) error {
	if plan == nil {
		return &model.ValidationFailure{Problems: []string{"プランが空です"}}
	}

	var problems []string
	if len(plan.Days) == 0 {
		problems = append(problems, "days: 日程が1日もありません")
	}

	seen := make(map[int]bool, len(plan.Days))
	for i, day := range plan.Days {
		if seen[day.DayNumber] {
			problems = append(problems, fmt.Sprintf("days[%d]: day_number %d が重複しています", i, day.DayNumber))
		}
		seen[day.DayNumber] = true

		if i > 0 && day.DayNumber <= plan.Days[i-1].DayNumber {
			problems = append(problems, fmt.Sprintf("days[%d]: day_number %d が昇順になっていません", i, day.DayNumber))
		} else if day.DayNumber != i+1 {
			problems = append(problems, fmt.Sprintf("days[%d]: day_number %d が位置 (%d日目) と一致しません", i, day.DayNumber, i+1))
		}

		if len(day.Activities) == 0 {
			problems = append(problems, fmt.Sprintf("days[%d]: アクティビティがありません", i))
		}

		for j, act := range day.Activities {
			if strings.TrimSpace(act.PlaceName) == "" {
				problems = append(problems, fmt.Sprintf("days[%d].activities[%d]: place_name が空です", i, j))
			}
			if strings.TrimSpace(act.Action) == "" {
				problems = append(problems, fmt.Sprintf("days[%d].activities[%d]: action が空です", i, j))
			}
			if !act.Type.Valid() {
				problems = append(problems, fmt.Sprintf("days[%d].activities[%d]: 不明な type %q", i, j, act.Type))
			}
		}
	}

	if len(problems) > 0 {
		return &model.ValidationFailure{Problems: problems}
	}
	return nil
}

// ValidateDayCount は期待される日数と一致しているか検証する（初回生成時のみ使用）
func ValidateDayCount(plan *model.TripPlan, expected int) error {
	if plan == nil || expected <= 0 {
		return nil
	}
	if len(plan.Days) != expected {
		return &model.ValidationFailure{Problems: []string{
			fmt.Sprintf("days: %d日分が要求されましたが %d日分が返されました", expected, len(plan.Days)),
		}}
	}
	return nil
}
