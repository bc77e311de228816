package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TripGenie-App/internal/domain/model"
)

func planWithDays(numbers ...int) *model.TripPlan {
	plan := &model.TripPlan{Summary: "s", EstimatedBudget: "b"}
	for _, n := range numbers {
		plan.Days = append(plan.Days, model.DayPlan{
			DayNumber: n,
			Theme:     "theme",
			Activities: []model.Activity{
				{PlaceName: "Place", Action: "Walk", Latitude: 35.0, Longitude: 135.0, Type: model.ActivityTypeSightseeing},
			},
		})
	}
	return plan
}

func problemsOf(t *testing.T, err error) []string {
	t.Helper()
	var vf *model.ValidationFailure
	require.True(t, errors.As(err, &vf), "ValidationFailureが返されるべき: %v", err)
	return vf.Problems
}

func TestValidatePlan_Valid(t *testing.T) {
	assert.NoError(t, ValidatePlan(planWithDays(1, 2, 3)))
}

func TestValidatePlan_Violations(t *testing.T) {
	t.Run("nilプラン", func(t *testing.T) {
		assert.Len(t, problemsOf(t, ValidatePlan(nil)), 1)
	})

	t.Run("日程なし", func(t *testing.T) {
		assert.Len(t, problemsOf(t, ValidatePlan(planWithDays())), 1)
	})

	t.Run("day_number重複", func(t *testing.T) {
		problems := problemsOf(t, ValidatePlan(planWithDays(1, 1)))
		assert.Contains(t, problems[0], "重複")
	})

	t.Run("昇順でない", func(t *testing.T) {
		problems := problemsOf(t, ValidatePlan(planWithDays(2, 1)))
		assert.NotEmpty(t, problems)
	})

	t.Run("位置と不一致", func(t *testing.T) {
		problems := problemsOf(t, ValidatePlan(planWithDays(1, 3)))
		assert.Len(t, problems, 1)
		assert.Contains(t, problems[0], "一致しません")
	})

	t.Run("空の日", func(t *testing.T) {
		plan := planWithDays(1, 2)
		plan.Days[1].Activities = nil
		problems := problemsOf(t, ValidatePlan(plan))
		assert.Len(t, problems, 1)
	})

	t.Run("不明なtype", func(t *testing.T) {
		plan := planWithDays(1)
		plan.Days[0].Activities[0].Type = "museum"
		problems := problemsOf(t, ValidatePlan(plan))
		assert.Contains(t, problems[0], "museum")
	})
}

func TestValidatePlan_UnrenderableCoordinatesAreAccepted(t *testing.T) {
	plan := planWithDays(1)
	plan.Days[0].Activities[0].Latitude = 0
	plan.Days[0].Activities[0].Longitude = 0
	assert.NoError(t, ValidatePlan(plan))
}

func TestValidateDayCount(t *testing.T) {
	assert.NoError(t, ValidateDayCount(planWithDays(1, 2, 3, 4, 5), 5))
	assert.NoError(t, ValidateDayCount(planWithDays(1, 2), 0))
	assert.Error(t, ValidateDayCount(planWithDays(1, 2), 5))
}
