package projection

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"TripGenie-App/internal/domain/model"
)

// ExportHeader はエクスポートの列見出し
var ExportHeader = []string{"Day", "Theme", "Place", "Action", "Type", "Cost Estimate"}

// ExportRows はドキュメント順に1アクティビティ1行の表を返す（見出しは含まない）
func ExportRows(plan *model.TripPlan) [][]string {
	if plan == nil {
		return nil
	}
	rows := make([][]string, 0, plan.ActivityCount())
	for _, day := range plan.Days {
		label := "Day " + strconv.Itoa(day.DayNumber)
		for _, act := range day.Activities {
			rows = append(rows, []string{
				label,
				day.Theme,
				act.PlaceName,
				act.Action,
				string(act.Type),
				act.CostEstimate,
			})
		}
	}
	return rows
}

// WriteCSV はエクスポート表をCSVで書き出す。カンマ・改行・引用符を含むセルはクォートされる
func WriteCSV(w io.Writer, plan *model.TripPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("CSVヘッダーの書き込みに失敗: %w", err)
	}
	if err := cw.WriteAll(ExportRows(plan)); err != nil {
		return fmt.Errorf("CSVの書き込みに失敗: %w", err)
	}
	return nil
}

// ExportFileName は "TripGenie_Plan_YYYY-MM-DD.<ext>" 形式のファイル名
func ExportFileName(now time.Time, ext string) string {
	return fmt.Sprintf("TripGenie_Plan_%s.%s", now.Format("2006-01-02"), ext)
}
