package helper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TravelDates は期間の自由記述から読み取れた出発日・帰着日
type TravelDates struct {
	Start time.Time
	End   time.Time
}

var (
	// "Oct 10", "October 10", "oct. 10" のような英語の月名+日
	monthDayPattern = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})\b`)
	// "2025-04-05" のようなISO形式
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	// 期間全体が "5 Days", "3-day", "7 days" のような日数指定だけの場合
	dayCountPattern = regexp.MustCompile(`^\s*(\d{1,3})\s*-?\s*days?\s*$`)
)

var monthByPrefix = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// ParseTravelDates は期間文字列から日付の組を取り出す
//
// サポートする形式:
//   - 英語の月名+日が2つ ("Oct 10 - Oct 15", "April 5 to April 10")
//   - ISO形式の日付が2つ ("2025-04-05 to 2025-04-10")
//
// 月名形式の年は、月が現在の月より前なら翌年、それ以外は今年とする。
// 終了日が開始日より前になる場合は終了日を1年後ろにずらす。
// 日付が1つしか無い場合、数値のみの "10/10" 形式、西暦以外の暦は対象外で ok=false を返す。
func ParseTravelDates(duration string, now time.Time) (TravelDates, bool) {
	text := strings.ToLower(duration)

	if m := isoDatePattern.FindAllStringSubmatch(text, -1); len(m) >= 2 {
		start, ok1 := isoDate(m[0])
		end, ok2 := isoDate(m[1])
		if ok1 && ok2 && !end.Before(start) {
			return TravelDates{Start: start, End: end}, true
		}
		return TravelDates{}, false
	}

	m := monthDayPattern.FindAllStringSubmatch(text, -1)
	if len(m) < 2 {
		return TravelDates{}, false
	}

	start, ok := monthDayDate(m[0], now)
	if !ok {
		return TravelDates{}, false
	}
	end, ok := monthDayDate(m[1], now)
	if !ok {
		return TravelDates{}, false
	}
	if end.Before(start) {
		end = end.AddDate(1, 0, 0)
	}
	return TravelDates{Start: start, End: end}, true
}

// ParseDayCount は "5 Days" のような日数指定を読み取る
// "3 days in Tokyo and 2 days in Kyoto" のように他の記述を含む場合は ok=false
func ParseDayCount(duration string) (int, bool) {
	m := dayCountPattern.FindStringSubmatch(strings.ToLower(duration))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// FormatYYMMDD はフライト検索URL用の日付表記
func FormatYYMMDD(t time.Time) string {
	return t.Format("060102")
}

func monthDayDate(match []string, now time.Time) (time.Time, bool) {
	month, ok := monthByPrefix[match[1]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(match[2])
	if err != nil {
		return time.Time{}, false
	}

	year := now.Year()
	if month < now.Month() {
		year++
	}
	return validDate(year, month, day)
}

func isoDate(match []string) (time.Time, bool) {
	year, err1 := strconv.Atoi(match[1])
	month, err2 := strconv.Atoi(match[2])
	day, err3 := strconv.Atoi(match[3])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	return validDate(year, time.Month(month), day)
}

// validDate は正規化で日付がずれないこと（2/30 など）を確認する
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
