package domain

import (
	"fmt"
	"math"
	"time"
)

// DescribeReviewAge はレビュー日付を「今日」「昨日」「n日前」などの相対表記に変換する。
// 日付が解釈できない場合は元の文字列をそのまま返す。
func DescribeReviewAge(date string, now time.Time) string {
	reviewed, err := ParseReviewDate(date)
	if err != nil {
		return date
	}

	loc := now.Location()
	reviewedDay := time.Date(reviewed.Year(), reviewed.Month(), reviewed.Day(), 0, 0, 0, 0, loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	days := int(math.Round(today.Sub(reviewedDay).Hours() / 24))

	switch {
	case days <= 0:
		return "היום"
	case days == 1:
		return "אתמול"
	case days < 7:
		return fmt.Sprintf("לפני %d ימים", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "לפני שבוע"
		}
		return fmt.Sprintf("לפני %d שבועות", weeks)
	case days < 365:
		months := days / 30
		if months == 1 {
			return "לפני חודש"
		}
		return fmt.Sprintf("לפני %d חודשים", months)
	}
	return reviewedDay.Format("02.01.2006")
}
