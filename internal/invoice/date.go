package invoice

import "time"

// DateLayout is DD/MM/YYYY, the format the date picker produces.
const DateLayout = "02/01/2006"

// MonthLayout is the delivery month format, e.g. "March 2025".
const MonthLayout = "January 2006"

const DefaultDueDays = 30

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DueDate returns the date days after an invoice date, in DateLayout.
func DueDate(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// Months lists delivery months from back months before from to ahead
// months after it, oldest first.
func Months(from time.Time, back, ahead int) []string {
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	out := make([]string, 0, back+ahead+1)
	for i := -back; i <= ahead; i++ {
		out = append(out, first.AddDate(0, i, 0).Format(MonthLayout))
	}
	return out
}
