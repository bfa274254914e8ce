package ledger

import "time"

// ─── Derived Reads ──────────────────────────────────────────────────────────

// DayLabels are the chart labels of a Monday-first week.
var DayLabels = [7]string{"月", "火", "水", "木", "金", "土", "日"}

// DailyTotal is one bar of the weekly chart.
type DailyTotal struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Points int64  `json:"points"`
}

// WeeklySummary compares a worker's net points this week with last week.
type WeeklySummary struct {
	WeekStart     time.Time    `json:"weekStart"`
	ThisWeek      int64        `json:"thisWeek"`
	LastWeek      int64        `json:"lastWeek"`
	ChangePercent float64      `json:"changePercent"`
	Daily         []DailyTotal `json:"daily"`
}

// IssuedTotals is the admin view of net points issued.
type IssuedTotals struct {
	AllTime   int64 `json:"allTime"`
	ThisMonth int64 `json:"thisMonth"`
}

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns the first instant of t's month, in t's location.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Balance is the signed sum of every entry for the worker.
func (l *Ledger) Balance(workerID string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var sum int64
	for _, tx := range l.state.Transactions {
		if tx.WorkerID == workerID {
			sum += tx.Signed()
		}
	}
	return sum
}

// WeeklySummary buckets a worker's entries into the week containing now and
// the week before. Days are taken in now's location. The change percent is
// zero when last week netted zero.
func (l *Ledger) WeeklySummary(workerID string, now time.Time) WeeklySummary {
	weekStart := StartOfWeek(now)
	nextWeek := weekStart.AddDate(0, 0, 7)
	lastWeek := weekStart.AddDate(0, 0, -7)

	s := WeeklySummary{WeekStart: weekStart, Daily: make([]DailyTotal, 7)}
	for i := range s.Daily {
		s.Daily[i] = DailyTotal{
			Name: DayLabels[i],
			Date: weekStart.AddDate(0, 0, i).Format("2006-01-02"),
		}
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, tx := range l.state.Transactions {
		if tx.WorkerID != workerID {
			continue
		}
		ts := tx.Timestamp.In(now.Location())
		switch {
		case !ts.Before(weekStart) && ts.Before(nextWeek):
			s.ThisWeek += tx.Signed()
			s.Daily[(int(ts.Weekday())+6)%7].Points += tx.Signed()
		case !ts.Before(lastWeek) && ts.Before(weekStart):
			s.LastWeek += tx.Signed()
		}
	}

	if s.LastWeek != 0 {
		s.ChangePercent = float64(s.ThisWeek-s.LastWeek) * 100 / float64(s.LastWeek)
	}
	return s
}

// IssuedTotals sums every entry, and separately those since the start of
// now's month.
func (l *Ledger) IssuedTotals(now time.Time) IssuedTotals {
	monthStart := StartOfMonth(now)

	l.mu.RLock()
	defer l.mu.RUnlock()
	var t IssuedTotals
	for _, tx := range l.state.Transactions {
		t.AllTime += tx.Signed()
		if !tx.Timestamp.Before(monthStart) {
			t.ThisMonth += tx.Signed()
		}
	}
	return t
}
