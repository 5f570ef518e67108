package qa

import (
	"time"
)

// TimeLayout is the answered_at format.
const TimeLayout = "2006-01-02 15:04:05"

// Question is one entry of the question file. Frequency is the recheck
// interval in seconds; zero means answer once.
type Question struct {
	ID         string `json:"id" validate:"required"`
	Question   string `json:"question" validate:"required"`
	Answered   bool   `json:"answered"`
	Frequency  int64  `json:"frequency,omitempty" validate:"gte=0"`
	AnsweredAt string `json:"answered_at,omitempty"`
}

// Recurring reports whether the question is asked again periodically.
func (q Question) Recurring() bool { return q.Frequency > 0 }

// Interval is Frequency as a duration.
func (q Question) Interval() time.Duration { return time.Duration(q.Frequency) * time.Second }

// LastAnswered parses AnsweredAt as UTC.
func (q Question) LastAnswered() (time.Time, bool) {
	if q.AnsweredAt == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimeLayout, q.AnsweredAt, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Due reports whether the question should be answered at now. An
// unanswered question is always due. A recurring question is due once
// its interval has elapsed since the last answer, or when that time is
// missing or unreadable.
func (q Question) Due(now time.Time) bool {
	if !q.Answered {
		return true
	}
	if !q.Recurring() {
		return false
	}
	last, ok := q.LastAnswered()
	if !ok {
		return true
	}
	return now.Sub(last) >= q.Interval()
}
