package session

import (
	"math"
	"time"

	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/user"
)

// Stats is the progress overview of the current session.
type Stats struct {
	Role              user.Role `json:"role"`
	Groups            int       `json:"groups"`
	Students          int       `json:"students"`
	Lessons           int       `json:"lessons"`
	CompletedLessons  int       `json:"completed_lessons"`
	PendingLessons    int       `json:"pending_lessons"`
	OverdueLessons    int       `json:"overdue_lessons"`
	CompletionPercent int       `json:"completion_percent"`
	AverageGrade      *float64  `json:"average_grade,omitempty"`
	Submissions       int       `json:"submissions"`
}

// Stats computes the progress overview from the current state.
func (s *Store) Stats() (Stats, error) {
	if !s.authenticated {
		return Stats{}, ErrNotAuthenticated
	}

	st := Stats{
		Role:        s.currentUser.Role,
		Groups:      len(s.groups),
		Lessons:     len(s.lessons),
		Submissions: len(s.assignments),
	}
	usr := s.currentUser
	switch {
	case usr.IsTeacher():
		for _, g := range s.groups {
			st.Students += g.StudentsCount
		}
	case usr.IsStudent():
		today := dateOf(s.now())
		var graded, total int
		for _, l := range s.lessons {
			switch {
			case l.Status == classroom.StatusCompleted || l.Status == classroom.StatusChecked:
				st.CompletedLessons++
			case isOverdue(l, today):
				st.OverdueLessons++
			default:
				st.PendingLessons++
			}
			if l.Grade != nil {
				graded++
				total += *l.Grade
			}
		}
		if st.Lessons > 0 {
			st.CompletionPercent = int(math.Round(float64(st.CompletedLessons) * 100 / float64(st.Lessons)))
		}
		if graded > 0 {
			avg := float64(total) / float64(graded)
			st.AverageGrade = &avg
		}
	default:
		return Stats{}, user.ErrInvalidRole
	}
	return st, nil
}

const dueDateLayout = "2006-01-02"

// dateOf returns the calendar date of `t` (in its own location) at midnight UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isOverdue tells whether `l` was due before `today`. Lessons without a valid due date never are.
func isOverdue(l classroom.Lesson, today time.Time) bool {
	due, err := time.Parse(dueDateLayout, l.DueDate)
	if err != nil {
		return false
	}
	return due.Before(today)
}
