package classroom

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// LessonStatus is the student's progress on a Lesson. The zero value means unset.
type LessonStatus string

// Lesson statuses
const (
	StatusUnset     LessonStatus = ""
	StatusPending   LessonStatus = "pending"
	StatusCompleted LessonStatus = "completed"
	StatusChecked   LessonStatus = "checked"
)

func (s LessonStatus) IsSet() bool { return s != StatusUnset }

// Group is a roster taught by one teacher.
// LessonsCount always equals the number of Lessons referencing the Group.
type Group struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	TeacherID     string `json:"teacher_id"`
	TeacherName   string `json:"teacher_name"`
	StudentsCount int    `json:"students_count"`
	LessonsCount  int    `json:"lessons_count"`
}

// Lesson is a unit of work belonging to a Group.
// Status & Grade are only populated in a student's view.
type Lesson struct {
	ID          string       `json:"id"`
	GroupID     string       `json:"group_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     string       `json:"due_date"` // YYYY-MM-DD
	Status      LessonStatus `json:"status,omitempty"`
	Grade       *int         `json:"grade,omitempty"`
}

// Assignment is a student's submitted response to a Lesson.
type Assignment struct {
	ID          string    `json:"id"`
	LessonID    string    `json:"lesson_id"`
	StudentID   string    `json:"student_id"`
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
	Grade       *int      `json:"grade,omitempty"`
	Feedback    string    `json:"feedback,omitempty"`
}

// NewGroup contains information needed to create a new Group.
type NewGroup struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

func (ng *NewGroup) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Description = core.CleanString(ng.Description)
	return validate.Struct(ng)
}

// NewLesson contains information needed to create a new Lesson.
type NewLesson struct {
	GroupID     string `json:"group_id" validate:"notblank"`
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.GroupID = core.CleanString(nl.GroupID)
	nl.Title = core.CleanString(nl.Title)
	nl.Description = core.CleanString(nl.Description)
	nl.DueDate = core.CleanString(nl.DueDate)
	return validate.Struct(nl)
}

// NewAssignment contains information needed to submit an Assignment.
type NewAssignment struct {
	LessonID string `json:"lesson_id" validate:"notblank"`
	Content  string `json:"content" validate:"notblank"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.LessonID = core.CleanString(na.LessonID)
	na.Content = core.CleanString(na.Content)
	return validate.Struct(na)
}

// IntPtr returns a pointer to a copy of `i` (for optional grades).
func IntPtr(i int) *int { return &i }
