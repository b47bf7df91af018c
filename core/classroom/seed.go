package classroom

import (
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// Dataset is the canned data a session starts with.
type Dataset struct {
	Groups  []Group
	Lessons []Lesson
}

// the teacher every seeded student group belongs to
const (
	seedTeacherID   = "teacher1"
	seedTeacherName = "Ivanova M.P."
)

// Seed returns the canned Dataset for the role of `usr`. Seeded groups belong to `usr` when
// they are a teacher. Group lesson counts are derived from the seeded lessons.
func Seed(usr user.User, idGen core.IDGenerator) Dataset {
	var ds Dataset
	switch usr.Role {
	case user.RoleTeacher:
		math := Group{
			ID:            idGen.NewID(),
			Name:          "Mathematics 9A",
			Description:   "Algebra and geometry",
			TeacherID:     usr.ID,
			TeacherName:   usr.Name,
			StudentsCount: 24,
		}
		physics := Group{
			ID:            idGen.NewID(),
			Name:          "Physics 10B",
			Description:   "Mechanics and thermodynamics",
			TeacherID:     usr.ID,
			TeacherName:   usr.Name,
			StudentsCount: 18,
		}
		ds.Groups = []Group{math, physics}
		ds.Lessons = []Lesson{
			{
				ID:          idGen.NewID(),
				GroupID:     math.ID,
				Title:       "Quadratic equations",
				Description: "Solve problems 1-10 from the textbook",
				DueDate:     "2025-10-25",
				Status:      StatusPending,
			},
			{
				ID:          idGen.NewID(),
				GroupID:     math.ID,
				Title:       "Pythagorean theorem",
				Description: "Prove the theorem and solve the practical problems",
				DueDate:     "2025-10-28",
				Status:      StatusPending,
			},
		}
	case user.RoleStudent:
		math := Group{
			ID:            idGen.NewID(),
			Name:          "Mathematics 9A",
			Description:   "Algebra and geometry",
			TeacherID:     seedTeacherID,
			TeacherName:   seedTeacherName,
			StudentsCount: 24,
		}
		ds.Groups = []Group{math}
		ds.Lessons = []Lesson{
			{
				ID:          idGen.NewID(),
				GroupID:     math.ID,
				Title:       "Quadratic equations",
				Description: "Solve problems 1-10 from the textbook",
				DueDate:     "2025-10-25",
				Status:      StatusCompleted,
				Grade:       IntPtr(5),
			},
			{
				ID:          idGen.NewID(),
				GroupID:     math.ID,
				Title:       "Pythagorean theorem",
				Description: "Prove the theorem and solve the practical problems",
				DueDate:     "2025-10-28",
				Status:      StatusPending,
			},
		}
	}

	counts := CountLessons(ds.Lessons)
	for i := range ds.Groups {
		ds.Groups[i].LessonsCount = counts[ds.Groups[i].ID]
	}
	return ds
}

// CountLessons returns the number of lessons per group id.
func CountLessons(lessons []Lesson) map[string]int {
	counts := make(map[string]int)
	for _, l := range lessons {
		counts[l.GroupID]++
	}
	return counts
}
