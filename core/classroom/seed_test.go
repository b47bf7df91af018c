package classroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

func TestSeed(t *testing.T) {
	teacher, err := user.New("t1", user.RoleTeacher)
	require.NoError(t, err)
	student, err := user.New("s1", user.RoleStudent)
	require.NoError(t, err)

	t.Run("teacher", func(t *testing.T) {
		ds := Seed(teacher, core.NewSequenceGenerator())
		require.Len(t, ds.Groups, 2)
		require.Len(t, ds.Lessons, 2)

		for _, g := range ds.Groups {
			assert.Equal(t, teacher.ID, g.TeacherID)
			assert.Equal(t, teacher.Name, g.TeacherName)
		}
		assertLessonsReferenceGroups(t, ds)
		assertLessonCounts(t, ds)
		for _, l := range ds.Lessons {
			assert.Equal(t, StatusPending, l.Status)
			assert.Nil(t, l.Grade)
		}
	})

	t.Run("student", func(t *testing.T) {
		ds := Seed(student, core.NewSequenceGenerator())
		require.Len(t, ds.Groups, 1)
		require.Len(t, ds.Lessons, 2)
		assert.Equal(t, seedTeacherID, ds.Groups[0].TeacherID)
		assertLessonsReferenceGroups(t, ds)
		assertLessonCounts(t, ds)

		done, pending := ds.Lessons[0], ds.Lessons[1]
		assert.Equal(t, StatusCompleted, done.Status)
		if assert.NotNil(t, done.Grade) {
			assert.Equal(t, 5, *done.Grade)
		}
		assert.Equal(t, StatusPending, pending.Status)
		assert.Nil(t, pending.Grade)
	})

	t.Run("unique ids", func(t *testing.T) {
		ds := Seed(teacher, core.NewUUIDGenerator())
		seen := make(map[string]bool)
		for _, g := range ds.Groups {
			assert.False(t, seen[g.ID], "duplicate id %s", g.ID)
			seen[g.ID] = true
		}
		for _, l := range ds.Lessons {
			assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
			seen[l.ID] = true
		}
	})
}

func assertLessonsReferenceGroups(t *testing.T, ds Dataset) {
	t.Helper()
	groupIDs := make(map[string]bool, len(ds.Groups))
	for _, g := range ds.Groups {
		groupIDs[g.ID] = true
	}
	for _, l := range ds.Lessons {
		assert.True(t, groupIDs[l.GroupID], "lesson %s references unknown group %s", l.ID, l.GroupID)
	}
}

func assertLessonCounts(t *testing.T, ds Dataset) {
	t.Helper()
	counts := CountLessons(ds.Lessons)
	for _, g := range ds.Groups {
		assert.Equal(t, counts[g.ID], g.LessonsCount, "group %s", g.Name)
	}
}
