// Package session holds the state of one user's dashboard session: who is logged in and the
// groups, lessons & assignments they see. A Store is not safe for concurrent use; callers
// sharing one between goroutines must serialize access (see storage/database/inmem).
package session

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotAuthenticated = errors.New("no user logged in")
	ErrRoleNotAllowed   = errors.New("operation not allowed for this role")
)

type (
	// Deps are the Store's injected dependencies. Zero values fall back to
	// random UUIDs and the wall clock.
	Deps struct {
		IDGen core.IDGenerator
		Now   func() time.Time
	}

	Store struct {
		idGen core.IDGenerator
		now   func() time.Time

		authenticated bool
		currentUser   user.User
		groups        []classroom.Group
		lessons       []classroom.Lesson
		assignments   []classroom.Assignment
		notices       []Notice
	}

	// Snapshot is everything a renderer needs to draw the dashboard.
	Snapshot struct {
		User        user.User              `json:"user"`
		Groups      []classroom.Group      `json:"groups"`
		Lessons     []classroom.Lesson     `json:"lessons"`
		Assignments []classroom.Assignment `json:"assignments"`
	}
)

func NewStore(deps Deps) *Store {
	if deps.IDGen == nil {
		deps.IDGen = core.NewUUIDGenerator()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Store{idGen: deps.IDGen, now: deps.Now}
}

// Login starts a new session for `role`: a fresh User becomes the current user and the
// role's canned groups & lessons replace whatever the previous session left behind.
func (s *Store) Login(role user.Role) (user.User, error) {
	usr, err := user.New(s.idGen.NewID(), role)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}

	ds := classroom.Seed(usr, s.idGen)
	s.currentUser = usr
	s.authenticated = true
	s.groups = ds.Groups
	s.lessons = ds.Lessons
	s.assignments = nil
	s.notices = nil

	s.notify("Welcome!", fmt.Sprintf("You are logged in as %s", role.Title()))
	return usr, nil
}

// Logout ends the session. Collections are left as they are but stay unreachable until the next Login.
func (s *Store) Logout() {
	s.authenticated = false
	s.currentUser = user.User{}
	s.notices = nil
}

func (s *Store) IsAuthenticated() bool { return s.authenticated }

func (s *Store) CurrentUser() (user.User, bool) {
	return s.currentUser, s.authenticated
}

// CreateGroup adds a new, empty Group taught by the current (teacher) user.
// Identical calls create distinct groups.
func (s *Store) CreateGroup(name, description string) (classroom.Group, error) {
	usr, err := s.requireRole(user.RoleTeacher)
	if err != nil {
		return classroom.Group{}, err
	}

	grp := classroom.Group{
		ID:            s.idGen.NewID(),
		Name:          name,
		Description:   description,
		TeacherID:     usr.ID,
		TeacherName:   usr.Name,
		StudentsCount: 0,
		LessonsCount:  0,
	}
	s.groups = append(s.groups, grp)

	s.notify("Group created!", fmt.Sprintf("Group %q was created", name))
	return grp, nil
}

// CreateLesson adds a Lesson to the group `groupID` and bumps that group's lesson count.
// `groupID` is not checked: a lesson for an unknown group is stored and no count changes.
func (s *Store) CreateLesson(groupID, title, description, dueDate string) (classroom.Lesson, error) {
	if _, err := s.requireRole(user.RoleTeacher); err != nil {
		return classroom.Lesson{}, err
	}

	lsn := classroom.Lesson{
		ID:          s.idGen.NewID(),
		GroupID:     groupID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      classroom.StatusPending,
	}
	s.lessons = append(s.lessons, lsn)
	if i := s.groupIndex(groupID); i >= 0 {
		s.groups[i].LessonsCount++
	}

	s.notify("Lesson created!", fmt.Sprintf("Lesson %q was added to the group", title))
	return lsn, nil
}

// SubmitAssignment records the current (student) user's work for `lessonID` and marks the lesson completed.
// Grade & feedback are left for a later review.
func (s *Store) SubmitAssignment(lessonID, content string) (classroom.Assignment, error) {
	usr, err := s.requireRole(user.RoleStudent)
	if err != nil {
		return classroom.Assignment{}, err
	}

	asg := classroom.Assignment{
		ID:          s.idGen.NewID(),
		LessonID:    lessonID,
		StudentID:   usr.ID,
		Content:     content,
		SubmittedAt: s.now().UTC(),
	}
	s.assignments = append(s.assignments, asg)
	if i := s.lessonIndex(lessonID); i >= 0 {
		s.lessons[i].Status = classroom.StatusCompleted
	}

	s.notify("Work submitted!", "Your work was sent for review")
	return asg, nil
}

func (s *Store) Groups() []classroom.Group {
	if !s.authenticated {
		return []classroom.Group{}
	}
	return append([]classroom.Group{}, s.groups...)
}

func (s *Store) Group(id string) (classroom.Group, bool) {
	if i := s.groupIndex(id); s.authenticated && i >= 0 {
		return s.groups[i], true
	}
	return classroom.Group{}, false
}

func (s *Store) Lessons() []classroom.Lesson {
	if !s.authenticated {
		return []classroom.Lesson{}
	}
	lessons := make([]classroom.Lesson, len(s.lessons))
	for i, l := range s.lessons {
		lessons[i] = copyLesson(l)
	}
	return lessons
}

// LessonsByGroup returns the lessons of the group `groupID`.
func (s *Store) LessonsByGroup(groupID string) []classroom.Lesson {
	lessons := []classroom.Lesson{}
	if !s.authenticated {
		return lessons
	}
	for _, l := range s.lessons {
		if l.GroupID == groupID {
			lessons = append(lessons, copyLesson(l))
		}
	}
	return lessons
}

func (s *Store) Lesson(id string) (classroom.Lesson, bool) {
	if i := s.lessonIndex(id); s.authenticated && i >= 0 {
		return copyLesson(s.lessons[i]), true
	}
	return classroom.Lesson{}, false
}

func (s *Store) Assignments() []classroom.Assignment {
	if !s.authenticated {
		return []classroom.Assignment{}
	}
	return append([]classroom.Assignment{}, s.assignments...)
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		User:        s.currentUser,
		Groups:      s.Groups(),
		Lessons:     s.Lessons(),
		Assignments: s.Assignments(),
	}
}

// requireRole returns the current user if they have `role`.
func (s *Store) requireRole(role user.Role) (user.User, error) {
	if !s.authenticated {
		return user.User{}, ErrNotAuthenticated
	}
	switch s.currentUser.Role {
	case user.RoleTeacher, user.RoleStudent:
		if s.currentUser.Role != role {
			return user.User{}, errors.Wrapf(ErrRoleNotAllowed, "%s only", role.Title())
		}
		return s.currentUser, nil
	default:
		return user.User{}, errors.Wrapf(user.ErrInvalidRole, "%q", s.currentUser.Role)
	}
}

func (s *Store) groupIndex(id string) int {
	for i := range s.groups {
		if s.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) lessonIndex(id string) int {
	for i := range s.lessons {
		if s.lessons[i].ID == id {
			return i
		}
	}
	return -1
}

func copyLesson(l classroom.Lesson) classroom.Lesson {
	if l.Grade != nil {
		l.Grade = classroom.IntPtr(*l.Grade)
	}
	return l
}
