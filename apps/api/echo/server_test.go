package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

func TestServer_home(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Darasa API!", rec.Body.String())
}

func TestSessionApi_login(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "no role",
			body:     marchallObj(t, echoMap{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echoMap{"role": "this field is required"}),
		},
		{
			name:     "unknown role",
			body:     marchallObj(t, echoMap{"role": "admin"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echoMap{"role": "must be one of: teacher, student"}),
		},
		{name: "teacher", body: marchallObj(t, echoMap{"role": "teacher"}), wantCode: http.StatusOK},
		{name: "student (mixed case)", body: marchallObj(t, echoMap{"role": " Student"}), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/session/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	resp := login(t, app, user.RoleTeacher)
	assert.Equal(t, user.RoleTeacher, resp.User.Role)
	assert.Equal(t, "Maria Petrovna", resp.User.Name)
	assert.Equal(t, "teacher@school.com", resp.User.Email)
}

func TestSessionApi_auth(t *testing.T) {
	app := setup(t)
	teacher := login(t, app, user.RoleTeacher)

	// expired token
	app.auth.nowFunc = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := app.auth.generateToken(app.auth.claimsFor("1", teacher.User))
	require.NoError(t, err)
	app.auth.nowFunc = time.Now

	// token of a session that was logged out
	loggedOut := login(t, app, user.RoleStudent)
	do(t, app, http.MethodPost, "/v1/session/logout", loggedOut.Token, nil, http.StatusNoContent, nil)

	tests := []httpTest{
		{name: "no token", path: "/v1/session", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "garbage token", path: "/v1/groups", token: "lol", wantCode: http.StatusUnauthorized},
		{name: "expired token", path: "/v1/lessons", token: expired, wantCode: http.StatusUnauthorized},
		{
			name:     "logged out session",
			path:     "/v1/session",
			token:    loggedOut.Token,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "session expired or logged out"}),
		},
		{name: "valid token", path: "/v1/session", token: teacher.Token, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestSessionApi_snapshotAndLogout(t *testing.T) {
	app := setup(t)
	resp := login(t, app, user.RoleStudent)

	var snap session.Snapshot
	do(t, app, http.MethodGet, "/v1/session", resp.Token, nil, http.StatusOK, &snap)
	assert.Equal(t, resp.User, snap.User)
	assert.Len(t, snap.Groups, 1)
	assert.Len(t, snap.Lessons, 2)
	assert.Empty(t, snap.Assignments)

	do(t, app, http.MethodPost, "/v1/session/logout", resp.Token, nil, http.StatusNoContent, nil)
	do(t, app, http.MethodGet, "/v1/session", resp.Token, nil, http.StatusUnauthorized, nil)
	do(t, app, http.MethodPost, "/v1/session/logout", resp.Token, nil, http.StatusUnauthorized, nil)
}

func TestClassroomApi_teacher(t *testing.T) {
	app := setup(t)
	teacher := login(t, app, user.RoleTeacher)

	var groups []classroom.Group
	do(t, app, http.MethodGet, "/v1/groups", teacher.Token, nil, http.StatusOK, &groups)
	require.Len(t, groups, 2)

	t.Run("create group: blank fields", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echoMap{
				"name":        "this field cannot be blank",
				"description": "this field cannot be blank",
			}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups", teacher.Token, marchallObj(t, echoMap{"name": "  "}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	var grp classroom.Group
	do(t, app, http.MethodPost, "/v1/groups", teacher.Token, classroom.NewGroup{Name: "A", Description: "B"}, http.StatusCreated, &grp)
	assert.Equal(t, "A", grp.Name)
	assert.Equal(t, teacher.User.ID, grp.TeacherID)
	assert.Zero(t, grp.StudentsCount)
	assert.Zero(t, grp.LessonsCount)

	t.Run("create lesson: bad due date", func(t *testing.T) {
		body := classroom.NewLesson{GroupID: grp.ID, Title: "T", Description: "D", DueDate: "next week"}
		do(t, app, http.MethodPost, "/v1/lessons", teacher.Token, body, http.StatusBadRequest, nil)
	})

	var lsn classroom.Lesson
	body := classroom.NewLesson{GroupID: grp.ID, Title: "T", Description: "D", DueDate: "2025-12-01"}
	do(t, app, http.MethodPost, "/v1/lessons", teacher.Token, body, http.StatusCreated, &lsn)
	assert.Equal(t, grp.ID, lsn.GroupID)
	assert.Equal(t, classroom.StatusPending, lsn.Status)

	var got classroom.Group
	do(t, app, http.MethodGet, "/v1/groups/"+grp.ID, teacher.Token, nil, http.StatusOK, &got)
	assert.Equal(t, 1, got.LessonsCount)
	do(t, app, http.MethodGet, "/v1/groups/unknown", teacher.Token, nil, http.StatusNotFound, nil)

	var lessons []classroom.Lesson
	do(t, app, http.MethodGet, "/v1/lessons", teacher.Token, nil, http.StatusOK, &lessons)
	assert.Len(t, lessons, 3)
	do(t, app, http.MethodGet, "/v1/lessons?group_id="+grp.ID, teacher.Token, nil, http.StatusOK, &lessons)
	assert.Equal(t, []classroom.Lesson{lsn}, lessons)

	t.Run("teachers cannot submit", func(t *testing.T) {
		do(t, app, http.MethodPost, "/v1/lessons/"+lsn.ID+"/assignments", teacher.Token, echoMap{"content": "answer"}, http.StatusForbidden, nil)
	})

	var notices NoticesResponse
	do(t, app, http.MethodGet, "/v1/notices", teacher.Token, nil, http.StatusOK, &notices)
	assert.Equal(t, []session.Notice{
		{Title: "Welcome!", Description: "You are logged in as Teacher"},
		{Title: "Group created!", Description: `Group "A" was created`},
		{Title: "Lesson created!", Description: `Lesson "T" was added to the group`},
	}, notices.Notices)

	var st session.Stats
	do(t, app, http.MethodGet, "/v1/stats", teacher.Token, nil, http.StatusOK, &st)
	assert.Equal(t, session.Stats{Role: user.RoleTeacher, Groups: 3, Students: 42, Lessons: 3}, st)
}

func TestClassroomApi_student(t *testing.T) {
	app := setup(t)
	student := login(t, app, user.RoleStudent)

	var lessons []classroom.Lesson
	do(t, app, http.MethodGet, "/v1/lessons", student.Token, nil, http.StatusOK, &lessons)
	var pending classroom.Lesson
	for _, l := range lessons {
		if l.Status == classroom.StatusPending {
			pending = l
		}
	}
	require.NotEmpty(t, pending.ID)

	t.Run("progress buckets", func(t *testing.T) {
		var raw echoMap
		do(t, app, http.MethodGet, "/v1/stats", student.Token, nil, http.StatusOK, &raw)
		require.Contains(t, raw, "pending_lessons")
		require.Contains(t, raw, "overdue_lessons")
		assert.Equal(t, float64(1), raw["completed_lessons"])
		// the seeded pending lesson is either still in progress or past due, depending on the wall clock
		assert.Equal(t, float64(1), raw["pending_lessons"].(float64)+raw["overdue_lessons"].(float64))
	})
	t.Run("students cannot create groups", func(t *testing.T) {
		do(t, app, http.MethodPost, "/v1/groups", student.Token, classroom.NewGroup{Name: "A", Description: "B"}, http.StatusForbidden, nil)
	})
	t.Run("blank content", func(t *testing.T) {
		do(t, app, http.MethodPost, "/v1/lessons/"+pending.ID+"/assignments", student.Token, echoMap{"content": " "}, http.StatusBadRequest, nil)
	})

	var asg classroom.Assignment
	do(t, app, http.MethodPost, "/v1/lessons/"+pending.ID+"/assignments", student.Token, echoMap{"content": "answer"}, http.StatusCreated, &asg)
	assert.Equal(t, pending.ID, asg.LessonID)
	assert.Equal(t, student.User.ID, asg.StudentID)
	assert.Equal(t, "answer", asg.Content)
	assert.False(t, asg.SubmittedAt.IsZero())

	var lsn classroom.Lesson
	do(t, app, http.MethodGet, "/v1/lessons/"+pending.ID, student.Token, nil, http.StatusOK, &lsn)
	assert.Equal(t, classroom.StatusCompleted, lsn.Status)

	var assignments []classroom.Assignment
	do(t, app, http.MethodGet, "/v1/assignments", student.Token, nil, http.StatusOK, &assignments)
	require.Len(t, assignments, 1)
	assert.Equal(t, asg.ID, assignments[0].ID)

	var st session.Stats
	do(t, app, http.MethodGet, "/v1/stats", student.Token, nil, http.StatusOK, &st)
	assert.Equal(t, 2, st.CompletedLessons)
	assert.Equal(t, 0, st.PendingLessons)
	assert.Equal(t, 0, st.OverdueLessons)
	assert.Equal(t, 100, st.CompletionPercent)
	assert.Equal(t, 1, st.Submissions)
}

// constIDs hands out the same id every time.
type constIDs string

func (g constIDs) NewID() string { return string(g) }

func TestServer_shutdownOnReusedSessionID(t *testing.T) {
	app := setupWithIDs(t, constIDs("same"))
	login(t, app, user.RoleTeacher)

	var resp httpErr
	do(t, app, http.MethodPost, "/v1/session/login", "", echoMap{"role": "student"}, http.StatusInternalServerError, &resp)
	assert.Equal(t, httpErr{Error: http.StatusText(http.StatusInternalServerError)}, resp)

	select {
	case <-app.ShutdownSignal():
	default:
		t.Fatal("a reused session id must signal shutdown")
	}
	assert.Len(t, app.deps.Logger.(*nopLogger).errors, 1)
}

func TestServer_Start_notifiesSignals(t *testing.T) {
	registered := make(chan struct{}, 1)
	notifySignals = func(chan<- os.Signal, ...os.Signal) { registered <- struct{}{} }
	defer func() { notifySignals = signal.Notify }()

	app := setup(t)
	app.deps.Conf.Server.Address = "127.0.0.1:0"
	select {
	case <-registered:
		t.Fatal("NewServer() must not listen to OS signals")
	default:
	}

	go app.Start()
	select {
	case <-registered:
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not listen to OS signals")
	}
	require.NoError(t, app.Shutdown(context.Background()))
}
