package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/session"
)

type classroomApi struct {
	*sessionApi
}

func registerClassroomAPI(g *echo.Group, api *classroomApi) {
	jwt := api.auth.middleware()

	gg := g.Group("/groups", jwt)
	gg.GET("", api.groupQuery)
	gg.POST("", api.groupCreate)
	gg.GET("/:id", api.groupRetrieve)

	lg := g.Group("/lessons", jwt)
	lg.GET("", api.lessonQuery)
	lg.POST("", api.lessonCreate)
	lg.GET("/:id", api.lessonRetrieve)
	lg.POST("/:id/assignments", api.assignmentSubmit)

	g.GET("/assignments", api.assignmentQuery, jwt)
}

// Groups

func (api *classroomApi) groupQuery(ctx echo.Context) error {
	var groups []classroom.Group
	if err := api.withStore(ctx, func(s *session.Store) error {
		groups = s.Groups()
		return nil
	}); err != nil {
		return errors.Wrap(err, "querying groups")
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *classroomApi) groupCreate(ctx echo.Context) error {
	var data classroom.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var grp classroom.Group
	if err := api.withStore(ctx, func(s *session.Store) (err error) {
		grp, err = s.CreateGroup(data.Name, data.Description)
		return err
	}); err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.JSON(http.StatusCreated, grp)
}

func (api *classroomApi) groupRetrieve(ctx echo.Context) error {
	var grp classroom.Group
	var found bool
	if err := api.withStore(ctx, func(s *session.Store) error {
		grp, found = s.Group(ctx.Param("id"))
		return nil
	}); err != nil {
		return errors.Wrap(err, "retrieving group")
	}
	if !found {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, grp)
}

// Lessons

func (api *classroomApi) lessonQuery(ctx echo.Context) error {
	groupID := ctx.QueryParam("group_id")

	var lessons []classroom.Lesson
	if err := api.withStore(ctx, func(s *session.Store) error {
		if groupID != "" {
			lessons = s.LessonsByGroup(groupID)
		} else {
			lessons = s.Lessons()
		}
		return nil
	}); err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *classroomApi) lessonCreate(ctx echo.Context) error {
	var data classroom.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var lsn classroom.Lesson
	if err := api.withStore(ctx, func(s *session.Store) (err error) {
		lsn, err = s.CreateLesson(data.GroupID, data.Title, data.Description, data.DueDate)
		return err
	}); err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, lsn)
}

func (api *classroomApi) lessonRetrieve(ctx echo.Context) error {
	var lsn classroom.Lesson
	var found bool
	if err := api.withStore(ctx, func(s *session.Store) error {
		lsn, found = s.Lesson(ctx.Param("id"))
		return nil
	}); err != nil {
		return errors.Wrap(err, "retrieving lesson")
	}
	if !found {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, lsn)
}

// Assignments

func (api *classroomApi) assignmentQuery(ctx echo.Context) error {
	var assignments []classroom.Assignment
	if err := api.withStore(ctx, func(s *session.Store) error {
		assignments = s.Assignments()
		return nil
	}); err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *classroomApi) assignmentSubmit(ctx echo.Context) error {
	var data classroom.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	data.LessonID = ctx.Param("id")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var asg classroom.Assignment
	if err := api.withStore(ctx, func(s *session.Store) (err error) {
		asg, err = s.SubmitAssignment(data.LessonID, data.Content)
		return err
	}); err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}
