package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/classroom"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

var (
	errExit  = errors.New("bye")
	errUsage = errors.New("invalid usage")
)

type command struct {
	usage string
	run   func(c *console, args string) error
}

// commands is filled in init since help refers back to it.
var commands map[string]command

func init() {
	commands = map[string]command{
		"login":       {usage: "login " + strings.Join(user.RoleNames(), "|"), run: (*console).login},
		"logout":      {usage: "logout", run: (*console).logout},
		"whoami":      {usage: "whoami", run: (*console).whoami},
		"groups":      {usage: "groups", run: (*console).groups},
		"group":       {usage: "group add NAME | DESCRIPTION", run: (*console).group},
		"lessons":     {usage: "lessons [GROUP_ID]", run: (*console).lessons},
		"lesson":      {usage: "lesson add GROUP_ID | TITLE | DESCRIPTION | DUE_DATE", run: (*console).lesson},
		"submit":      {usage: "submit LESSON_ID | CONTENT", run: (*console).submit},
		"assignments": {usage: "assignments", run: (*console).assignments},
		"stats":       {usage: "stats", run: (*console).stats},
		"help":        {usage: "help", run: (*console).help},
		"exit":        {usage: "exit", run: func(*console, string) error { return errExit }},
	}
}

// console renders a session Store as text and turns command lines into Store operations.
type console struct {
	store      *session.Store
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func newConsole(store *session.Store, validate *validator.Validate, translator ut.Translator, out io.Writer) *console {
	return &console{store: store, validate: validate, translator: translator, out: out}
}

// exec runs one command line. It returns errExit when the user wants to leave.
func (c *console) exec(line string) error {
	line = core.CleanString(line)
	if line == "" {
		return nil
	}
	name, args := splitWord(line)
	name = strings.ToLower(name)

	cmd, ok := commands[name]
	if !ok {
		c.printf("unknown command %q.", name)
		if matches := difflib.GetCloseMatches(name, commandNames(), 1, 0.6); len(matches) > 0 {
			c.printf(" Did you mean %q?", matches[0])
		}
		c.printf(" Type \"help\" for the list of commands.\n")
		return nil
	}

	err := cmd.run(c, args)
	switch {
	case err == errExit:
		return err
	case err == errUsage:
		c.printf("usage: %s\n", cmd.usage)
	case err != nil:
		c.printError(err)
	}
	for _, n := range c.store.DrainNotices() {
		c.printf("* %s %s\n", n.Title, n.Description)
	}
	return nil
}

// Commands

func (c *console) login(args string) error {
	if core.IsBlank(args) {
		return errUsage
	}
	role, err := user.ParseRole(args)
	if err != nil {
		return user.NewRoleValidationError("role")
	}
	_, err = c.store.Login(role)
	return err
}

func (c *console) logout(string) error {
	if !c.store.IsAuthenticated() {
		return session.ErrNotAuthenticated
	}
	c.store.Logout()
	c.printf("logged out\n")
	return nil
}

func (c *console) whoami(string) error {
	usr, ok := c.store.CurrentUser()
	if !ok {
		return session.ErrNotAuthenticated
	}
	c.printf("%s <%s> (%s) id=%s\n", usr.Name, usr.Email, usr.Role.Title(), usr.ID)
	return nil
}

func (c *console) groups(string) error {
	if !c.store.IsAuthenticated() {
		return session.ErrNotAuthenticated
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\tTEACHER\tSTUDENTS\tLESSONS")
	for _, g := range c.store.Groups() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", g.ID, g.Name, g.Description, g.TeacherName, g.StudentsCount, g.LessonsCount)
	}
	return w.Flush()
}

func (c *console) group(args string) error {
	sub, rest := splitWord(args)
	if sub != "add" {
		return errUsage
	}
	parts := splitFields(rest, 2)
	if parts == nil {
		return errUsage
	}
	ng := classroom.NewGroup{Name: parts[0], Description: parts[1]}
	if err := ng.Validate(c.validate); err != nil {
		return err
	}
	_, err := c.store.CreateGroup(ng.Name, ng.Description)
	return err
}

func (c *console) lessons(args string) error {
	if !c.store.IsAuthenticated() {
		return session.ErrNotAuthenticated
	}
	lessons := c.store.Lessons()
	if groupID := core.CleanString(args); groupID != "" {
		lessons = c.store.LessonsByGroup(groupID)
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGROUP\tTITLE\tDUE\tSTATUS\tGRADE")
	for _, l := range lessons {
		grade := "-"
		if l.Grade != nil {
			grade = fmt.Sprint(*l.Grade)
		}
		status := string(l.Status)
		if !l.Status.IsSet() {
			status = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", l.ID, l.GroupID, l.Title, l.DueDate, status, grade)
	}
	return w.Flush()
}

func (c *console) lesson(args string) error {
	sub, rest := splitWord(args)
	if sub != "add" {
		return errUsage
	}
	parts := splitFields(rest, 4)
	if parts == nil {
		return errUsage
	}
	nl := classroom.NewLesson{GroupID: parts[0], Title: parts[1], Description: parts[2], DueDate: parts[3]}
	if err := nl.Validate(c.validate); err != nil {
		return err
	}
	_, err := c.store.CreateLesson(nl.GroupID, nl.Title, nl.Description, nl.DueDate)
	return err
}

func (c *console) submit(args string) error {
	parts := splitFields(args, 2)
	if parts == nil {
		return errUsage
	}
	na := classroom.NewAssignment{LessonID: parts[0], Content: parts[1]}
	if err := na.Validate(c.validate); err != nil {
		return err
	}
	_, err := c.store.SubmitAssignment(na.LessonID, na.Content)
	return err
}

func (c *console) assignments(string) error {
	if !c.store.IsAuthenticated() {
		return session.ErrNotAuthenticated
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLESSON\tSUBMITTED\tCONTENT")
	for _, a := range c.store.Assignments() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.LessonID, a.SubmittedAt.Format("2006-01-02 15:04"), a.Content)
	}
	return w.Flush()
}

func (c *console) stats(string) error {
	st, err := c.store.Stats()
	if err != nil {
		return err
	}
	switch st.Role {
	case user.RoleTeacher:
		c.printf("groups: %d, students: %d, lessons: %d\n", st.Groups, st.Students, st.Lessons)
	case user.RoleStudent:
		c.printf("lessons: %d, completed: %d (%d%%), in progress: %d, overdue: %d, submissions: %d",
			st.Lessons, st.CompletedLessons, st.CompletionPercent, st.PendingLessons, st.OverdueLessons, st.Submissions)
		if st.AverageGrade != nil {
			c.printf(", average grade: %.1f", *st.AverageGrade)
		}
		c.printf("\n")
	}
	return nil
}

func (c *console) help(string) error {
	for _, name := range commandNames() {
		c.printf("  %s\n", commands[name].usage)
	}
	return nil
}

// Helpers

func (c *console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) printError(err error) {
	if vErr, ok := err.(*core.ValidationError); ok {
		for _, fld := range vErr.Fields {
			c.printf("error: %s: %s\n", fld.Field, fld.Error)
		}
		return
	}
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		fldErrs := core.TranslateValidationErrors(vErrs, c.translator)
		flds := make([]string, 0, len(fldErrs))
		for fld := range fldErrs {
			flds = append(flds, fld)
		}
		sort.Strings(flds)
		for _, fld := range flds {
			c.printf("error: %s: %s\n", fld, fldErrs[fld])
		}
		return
	}
	c.printf("error: %v\n", err)
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// splitWord splits `s` into its first word and the rest.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// splitFields splits `s` on "|" into exactly `n` fields; it returns nil otherwise.
func splitFields(s string, n int) []string {
	parts := strings.Split(s, "|")
	if len(parts) != n {
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
