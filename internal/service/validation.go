package service

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Alok5code/project-task-management-api/internal/models"
)

// PasswordSymbols is the set a password must draw at least one symbol from.
const PasswordSymbols = "@$!%*?&"

var (
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[` + regexp.QuoteMeta(PasswordSymbols) + `]`)
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the registration policy. Rules run in order, so each field
// reports the first rule it violates.
func (c credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username,
			validation.Required,
			validation.RuneLength(3, 20).Error("must be between 3 and 20 characters long"),
		),
		validation.Field(&c.Password,
			validation.Required,
			validation.RuneLength(8, 0).Error("must be at least 8 characters long"),
			validation.Match(upperPattern).Error("must contain at least one uppercase letter"),
			validation.Match(digitPattern).Error("must contain at least one digit"),
			validation.Match(symbolPattern).Error("must contain at least one of "+PasswordSymbols),
		),
	)
}

var (
	statusValues   = []interface{}{string(models.StatusTodo), string(models.StatusInProgress), string(models.StatusDone)}
	priorityValues = []interface{}{string(models.PriorityLow), string(models.PriorityMedium), string(models.PriorityHigh)}
)

func titleRules() []validation.Rule {
	return []validation.Rule{validation.RuneLength(3, 100).Error("must be between 3 and 100 characters long")}
}

func statusRule() validation.Rule {
	return validation.In(statusValues...).Error("must be one of todo, in_progress, done")
}

func priorityRule() validation.Rule {
	return validation.In(priorityValues...).Error("must be one of low, medium, high")
}

// CreateTaskInput is the payload for a new task.
type CreateTaskInput struct {
	Title       string  `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	Priority    string  `json:"priority" form:"priority"`
}

func (in CreateTaskInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, append([]validation.Rule{validation.Required}, titleRules()...)...),
		validation.Field(&in.Priority, validation.Required, priorityRule()),
	)
}

// UpdateTaskInput is a partial update; omitted fields keep their value.
type UpdateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

func (in UpdateTaskInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, append([]validation.Rule{validation.NilOrNotEmpty}, titleRules()...)...),
		validation.Field(&in.Status, validation.NilOrNotEmpty, statusRule()),
		validation.Field(&in.Priority, validation.NilOrNotEmpty, priorityRule()),
	)
}

func (in UpdateTaskInput) toUpdate() models.TaskUpdate {
	update := models.TaskUpdate{Title: in.Title, Description: in.Description}
	if in.Status != nil {
		s := models.TaskStatus(*in.Status)
		update.Status = &s
	}
	if in.Priority != nil {
		p := models.TaskPriority(*in.Priority)
		update.Priority = &p
	}
	return update
}

// TaskFilterInput holds the optional list filters from the query string.
type TaskFilterInput struct {
	Status   string `form:"status" json:"status"`
	Priority string `form:"priority" json:"priority"`
}

func (in TaskFilterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Status, statusRule()),
		validation.Field(&in.Priority, priorityRule()),
	)
}
