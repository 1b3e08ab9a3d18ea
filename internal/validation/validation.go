// Package validation implements field-level validation for registration,
// login and task payloads on top of go-playground/validator. Validators
// collect the complete set of violations instead of failing on the first
// one, so clients can render all problems at once. No validator touches
// persistence.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Canonical rule set: name 2-50 letters/spaces, email single-@ pattern,
// password length >= 6 at registration (presence only at login). Title is
// capped at 100 characters and description at 500.
const (
	NameMinLen        = 2
	NameMaxLen        = 50
	PasswordMinLen    = 6
	TitleMaxLen       = 100
	DescriptionMaxLen = 500
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	must(validate.RegisterValidation("alpha_space", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	}))
	must(validate.RegisterValidation("email_pattern", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	}))
	must(validate.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := ParseDueDate(fl.Field().String())
		return err == nil
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// fieldMessages maps a field's JSON name and the failed validation tag to
// the message returned to the client. Tags evaluate in declaration order,
// so each field reports its first violation with a stable message.
var fieldMessages = map[string]map[string]string{
	"name": {
		"min":         "Name must be between 2 and 50 characters",
		"max":         "Name must be between 2 and 50 characters",
		"alpha_space": "Name can only contain letters and spaces",
	},
	"email": {
		"email_pattern": "Please provide a valid email address",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters long",
	},
	"title": {
		"required": "Task title is required",
		"min":      "Task title is required",
		"max":      "Title cannot exceed 100 characters",
	},
	"description": {
		"max": "Description cannot exceed 500 characters",
	},
	"status": {
		"oneof": "Status must be either pending or completed",
	},
	"priority": {
		"oneof": "Priority must be one of: low, medium, high",
	},
	"dueDate": {
		"duedate": "Due date must be a valid date",
	},
}

// FieldError describes a single validation violation.
type FieldError struct {
	// Field is the name of the offending input field.
	Field string `json:"field"`
	// Message is a human-readable description of the violation.
	Message string `json:"message"`
}

// collect runs the struct validators and converts the failures into
// FieldErrors keyed by JSON field name.
func collect(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	structType := reflect.TypeOf(s)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	var out []FieldError
	for _, e := range verrs {
		field, _ := structType.FieldByName(e.StructField())
		jsonTag := strings.Split(field.Tag.Get("json"), ",")[0]
		if jsonTag == "" {
			jsonTag = e.StructField()
		}
		msg := fieldMessages[jsonTag][e.Tag()]
		if msg == "" {
			msg = fmt.Sprintf("Field '%s' is invalid", jsonTag)
		}
		out = append(out, FieldError{Field: jsonTag, Message: msg})
	}
	return out
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Email uniqueness is case-insensitive, so every email is normalized
// before validation, storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type registerPayload struct {
	Name     string `json:"name" validate:"min=2,max=50,alpha_space"`
	Email    string `json:"email" validate:"email_pattern"`
	Password string `json:"password" validate:"min=6"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"email_pattern"`
	Password string `json:"password" validate:"required"`
}

// ValidateRegister checks registration input and returns every violation
// found. An empty slice means the input is valid.
func ValidateRegister(name, email, password string) []FieldError {
	return collect(&registerPayload{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Password: password,
	})
}

// ValidateLogin checks login input. Password format is only enforced at
// registration; here it just has to be present.
func ValidateLogin(email, password string) []FieldError {
	return collect(&loginPayload{
		Email:    NormalizeEmail(email),
		Password: password,
	})
}

// TaskInput carries the task fields subject to validation. Pointer fields
// distinguish "absent" from "present but empty" for partial updates.
type TaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
}

// On pointer fields omitempty skips only nil pointers, never a pointer to
// an empty string, so "present but blank" still validates on updates.
type createTaskPayload struct {
	Title       *string `json:"title" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"dueDate" validate:"omitempty,duedate"`
}

type updateTaskPayload struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"dueDate" validate:"omitempty,duedate"`
}

// ValidateTask checks the provided task fields. When requireTitle is true
// (creation) a missing title is a violation; on partial updates only the
// fields present are checked.
func ValidateTask(in TaskInput, requireTitle bool) []FieldError {
	title := trimPtr(in.Title)
	description := trimPtr(in.Description)

	if requireTitle {
		return collect(&createTaskPayload{
			Title:       title,
			Description: description,
			Status:      in.Status,
			Priority:    in.Priority,
			DueDate:     in.DueDate,
		})
	}
	return collect(&updateTaskPayload{
		Title:       title,
		Description: description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	})
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

// ParseDueDate parses a due date in RFC 3339 form or as a plain
// "2006-01-02" calendar date.
func ParseDueDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
