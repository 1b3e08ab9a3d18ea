package validation

import (
	"strings"
	"testing"
	"time"
)

func fieldSet(errs []FieldError) map[string]string {
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		m[e.Field] = e.Message
	}
	return m
}

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name       string
		inputName  string
		email      string
		password   string
		wantFields []string
	}{
		{
			name:      "valid input",
			inputName: "Ann Lee",
			email:     "ann@example.com",
			password:  "secret1",
		},
		{
			name:       "all fields invalid at once",
			inputName:  "A",
			email:      "not-an-email",
			password:   "123",
			wantFields: []string{"name", "email", "password"},
		},
		{
			name:       "name too short",
			inputName:  "A",
			email:      "ann@example.com",
			password:   "secret1",
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			inputName:  strings.Repeat("a", 51),
			email:      "ann@example.com",
			password:   "secret1",
			wantFields: []string{"name"},
		},
		{
			name:       "name with digits",
			inputName:  "Ann 42",
			email:      "ann@example.com",
			password:   "secret1",
			wantFields: []string{"name"},
		},
		{
			name:      "name with surrounding whitespace is trimmed",
			inputName: "  Ann Lee  ",
			email:     "ann@example.com",
			password:  "secret1",
		},
		{
			name:       "email without at sign",
			inputName:  "Ann Lee",
			email:      "ann.example.com",
			password:   "secret1",
			wantFields: []string{"email"},
		},
		{
			name:       "email without dot after at",
			inputName:  "Ann Lee",
			email:      "ann@example",
			password:   "secret1",
			wantFields: []string{"email"},
		},
		{
			name:      "uppercase email is normalized before matching",
			inputName: "Ann Lee",
			email:     "ANN@Example.COM",
			password:  "secret1",
		},
		{
			name:       "password too short",
			inputName:  "Ann Lee",
			email:      "ann@example.com",
			password:   "12345",
			wantFields: []string{"password"},
		},
		{
			name:       "everything empty",
			inputName:  "",
			email:      "",
			password:   "",
			wantFields: []string{"name", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegister(tt.inputName, tt.email, tt.password)
			got := fieldSet(errs)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("got violations %v; want fields %v", errs, tt.wantFields)
			}
			for _, field := range tt.wantFields {
				if _, ok := got[field]; !ok {
					t.Errorf("expected a violation for field %q, got %v", field, errs)
				}
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		wantFields []string
	}{
		{name: "valid", email: "ann@example.com", password: "whatever"},
		{name: "missing password only has to be present", email: "ann@example.com", password: "", wantFields: []string{"password"}},
		{name: "short password passes at login", email: "ann@example.com", password: "x"},
		{name: "bad email", email: "nope", password: "secret1", wantFields: []string{"email"}},
		{name: "both missing", email: "", password: "", wantFields: []string{"email", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLogin(tt.email, tt.password)
			got := fieldSet(errs)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("got violations %v; want fields %v", errs, tt.wantFields)
			}
			for _, field := range tt.wantFields {
				if _, ok := got[field]; !ok {
					t.Errorf("expected a violation for field %q, got %v", field, errs)
				}
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestValidateTask(t *testing.T) {
	longTitle := strings.Repeat("t", 101)
	longDescription := strings.Repeat("d", 501)

	tests := []struct {
		name         string
		in           TaskInput
		requireTitle bool
		wantFields   []string
	}{
		{
			name:         "title only is valid",
			in:           TaskInput{Title: strPtr("Write report")},
			requireTitle: true,
		},
		{
			name:         "missing title on create",
			in:           TaskInput{},
			requireTitle: true,
			wantFields:   []string{"title"},
		},
		{
			name:         "blank title on create",
			in:           TaskInput{Title: strPtr("   ")},
			requireTitle: true,
			wantFields:   []string{"title"},
		},
		{
			name:         "title too long",
			in:           TaskInput{Title: &longTitle},
			requireTitle: true,
			wantFields:   []string{"title"},
		},
		{
			name: "absent title allowed on update",
			in:   TaskInput{Description: strPtr("more detail")},
		},
		{
			name:       "blank title rejected on update too",
			in:         TaskInput{Title: strPtr("")},
			wantFields: []string{"title"},
		},
		{
			name:       "description too long",
			in:         TaskInput{Title: strPtr("ok"), Description: &longDescription},
			wantFields: []string{"description"},
		},
		{
			name:       "unknown status",
			in:         TaskInput{Status: strPtr("archived")},
			wantFields: []string{"status"},
		},
		{
			name: "valid status",
			in:   TaskInput{Status: strPtr("completed")},
		},
		{
			name:       "unknown priority",
			in:         TaskInput{Priority: strPtr("urgent")},
			wantFields: []string{"priority"},
		},
		{
			name: "valid priority",
			in:   TaskInput{Priority: strPtr("high")},
		},
		{
			name:       "bad due date",
			in:         TaskInput{DueDate: strPtr("next tuesday")},
			wantFields: []string{"dueDate"},
		},
		{
			name: "calendar due date",
			in:   TaskInput{DueDate: strPtr("2026-12-31")},
		},
		{
			name: "rfc3339 due date",
			in:   TaskInput{DueDate: strPtr("2026-12-31T10:00:00Z")},
		},
		{
			name:         "multiple violations reported together",
			in:           TaskInput{Title: &longTitle, Priority: strPtr("urgent"), DueDate: strPtr("???")},
			requireTitle: true,
			wantFields:   []string{"title", "priority", "dueDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTask(tt.in, tt.requireTitle)
			got := fieldSet(errs)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("got violations %v; want fields %v", errs, tt.wantFields)
			}
			for _, field := range tt.wantFields {
				if _, ok := got[field]; !ok {
					t.Errorf("expected a violation for field %q, got %v", field, errs)
				}
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	longTitle := strings.Repeat("t", 101)

	tests := []struct {
		name    string
		errs    []FieldError
		field   string
		message string
	}{
		{
			name:    "short name",
			errs:    ValidateRegister("A", "ann@example.com", "secret1"),
			field:   "name",
			message: "Name must be between 2 and 50 characters",
		},
		{
			name:    "long name reports the same length message",
			errs:    ValidateRegister(strings.Repeat("a", 51), "ann@example.com", "secret1"),
			field:   "name",
			message: "Name must be between 2 and 50 characters",
		},
		{
			name:    "name with digits",
			errs:    ValidateRegister("Ann 42", "ann@example.com", "secret1"),
			field:   "name",
			message: "Name can only contain letters and spaces",
		},
		{
			name:    "bad email",
			errs:    ValidateRegister("Ann Lee", "nope", "secret1"),
			field:   "email",
			message: "Please provide a valid email address",
		},
		{
			name:    "short password",
			errs:    ValidateRegister("Ann Lee", "ann@example.com", "123"),
			field:   "password",
			message: "Password must be at least 6 characters long",
		},
		{
			name:    "missing login password",
			errs:    ValidateLogin("ann@example.com", ""),
			field:   "password",
			message: "Password is required",
		},
		{
			name:    "missing title",
			errs:    ValidateTask(TaskInput{}, true),
			field:   "title",
			message: "Task title is required",
		},
		{
			name:    "blank title reports the same message as missing",
			errs:    ValidateTask(TaskInput{Title: strPtr("   ")}, true),
			field:   "title",
			message: "Task title is required",
		},
		{
			name:    "long title",
			errs:    ValidateTask(TaskInput{Title: &longTitle}, true),
			field:   "title",
			message: "Title cannot exceed 100 characters",
		},
		{
			name:    "unknown status",
			errs:    ValidateTask(TaskInput{Status: strPtr("archived")}, false),
			field:   "status",
			message: "Status must be either pending or completed",
		},
		{
			name:    "unknown priority",
			errs:    ValidateTask(TaskInput{Priority: strPtr("urgent")}, false),
			field:   "priority",
			message: "Priority must be one of: low, medium, high",
		},
		{
			name:    "bad due date",
			errs:    ValidateTask(TaskInput{DueDate: strPtr("whenever")}, false),
			field:   "dueDate",
			message: "Due date must be a valid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fieldSet(tt.errs)[tt.field]
			if !ok {
				t.Fatalf("expected a violation for field %q, got %v", tt.field, tt.errs)
			}
			if got != tt.message {
				t.Errorf("message for %q = %q; want %q", tt.field, got, tt.message)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ann@Example.COM "); got != "ann@example.com" {
		t.Errorf("NormalizeEmail = %q; want %q", got, "ann@example.com")
	}
}

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("2026-09-01")
	if err != nil {
		t.Fatalf("ParseDueDate returned error: %v", err)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDueDate = %v; want %v", got, want)
	}

	if _, err := ParseDueDate("not a date"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}
