package validation

import (
	"strings"
	"testing"
	"time"

	"task-tracker/internal/config"
	"task-tracker/internal/domain"
)

func firstFieldError(t *testing.T, err error) FieldError {
	t.Helper()
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if len(ve.Errors) == 0 {
		t.Fatal("expected at least one field error")
	}
	return ve.Errors[0]
}

func TestTaskValidator_ValidateDescription(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
		errorType   ValidationErrorType
	}{
		{"Valid description", "Buy milk", "Buy milk", false, ""},
		{"Trimmed", "  Buy milk \n", "Buy milk", false, ""},
		{"Empty", "", "", true, ErrorTypeRequired},
		{"Whitespace only", "   ", "", true, ErrorTypeRequired},
		{"Too long", strings.Repeat("a", 501), "", true, ErrorTypeInvalidLength},
		{"Special characters allowed", "Fix bug #42 @home!", "Fix bug #42 @home!", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateDescription(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("ValidateDescription(%q) expected error but got nil", tt.input)
				}
				if fe := firstFieldError(t, err); fe.Type != tt.errorType {
					t.Errorf("ValidateDescription(%q) error type = %v, expected %v", tt.input, fe.Type, tt.errorType)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateDescription(%q) unexpected error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ValidateDescription(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	validator := NewTaskValidator()

	if err := validator.ValidateTaskID(1); err != nil {
		t.Errorf("ValidateTaskID(1) unexpected error: %v", err)
	}
	for _, id := range []int64{0, -3} {
		err := validator.ValidateTaskID(id)
		if err == nil {
			t.Fatalf("ValidateTaskID(%d) expected error", id)
		}
		if fe := firstFieldError(t, err); fe.Field != "id" {
			t.Errorf("ValidateTaskID(%d) field = %q, expected id", id, fe.Field)
		}
	}
}

func TestTaskValidator_ParseStatusAndPriority(t *testing.T) {
	validator := NewTaskValidator()

	status, err := validator.ParseStatus(" In-Progress")
	if err != nil || status != domain.StatusInProgress {
		t.Errorf("ParseStatus() = %v, %v", status, err)
	}
	if _, err := validator.ParseStatus("blocked"); err == nil {
		t.Error("ParseStatus(blocked) expected error")
	} else if fe := firstFieldError(t, err); !strings.Contains(fe.Message, "todo, in-progress, done") {
		t.Errorf("ParseStatus error message = %q", fe.Message)
	}

	priority, err := validator.ParsePriority("HIGH")
	if err != nil || priority != domain.PriorityHigh {
		t.Errorf("ParsePriority() = %v, %v", priority, err)
	}
	if _, err := validator.ParsePriority("urgent"); err == nil {
		t.Error("ParsePriority(urgent) expected error")
	}
}

func TestTaskValidator_ParseDeadlineChange(t *testing.T) {
	validator := &TaskValidator{validator: NewValidator().WithLocation(time.UTC)}

	change, err := validator.ParseDeadlineChange("2024-12-31")
	if err != nil {
		t.Fatalf("ParseDeadlineChange() unexpected error: %v", err)
	}
	if change.Clear || !change.At.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDeadlineChange() = %+v", change)
	}

	change, err = validator.ParseDeadlineChange("clear")
	if err != nil || !change.Clear {
		t.Errorf("ParseDeadlineChange(clear) = %+v, %v", change, err)
	}

	if _, err := validator.ParseDeadlineChange("31/12/2024"); err == nil {
		t.Error("ParseDeadlineChange() expected format error")
	} else if fe := firstFieldError(t, err); fe.Type != ErrorTypeInvalidFormat {
		t.Errorf("ParseDeadlineChange() error type = %v", fe.Type)
	}
}

func TestTaskValidator_Tags(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TagMaxLength = 5
	validator := NewTaskValidatorWithConfig(cfg)

	tag, err := validator.ValidateTag("  work ")
	if err != nil || tag != "work" {
		t.Errorf("ValidateTag() = %q, %v", tag, err)
	}
	if _, err := validator.ValidateTag(" "); err == nil {
		t.Error("ValidateTag(blank) expected error")
	}
	if _, err := validator.ValidateTag("toolong"); err == nil {
		t.Error("ValidateTag(toolong) expected error")
	}

	tags, err := validator.NormalizeTags([]string{"a", " b ", "a", ""})
	if err != nil {
		t.Fatalf("NormalizeTags() unexpected error: %v", err)
	}
	if strings.Join(tags, ",") != "a,b" {
		t.Errorf("NormalizeTags() = %v, expected [a b]", tags)
	}

	if _, err := validator.NormalizeTags([]string{"ok", "waytoolong"}); err == nil {
		t.Error("NormalizeTags() expected length error")
	}
}
