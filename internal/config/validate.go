package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/ariel-frischer/convlog/internal/semver"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError is a config problem at a file position or in one field.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// validate reports fields by their config key and knows the "semver" tag.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
		_, err := semver.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateYAMLSyntax checks that a YAML config file parses, reporting the
// line and column of the first syntax error. Missing and empty files pass.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}
	return nil
}

// ValidateConfigValues checks the merged configuration against the struct
// tags. Every invalid field is reported, joined in field order.
func ValidateConfigValues(cfg *Configuration, source string) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{FilePath: source, Message: err.Error()}
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &ValidationError{
			FilePath: source,
			Field:    fieldPath(fe),
			Message:  describeFieldError(fe),
		})
	}
	return errors.Join(errs...)
}

// fieldPath drops the struct name: "Configuration.recognized_types[1]" -> "recognized_types[1]".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must list at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "lowercase", "alpha":
		return fmt.Sprintf("%q is not a commit type (lowercase letters only)", fe.Value())
	case "unique":
		return "must not list a commit type twice"
	case "semver":
		return fmt.Sprintf("%q must be MAJOR.MINOR.PATCH with an optional leading v", fe.Value())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// extractLineColumn reads the position out of a yaml.v3 error such as
// "yaml: line 5: could not find expected ':'". It returns 0, 0 when absent.
func extractLineColumn(errMsg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

func cleanYAMLError(errMsg string) string {
	if !strings.HasPrefix(errMsg, "yaml:") {
		return errMsg
	}
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		return errMsg[idx+2:]
	}
	return errMsg
}
