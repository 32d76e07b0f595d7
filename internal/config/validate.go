package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/secom/pkg/adapter"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError lists every invalid setting.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration:\n  " + strings.Join(e.Problems, "\n  ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("sink", isRegisteredSink)
	_ = v.RegisterValidation("identifier", isIdentifier)
	_ = v.RegisterValidation("relpath", isRelativePath)

	// Report koanf keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a settings struct against its validate tags. Embedding
// structs such as the CLI configuration are accepted too.
func Validate(v any) error {
	err := newValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}

	problems := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		problems[i] = formatFieldError(fe)
	}
	return &ValidationError{Problems: problems}
}

func formatFieldError(fe validator.FieldError) string {
	// Namespace is "Settings.export.type"; keep only the koanf path.
	var path []string
	for _, part := range strings.Split(fe.Namespace(), ".")[1:] {
		if part != "" && part != "Settings" {
			path = append(path, part)
		}
	}
	field := strings.Join(path, ".")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "relpath":
		return fmt.Sprintf("%s %q must be a path inside data_dir", field, fe.Value())
	case "sink":
		return fmt.Sprintf("%s %q is not a known sink (available: %s)",
			field, fe.Value(), strings.Join(adapter.ListAdapters(), ", "))
	case "identifier":
		return fmt.Sprintf("%s %q must be a plain SQL identifier", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func isRegisteredSink(fl validator.FieldLevel) bool {
	return adapter.IsRegistered(strings.ToLower(fl.Field().String()))
}

func isRelativePath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if filepath.IsAbs(p) {
		return false
	}
	clean := filepath.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func isIdentifier(fl validator.FieldLevel) bool {
	return identifierPattern.MatchString(fl.Field().String())
}
