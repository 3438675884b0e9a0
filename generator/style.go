package generator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/erraggy/oassync/internal/naming"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/go-playground/validator/v10"
)

// DefaultPackageName is the Go package name used when Style.PackageName is empty.
const DefaultPackageName = "api"

// Style configures naming and documentation of generated code.
type Style struct {
	// TypeNaming is PascalCase (default), camelCase or snake_case. It applies
	// to declared type names; field names follow each language's convention.
	TypeNaming string `json:"type_naming,omitempty" validate:"omitempty,oneof=PascalCase camelCase snake_case"`
	// GenerateDocs emits schema and property descriptions as comments.
	GenerateDocs bool `json:"generate_docs,omitempty"`
	// PackageName is the Go package clause for Go targets.
	PackageName string `json:"package_name,omitempty" validate:"omitempty,identifier"`
}

// DefaultStyle returns PascalCase naming without doc comments.
func DefaultStyle() Style {
	return Style{TypeNaming: naming.PascalCase, PackageName: DefaultPackageName}
}

func (s Style) withDefaults() Style {
	if s.TypeNaming == "" {
		s.TypeNaming = naming.PascalCase
	}
	if s.PackageName == "" {
		s.PackageName = DefaultPackageName
	}
	return s
}

// styleValidate is shared; validator caches struct metadata and is safe for
// concurrent use.
var styleValidate *validator.Validate

func init() {
	styleValidate = validator.New(validator.WithRequiredStructEnabled())
	styleValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = styleValidate.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return naming.IsIdentifier(fl.Field().String()) && !strings.Contains(fl.Field().String(), "$")
	})
}

// Validate reports the first invalid option as a ConfigError.
func (s Style) Validate() error {
	err := styleValidate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("failed %q validation", fe.Tag())
		switch fe.Tag() {
		case "oneof":
			msg = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
		case "identifier":
			msg = "must be a valid identifier"
		}
		return &oaserrors.ConfigError{Option: "style." + fe.Field(), Value: fe.Value(), Message: msg}
	}
	return &oaserrors.ConfigError{Option: "style", Message: "invalid style", Cause: err}
}
