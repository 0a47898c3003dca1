package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxNodes bounds a single analysis request. Contact books are expected
	// to stay in the low thousands.
	MaxNodes = 20000
	// MaxTagsPerContact bounds the tag list of a single contact.
	MaxTagsPerContact = 100
)

func init() {
	validate = validator.New()
}

// ErrNilDocument is returned when no document was supplied.
var ErrNilDocument = errors.New("document cannot be nil")

// ValidateDocument checks a network document before it is turned into a graph.
// Structural invariants (symmetry, dangling references) are enforced by
// graph.New; this covers field-level constraints and request size.
func ValidateDocument(doc *graph.Document) error {
	if doc == nil {
		return ErrNilDocument
	}

	if err := validate.Struct(doc); err != nil {
		return formatValidationError(err)
	}

	if len(doc.Nodes) > MaxNodes {
		return fmt.Errorf("Nodes: maximum %d nodes allowed, got %d", MaxNodes, len(doc.Nodes))
	}

	for _, c := range doc.Contacts {
		if len(c.Tags) > MaxTagsPerContact {
			return fmt.Errorf("Contacts: contact %q has %d tags, maximum is %d", c.ID, len(c.Tags), MaxTagsPerContact)
		}
	}

	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
