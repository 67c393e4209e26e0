package extraction

import "fmt"

type Kind string

const (
	// KindParseFailure means the generator output was not valid JSON.
	KindParseFailure Kind = "parse_failure"
	// KindSchemaInvalid means the normalized payload failed strict validation.
	KindSchemaInvalid Kind = "schema_invalid"
	// KindInternal is any other failure during extraction, detail preserved.
	KindInternal Kind = "internal"
)

type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, e.Detail)
}

// UserMessage is the short description surfaced in error payloads. Parse and
// schema failures share one message; internal failures keep their detail.
// Stack traces and internal identifiers never leak.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindParseFailure, KindSchemaInvalid:
		return "Validation failed"
	default:
		return e.Detail
	}
}
