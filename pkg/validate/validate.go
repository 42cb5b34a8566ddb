// Package validate sanitizes and struct-validates inbound HTTP request
// bodies before they reach the pipeline, the same way the teacher's
// internal/models validation layer gates uploads before they reach
// processing.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var instance = validator.New()

// Struct validates s against its `validate` struct tags.
func Struct(s interface{}) error {
	return instance.Struct(s)
}

// FieldError is a structured, client-presentable validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// FormatErrors converts a validator.ValidationErrors into FieldErrors with
// human-readable messages; non-validator errors come back empty.
func FormatErrors(err error) []FieldError {
	var out []FieldError
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// SanitizeQuery strips markup that has no business in a search query string
// before it's logged, cached, or handed to a reasoner prompt.
func SanitizeQuery(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	input = removeTagBlock(input, "<script", "</script>")
	input = removeTagBlock(input, "<iframe", "</iframe>")
	input = removeJavaScriptProtocol(input)
	return strings.TrimSpace(input)
}

func removeTagBlock(input, open, close string) string {
	for {
		start := strings.Index(input, open)
		if start == -1 {
			break
		}
		tagEnd := strings.Index(input[start:], ">")
		if tagEnd == -1 {
			input = input[:start] + input[start+len(open):]
			continue
		}
		tagEnd += start + 1
		end := strings.Index(input[tagEnd:], close)
		if end == -1 {
			input = input[:start]
			break
		}
		end += tagEnd + len(close)
		input = input[:start] + input[end:]
	}
	return input
}

func removeJavaScriptProtocol(input string) string {
	for {
		start := strings.Index(input, "javascript:")
		if start == -1 {
			break
		}
		end := start + len("javascript:")
		for end < len(input) && !strings.ContainsRune(" \t\n\r", rune(input[end])) {
			end++
		}
		input = input[:start] + input[end:]
	}
	return input
}
