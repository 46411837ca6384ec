package rsymbol

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/mugiliam/hatchworkbench/internal/apperrors"
)

var ErrInvalidStringLiteral apperrors.Error = apperrors.New("invalid string literal").SetExpandError(true).SetStatusCode(http.StatusBadRequest)

// ValidateLiteralText checks that s survives TextToLiteral unchanged. String
// literals cannot hold NUL, and invalid UTF-8 would be replaced.
func ValidateLiteralText(s string) apperrors.Error {
	switch {
	case strings.ContainsRune(s, 0):
		return ErrInvalidStringLiteral.Msg("text contains a NUL character")
	case !utf8.ValidString(s):
		return ErrInvalidStringLiteral.Msg("text is not valid UTF-8")
	}
	return nil
}

// TextToLiteral returns s as a double-quoted string literal. Callers check s
// with ValidateLiteralText first.
func TextToLiteral(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// BoolLiteral returns the short logical constant used in generated calls.
func BoolLiteral(b bool) string {
	if b {
		return "T"
	}
	return "F"
}
