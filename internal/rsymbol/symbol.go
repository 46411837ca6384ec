// Package rsymbol turns arbitrary text into R source fragments: bare or
// backtick-quoted symbols and double-quoted string literals.
//
// Escaping contract:
//   - A name that is syntactic (letters, digits, '.' and '_'; starting with a
//     letter or with a '.' not followed by a digit; not a reserved word) is
//     emitted as is.
//   - Any other name is wrapped in backticks, with '\' and '`' escaped by a
//     backslash.
//   - Names that are empty (after trimming white space), contain NUL or exceed
//     MaxSymbolBytes cannot be represented and are rejected by
//     ValidateTargetIdentifier.
package rsymbol

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mugiliam/hatchworkbench/internal/apperrors"
)

// MaxSymbolBytes is the longest symbol name the interpreter accepts.
const MaxSymbolBytes = 10000

var ErrInvalidTargetIdentifier apperrors.Error = apperrors.New("invalid target identifier").SetExpandError(true).SetStatusCode(http.StatusBadRequest)

var reservedWords = map[string]struct{}{
	"if": {}, "else": {}, "repeat": {}, "while": {}, "function": {},
	"for": {}, "in": {}, "next": {}, "break": {},
	"TRUE": {}, "FALSE": {}, "NULL": {}, "Inf": {}, "NaN": {},
	"NA": {}, "NA_integer_": {}, "NA_real_": {}, "NA_character_": {}, "NA_complex_": {},
	"...": {},
}

func isReserved(name string) bool {
	if _, ok := reservedWords[name]; ok {
		return true
	}
	// ..1, ..2, ... refer to elements of '...'
	if strings.HasPrefix(name, "..") && len(name) > 2 {
		for _, r := range name[2:] {
			if !unicode.IsDigit(r) {
				return false
			}
		}
		return true
	}
	return false
}

// IsSyntacticName reports whether name can be used as a bare symbol.
func IsSyntacticName(name string) bool {
	if name == "" || !utf8.ValidString(name) || isReserved(name) {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r):
		case r == '.':
			if i == 0 && len(name) > 1 {
				next, _ := utf8.DecodeRuneInString(name[1:])
				if unicode.IsDigit(next) {
					return false
				}
			}
		case unicode.IsDigit(r), r == '_':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ToSymbolName returns name as a symbol that can be embedded in source.
func ToSymbolName(name string) string {
	if IsSyntacticName(name) {
		return name
	}
	var sb strings.Builder
	sb.Grow(len(name) + 2)
	sb.WriteByte('`')
	for _, r := range name {
		if r == '\\' || r == '`' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('`')
	return sb.String()
}

// ValidateTargetIdentifier checks that name can be turned into a symbol by
// ToSymbolName.
func ValidateTargetIdentifier(name string) apperrors.Error {
	switch {
	case strings.TrimSpace(name) == "":
		return ErrInvalidTargetIdentifier.Msg("variable name is empty")
	case strings.ContainsRune(name, 0):
		return ErrInvalidTargetIdentifier.Msg("variable name contains a NUL character")
	case !utf8.ValidString(name):
		return ErrInvalidTargetIdentifier.Msg("variable name is not valid UTF-8")
	case len(name) > MaxSymbolBytes:
		return ErrInvalidTargetIdentifier.Msg("variable name is too long")
	}
	return nil
}
