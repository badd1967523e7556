package rest

import "fmt"

// Identifier is a table or column name that passed sanitization and is
// safe to embed in SQL text. Identifiers cannot be bound as statement
// parameters, so the allow-list check below is the sole injection
// defense for them; values never take this path and are always bound.
type Identifier string

// SanitizeIdentifier validates name against an allow-list of ASCII
// letters, digits and underscore. Anything else, including quotes,
// whitespace and schema-qualification dots, is rejected.
func SanitizeIdentifier(name string) (Identifier, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidIdentifier)
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return Identifier(name), nil
}
