package value

import "regexp"

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// keywords is the full reserved-word set of §6: type names, control
// keywords, literals, and operator keywords. None may be used as a
// variable, function, or parameter name.
var keywords = map[string]bool{
	// type names
	"int": true, "long": true, "double": true, "str": true, "bool": true,
	"tuple": true, "type": true, "function": true, "void": true,
	// control keywords
	"if": true, "else": true, "do": true, "while": true, "until": true,
	"for": true, "otherwise": true, "break": true, "continue": true,
	"return": true, "print": true, "try": true, "catch": true,
	// literals
	"true": true, "false": true,
	// operator keywords
	"and": true, "or": true, "not": true,
}

// IsKeyword reports whether name is a reserved word and therefore cannot
// be used as an identifier (§3, §6).
func IsKeyword(name string) bool {
	return keywords[name]
}

// ValidName reports whether name matches the identifier grammar of §3
// ([A-Za-z_][A-Za-z0-9_]*) and is not a reserved keyword. It does not
// check declaration-time uniqueness, and no declaration path does:
// Scope.Allocate overwrites an existing binding.
func ValidName(name string) bool {
	return nameRe.MatchString(name) && !IsKeyword(name)
}
