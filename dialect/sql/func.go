package sql

import "strings"

// Function-call expressions for the SELECT field list. Arguments here are
// raw SQL tokens (column names or *), never values: "COUNT(*)" must appear
// as SQL text, not as a bound string literal. Value-carrying function
// calls go through CallFn, which binds every argument.

// Fn formats a named function call over raw SQL tokens: Fn("COALESCE",
// "name", "login") -> "COALESCE(name, login)".
func Fn(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

// As formats an aliased expression: As(Count("*"), "cnt") -> "COUNT(*) AS cnt".
func As(expr, alias string) string {
	return expr + " AS " + alias
}

// Count formats a COUNT aggregate call.
func Count(args ...string) string { return Fn("COUNT", args...) }

// Avg formats an AVG aggregate call.
func Avg(args ...string) string { return Fn("AVG", args...) }

// Min formats a MIN aggregate call.
func Min(args ...string) string { return Fn("MIN", args...) }

// Max formats a MAX aggregate call.
func Max(args ...string) string { return Fn("MAX", args...) }

// Sum formats a SUM aggregate call.
func Sum(args ...string) string { return Fn("SUM", args...) }
