// Package sparql builds Wikidata SPARQL lookups for external identifiers and
// executes them against a query service.
package sparql

import (
	"fmt"
	"regexp"
	"strings"
)

var propertyPattern = regexp.MustCompile(`^P[1-9][0-9]*$`)

// ValidateProperty checks that property is a Wikidata property identifier such
// as "P650". Property identifiers are embedded as prefixed names and cannot be
// escaped, so anything else is rejected.
func ValidateProperty(property string) error {
	if !propertyPattern.MatchString(property) {
		return fmt.Errorf("%w: %q (expected e.g. P245, P650, P1871)", ErrInvalidProperty, property)
	}
	return nil
}

// BuildQuery renders the lookup query selecting every entity whose value for
// property is one of tokens. Tokens are written as escaped string literals.
func BuildQuery(property string, tokens []string) (string, error) {
	if err := ValidateProperty(property); err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", ErrNoTokens
	}

	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = QuoteLiteral(tok)
	}

	var b strings.Builder
	b.WriteString("SELECT ?" + VarItem + " ?" + VarValue + "\n")
	b.WriteString("WHERE {\n")
	fmt.Fprintf(&b, "  ?%s wdt:%s ?%s .\n", VarItem, property, VarValue)
	fmt.Fprintf(&b, "  VALUES ?%s { %s }\n", VarValue, strings.Join(values, " "))
	b.WriteString("}\n")
	return b.String(), nil
}

// literalEscaper implements the SPARQL ECHAR escapes for double-quoted literals.
var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// QuoteLiteral returns s as a double-quoted SPARQL string literal.
func QuoteLiteral(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}
