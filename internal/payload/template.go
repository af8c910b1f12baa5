package payload

import (
	"strings"

	"github.com/temoto/wifinfo/frame"
)

var placeholderNames = []string{
	"HCHP", "HCHC", "PAPP", "ADCO", "OPTARIF", "ISOUC",
	"PTEC", "IINST", "IMAX", "HHPHC", "MOTDETAT", "BASE",
}

// Placeholders maps substitutable field name to its template token.
var Placeholders = func() map[string]string {
	m := make(map[string]string, len(placeholderNames))
	for _, n := range placeholderNames {
		m[n] = "%" + n + "%"
	}
	return m
}()

// PlaceholderNames in table order.
func PlaceholderNames() []string {
	return append([]string(nil), placeholderNames...)
}

// Substitute replaces %NAME% tokens in template with raw field values.
// No categorical encoding here: template consumers expect meter codes.
// Underscore fields are virtual and never substituted.
// Tokens without matching field stay in output.
func Substitute(template string, snap frame.Snapshot) string {
	out := template
	snap.Each(func(_ int, f frame.Field) {
		if strings.HasPrefix(f.Name, "_") {
			return
		}
		token, ok := Placeholders[f.Name]
		if !ok {
			return
		}
		out = strings.ReplaceAll(out, token, f.Value)
	})
	return out
}
