package postgres

import (
	"fmt"
	"strings"
)

// filter accumulates AND-ed WHERE clauses written with "?" placeholders and
// renders them with numbered postgres parameters.
type filter struct {
	clauses []string
	args    []any
}

func (f *filter) add(clause string, args ...any) {
	f.clauses = append(f.clauses, clause)
	f.args = append(f.args, args...)
}

// sql renders " WHERE ..." numbering parameters after offset, or "" when empty.
func (f *filter) sql(offset int) string {
	if len(f.clauses) == 0 {
		return ""
	}
	joined := strings.Join(f.clauses, " AND ")

	var b strings.Builder
	b.WriteString(" WHERE ")
	n := offset
	for _, r := range joined {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
