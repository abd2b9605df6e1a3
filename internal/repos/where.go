package repos

import (
	"fmt"
	"strings"

	"handcraftedhaven/internal/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// compileWhere renders a listing predicate as a SQL boolean expression over
// the alias "l" with '?' placeholders. Count and page queries both go through
// here so they can never disagree on the filtered set.
func compileWhere(p query.Predicate) (string, []any) {
	switch v := p.(type) {
	case nil, query.All:
		return "1=1", nil
	case query.TextContains:
		pat := "%" + likeEscaper.Replace(query.Fold(v.Needle)) + "%"
		return `(l.title_fold LIKE ? ESCAPE '\' OR l.description_fold LIKE ? ESCAPE '\')`, []any{pat, pat}
	case query.CategoryIn:
		if len(v.Categories) == 0 {
			return "1=0", nil
		}
		args := make([]any, len(v.Categories))
		for i, c := range v.Categories {
			args[i] = string(c)
		}
		return "l.category IN (?" + strings.Repeat(",?", len(args)-1) + ")", args
	case query.And:
		if len(v.Terms) == 0 {
			return "1=1", nil
		}
		parts := make([]string, 0, len(v.Terms))
		var args []any
		for _, t := range v.Terms {
			sql, a := compileWhere(t)
			parts = append(parts, sql)
			args = append(args, a...)
		}
		return "(" + strings.Join(parts, " AND ") + ")", args
	default:
		panic(fmt.Sprintf("repos: unknown predicate node %T", p))
	}
}
