package postgres

import (
	"strings"

	"github.com/lib/pq"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching query anywhere in a name.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func searchQuery(table string) string {
	return `SELECT id, name FROM ` + pq.QuoteIdentifier(table) +
		` WHERE name ILIKE $1 ESCAPE '\' ORDER BY id LIMIT $2`
}

func countQuery(table string) string {
	return `SELECT count(*) FROM ` + pq.QuoteIdentifier(table)
}

func pageQuery(table string) string {
	return `SELECT id, name FROM ` + pq.QuoteIdentifier(table) + ` ORDER BY id LIMIT $1 OFFSET $2`
}

func synonymCountQuery(table string) string {
	return `SELECT count(*) FROM ` + pq.QuoteIdentifier(table) + ` WHERE kind = $1`
}

func synonymPageQuery(table string) string {
	return `SELECT id, canonical, aliases FROM ` + pq.QuoteIdentifier(table) +
		` WHERE kind = $1 ORDER BY id LIMIT $2 OFFSET $3`
}
