package compiler

import (
	"strings"

	"github.com/rit3sh-x/fireview/core/constants"
)

// unnestStep is one array decomposition on the way from the snapshot view's
// raw document to a child schema's element. Nested arrays chain steps; each
// step's source is the element alias bound by the step before it.
type unnestStep struct {
	Source       string
	Path         []string
	ElementAlias string
	OrdinalAlias string
}

// buildTypedQuery emits the typed SELECT for one view level: document path
// and write timestamp, one ordinal per unnest step, then every flattened
// column in declared order.
func (c *Compiler) buildTypedQuery(fromRef string, steps []unnestStep, columns []Column) string {
	d := c.dialect

	selects := []string{
		constants.COL_DOCUMENT_NAME,
		constants.COL_DOCUMENT_ID,
		d.QuoteIdent(constants.COL_TIMESTAMP),
	}
	for _, step := range steps {
		selects = append(selects, step.OrdinalAlias)
	}
	for _, col := range columns {
		selects = append(selects, col.Expr+" AS "+d.ColumnAlias(col.QualifiedName))
	}

	var b strings.Builder
	b.WriteString("SELECT\n")
	b.WriteString("  " + strings.Join(selects, ",\n  "))
	b.WriteString("\nFROM " + fromRef)
	for _, step := range steps {
		b.WriteString("\n" + d.UnnestArray(step.Source, step.Path, step.ElementAlias, step.OrdinalAlias))
	}

	return b.String()
}
