package compiler

import (
	"fmt"
	"strings"

	"github.com/rit3sh-x/fireview/core/constants"
)

// buildSnapshotQuery emits the latest-snapshot SELECT: one row per document
// that is currently live. The most recent write per document wins, ordered by
// changelog timestamp and tie-broken by the monotonic sequence number, and a
// document whose winning operation is a delete is excluded entirely.
func (c *Compiler) buildSnapshotQuery() string {
	d := c.dialect
	ts := d.QuoteIdent(constants.COL_TIMESTAMP)

	innerColumns := []string{
		constants.COL_DOCUMENT_NAME,
		constants.COL_DOCUMENT_ID,
		ts,
		constants.COL_SEQUENCE,
		constants.COL_OPERATION,
		constants.COL_DATA,
	}

	rank := fmt.Sprintf(
		"ROW_NUMBER() OVER (PARTITION BY %s ORDER BY %s DESC, %s DESC) AS write_rank",
		constants.COL_DOCUMENT_NAME, ts, constants.COL_SEQUENCE)

	var b strings.Builder
	b.WriteString("SELECT\n")
	b.WriteString("  " + strings.Join(innerColumns, ",\n  "))
	b.WriteString("\nFROM (\n")
	b.WriteString("  SELECT\n")
	b.WriteString("    " + strings.Join(innerColumns, ",\n    ") + ",\n")
	b.WriteString("    " + rank + "\n")
	b.WriteString("  FROM " + d.TableRef(c.changelogTable) + "\n")
	b.WriteString(") numbered\n")
	b.WriteString(fmt.Sprintf("WHERE write_rank = 1 AND %s != '%s'",
		constants.COL_OPERATION, constants.OP_DELETE))

	return b.String()
}
