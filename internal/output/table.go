package output

import (
	"io"

	"github.com/rodaine/table"

	"github.com/odyssey/cronctl/internal/tableprinter"
)

// newTable builds a writer-directed, ANSI-aware table.
func newTable(w io.Writer, headers ...interface{}) table.Table {
	return tableprinter.NewTableTo(w, headers...)
}
