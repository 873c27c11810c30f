package fs

import (
	"bytes"

	"github.com/rodaine/table"
)

// Stats renders the disk's read/write counters as a small table: one
// row per counter plus a total row. Purely a CLI convenience.
func (d *Disk) Stats() string {
	tbl := table.New("op", "count")
	tbl.AddRow("reads", d.Reads())
	tbl.AddRow("writes", d.Writes())
	tbl.AddRow("total", d.Reads()+d.Writes())

	var buf bytes.Buffer
	tbl.WithWriter(&buf)
	tbl.Print()
	return buf.String()
}
