// Package mapping holds per-attachment title and alt overrides loaded from a
// CSV source. A non-empty table also acts as an allow-list: records without
// an entry are excluded from repair.
package mapping

// Entry is one override row. An empty Title or Alt means "no override for
// that field", not "override to empty".
type Entry struct {
	AttachmentID int64
	Title        string
	Alt          string
}

// Table is an immutable lookup from attachment id to override entry. The
// zero value and nil are both valid empty tables.
type Table struct {
	entries map[int64]Entry
}

// Load builds a table from parsed rows. The last row wins on duplicate ids;
// rows with non-positive ids are dropped.
func Load(rows []Entry) *Table {
	entries := make(map[int64]Entry, len(rows))
	for _, row := range rows {
		if row.AttachmentID <= 0 {
			continue
		}
		entries[row.AttachmentID] = row
	}
	return &Table{entries: entries}
}

// Get returns the entry for id, if any.
func (t *Table) Get(id int64) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	entry, ok := t.entries[id]
	return entry, ok
}

// Len reports the number of loaded entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
