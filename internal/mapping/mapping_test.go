package mapping

import "testing"

func TestLoadLastRowWins(t *testing.T) {
	table := Load([]Entry{
		{AttachmentID: 7, Title: "First"},
		{AttachmentID: 7, Title: "Second", Alt: "Alt text"},
	})
	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	entry, ok := table.Get(7)
	if !ok {
		t.Fatal("expected entry for id 7")
	}
	if entry.Title != "Second" || entry.Alt != "Alt text" {
		t.Fatalf("entry = %+v, want last row", entry)
	}
}

func TestLoadDropsNonPositiveIDs(t *testing.T) {
	table := Load([]Entry{
		{AttachmentID: 0, Title: "Zero"},
		{AttachmentID: -4, Title: "Negative"},
		{AttachmentID: 2, Title: "Kept"},
	})
	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	if _, ok := table.Get(0); ok {
		t.Fatal("id 0 should be dropped")
	}
}

func TestNilTableIsEmpty(t *testing.T) {
	var table *Table
	if table.Len() != 0 {
		t.Fatalf("nil table Len() = %d", table.Len())
	}
	if _, ok := table.Get(1); ok {
		t.Fatal("nil table should hold no entries")
	}
}
