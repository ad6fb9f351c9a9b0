package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMissingIDColumn is returned when the header row lacks attachment_id.
var ErrMissingIDColumn = errors.New("mapping: header has no attachment_id column")

// LoadCSV reads an override file. The header row must name an attachment_id
// column; proposed_title and proposed_alt are optional. Column matching is
// case-insensitive and order-independent. Rows with malformed ids are
// dropped, matching the loose-row policy of Load.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("mapping: file is empty")
		}
		return nil, fmt.Errorf("read mapping header: %w", err)
	}

	idCol, titleCol, altCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "attachment_id":
			idCol = i
		case "proposed_title":
			titleCol = i
		case "proposed_alt":
			altCol = i
		}
	}
	if idCol < 0 {
		return nil, ErrMissingIDColumn
	}

	var rows []Entry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read mapping row: %w", err)
		}
		if idCol >= len(record) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(record[idCol]), 10, 64)
		if err != nil {
			continue
		}
		entry := Entry{AttachmentID: id}
		if titleCol >= 0 && titleCol < len(record) {
			entry.Title = strings.TrimSpace(record[titleCol])
		}
		if altCol >= 0 && altCol < len(record) {
			entry.Alt = strings.TrimSpace(record[altCol])
		}
		rows = append(rows, entry)
	}

	return Load(rows), nil
}
