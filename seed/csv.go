package seed

import (
	"encoding/csv"
	"os"
	"strings"
)

// ReadCSVRows reads a headered CSV into trimmed header→value maps, skipping
// blank rows. A missing file yields no rows and no error so optional source
// sheets can simply be absent.
func ReadCSVRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	if len(headers) > 0 {
		// Strip a UTF-8 BOM exported by spreadsheet tools.
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(headers))
		empty := true
		for i, h := range headers {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			row[h] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
