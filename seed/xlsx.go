package seed

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"strings"
)

// The source workbook is simple enough (one sheet, strings and numbers) that
// it is read directly from the xlsx container instead of pulling in a
// spreadsheet dependency.

type xlsxSharedStrings struct {
	Items []xlsxSI `xml:"si"`
}

type xlsxSI struct {
	T    string `xml:"t"`
	Runs []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (si xlsxSI) text() string {
	if len(si.Runs) == 0 {
		return si.T
	}
	var b strings.Builder
	for _, r := range si.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

type xlsxWorksheet struct {
	SheetData struct {
		Rows []xlsxRow `xml:"row"`
	} `xml:"sheetData"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Ref string `xml:"r,attr"`
	T   string `xml:"t,attr"`
	V   string `xml:"v"`
	Is  struct {
		T string `xml:"t"`
	} `xml:"is"`
}

// columnIndex converts a cell reference like "C7" to a 1-based column index.
func columnIndex(ref string) int {
	idx := 0
	for _, r := range ref {
		if r >= 'A' && r <= 'Z' {
			idx = idx*26 + int(r-'A') + 1
		} else if r >= 'a' && r <= 'z' {
			idx = idx*26 + int(r-'a') + 1
		}
	}
	return idx
}

// LoadXLSXRows reads sheet1 of an xlsx workbook into dense string rows.
// A missing file yields no rows and no error, matching CSV behavior.
func LoadXLSXRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var shared []string
	if f := findZipFile(&zr.Reader, "xl/sharedStrings.xml"); f != nil {
		var sst xlsxSharedStrings
		if err := decodeZipXML(f, &sst); err != nil {
			return nil, err
		}
		shared = make([]string, len(sst.Items))
		for i, si := range sst.Items {
			shared[i] = si.text()
		}
	}

	f := findZipFile(&zr.Reader, "xl/worksheets/sheet1.xml")
	if f == nil {
		return nil, nil
	}
	var ws xlsxWorksheet
	if err := decodeZipXML(f, &ws); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(ws.SheetData.Rows))
	for _, row := range ws.SheetData.Rows {
		cells := map[int]string{}
		maxIdx := 0
		for _, cell := range row.Cells {
			col := columnIndex(cell.Ref)
			if col == 0 {
				continue
			}
			raw := ""
			switch cell.T {
			case "s":
				if n := ParseInt(cell.V, -1); n >= 0 && n < len(shared) {
					raw = shared[n]
				}
			case "inlineStr":
				raw = cell.Is.T
			default:
				raw = cell.V
			}
			cells[col] = raw
			if col > maxIdx {
				maxIdx = col
			}
		}
		ordered := make([]string, maxIdx)
		for i := 1; i <= maxIdx; i++ {
			ordered[i-1] = cells[i]
		}
		rows = append(rows, ordered)
	}
	return rows, nil
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func decodeZipXML(f *zip.File, v interface{}) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}
