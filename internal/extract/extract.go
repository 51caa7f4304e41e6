// Package extract converts uploaded document bytes into raw linearized text.
// Each supported document type has its own adapter; callers pick the adapter
// by declared type and receive plain text suitable for normalization.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

const (
	TypeDOCX = "docx"
	TypeXLSX = "xlsx"
	TypePDF  = "pdf"
	TypeTXT  = "txt"
)

const (
	xlsxHeaderRows  = 3
	xlsxSampleRows  = 5
	xlsxScanRows    = 20
	xlsxFormulaScan = 50
	maxFormulas     = 5
)

// TypeFromFilename infers the document type from the file extension. The
// returned string is not guaranteed to have an adapter; Text reports
// unsupported types.
func TypeFromFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "unknown"
	}
	return ext[1:]
}

// Supported reports whether a text adapter exists for the document type.
func Supported(docType string) bool {
	switch strings.ToLower(strings.TrimSpace(docType)) {
	case TypeDOCX, TypeXLSX, TypePDF, TypeTXT, "text":
		return true
	}
	return false
}

// Text extracts linearized text from document bytes using the adapter for the
// declared type.
func Text(ctx context.Context, data []byte, docType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(docType)) {
	case TypeDOCX:
		return extractDOCX(data)
	case TypeXLSX:
		return extractXLSX(data)
	case TypePDF:
		return extractPDF(data)
	case TypeTXT, "text":
		return extractPlain(data)
	default:
		return "", fmt.Errorf("unsupported document type: %s", docType)
	}
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("plain text is not valid UTF-8")
	}
	return string(data), nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractDOCX linearizes the document body (paragraphs and table rows, cells
// joined with " | ") followed by header and footer paragraphs tagged with
// "HEADER:" / "FOOTER:".
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	var headerFiles, footerFiles []*zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		switch {
		case name == "word/document.xml":
			docFile = f
		case strings.HasPrefix(name, "word/header") && strings.HasSuffix(name, ".xml"):
			headerFiles = append(headerFiles, f)
		case strings.HasPrefix(name, "word/footer") && strings.HasSuffix(name, ".xml"):
			footerFiles = append(footerFiles, f)
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("document.xml file not found")
	}
	sortZipFiles(headerFiles)
	sortZipFiles(footerFiles)

	raw, err := readZipFile(docFile)
	if err != nil {
		return "", err
	}
	lines := linearizeBody(raw)

	for _, f := range headerFiles {
		raw, err := readZipFile(f)
		if err != nil {
			continue
		}
		for _, p := range linearizeBody(raw) {
			lines = append(lines, "HEADER: "+p)
		}
	}
	for _, f := range footerFiles {
		raw, err := readZipFile(f)
		if err != nil {
			continue
		}
		for _, p := range linearizeBody(raw) {
			lines = append(lines, "FOOTER: "+p)
		}
	}

	return strings.Join(lines, "\n"), nil
}

func sortZipFiles(files []*zip.File) {
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// linearizeBody walks WordprocessingML tokens and emits one line per
// paragraph outside tables and one line per table row, cells joined with
// " | ". Malformed XML yields whatever was collected up to the error.
func linearizeBody(raw []byte) []string {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var out []string
	var para strings.Builder
	var cell strings.Builder
	var row []string
	tableDepth := 0

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth > 0 {
					row = row[:0]
				}
			case "tc":
				if tableDepth > 0 {
					cell.Reset()
				}
			}
		case xml.CharData:
			if tableDepth > 0 {
				cell.Write(t)
			} else {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if tableDepth == 0 {
					if s := strings.TrimSpace(para.String()); s != "" {
						out = append(out, s)
					}
					para.Reset()
				}
			case "tc":
				if tableDepth > 0 {
					if s := strings.TrimSpace(cell.String()); s != "" {
						row = append(row, s)
					}
				}
			case "tr":
				if tableDepth > 0 && len(row) > 0 {
					out = append(out, strings.Join(row, " | "))
					row = nil
				}
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			}
		}
	}
	return out
}

// extractXLSX linearizes each sheet: a SHEET tag, the first header rows, a
// bounded sample of data rows, detected formulas and data-validation rules.
func extractXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		lines = append(lines, "SHEET: "+sheet)

		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		var headers []string
		for i := 0; i < len(rows) && i < xlsxHeaderRows; i++ {
			if joined := joinCells(rows[i]); joined != "" {
				headers = append(headers, joined)
			}
		}
		if len(headers) > 0 {
			lines = append(lines, "HEADERS:")
			lines = append(lines, headers...)
		}

		var sample []string
		for i := xlsxHeaderRows; i < len(rows) && i < xlsxScanRows; i++ {
			if joined := joinCells(rows[i]); joined != "" {
				sample = append(sample, joined)
			}
			if len(sample) >= xlsxSampleRows {
				break
			}
		}
		if len(sample) > 0 {
			lines = append(lines, "DATA SAMPLE:")
			lines = append(lines, sample...)
		}

		lines = append(lines, sheetFormulas(f, sheet, rows)...)

		validations, err := f.GetDataValidations(sheet)
		if err == nil {
			for _, dv := range validations {
				if dv == nil || dv.Formula1 == "" {
					continue
				}
				lines = append(lines, fmt.Sprintf("VALIDATION in %s: %s", dv.Sqref, dv.Formula1))
			}
		}
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	return strings.Join(lines, "\n"), nil
}

func sheetFormulas(f *excelize.File, sheet string, rows [][]string) []string {
	var formulas []string
	for r := 0; r < len(rows) && r < xlsxFormulaScan; r++ {
		for c := range rows[r] {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			formula, err := f.GetCellFormula(sheet, axis)
			if err != nil || formula == "" {
				continue
			}
			formulas = append(formulas, fmt.Sprintf("FORMULA in %s: %s", axis, formula))
			if len(formulas) >= maxFormulas {
				break
			}
		}
		if len(formulas) >= maxFormulas {
			break
		}
	}
	if len(formulas) == 0 {
		return nil
	}
	return append([]string{"FORMULAS:"}, formulas...)
}

func joinCells(cells []string) string {
	var parts []string
	for _, c := range cells {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " | ")
}
