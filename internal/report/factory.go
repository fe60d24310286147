package report

import "fmt"

// NewGenerator returns the Generator for format, or an error for an
// unrecognized one.
func NewGenerator(format Format) (Generator, error) {
	switch format {
	case FormatCSV:
		return NewCSVGenerator(), nil
	case FormatXLSX:
		return NewExcelGenerator(), nil
	case FormatPDF:
		return NewPDFGenerator(), nil
	default:
		return nil, fmt.Errorf("report: unsupported format %q", format)
	}
}

// ContentType returns the HTTP Content-Type for format.
func ContentType(format Format) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
