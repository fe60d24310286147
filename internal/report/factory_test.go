package report

import "testing"

func TestNewGenerator(t *testing.T) {
	cases := []struct {
		format  Format
		wantErr bool
	}{
		{FormatCSV, false},
		{FormatXLSX, false},
		{FormatPDF, false},
		{Format("bogus"), true},
	}

	for _, tc := range cases {
		g, err := NewGenerator(tc.format)
		if (err != nil) != tc.wantErr {
			t.Errorf("NewGenerator(%v) error = %v, wantErr %v", tc.format, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && g.Format() != tc.format {
			t.Errorf("NewGenerator(%v).Format() = %v", tc.format, g.Format())
		}
	}
}

func TestContentType(t *testing.T) {
	cases := map[Format]string{
		FormatCSV:  "text/csv",
		FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		FormatPDF:  "application/pdf",
		Format("x"): "application/octet-stream",
	}
	for format, want := range cases {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%v) = %q, want %q", format, got, want)
		}
	}
}
