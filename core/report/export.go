package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/luct/core"
)

// Formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

const (
	exportBaseName = "luct-reports"
	sheetName      = "Lecture Reports"
	headerFill     = "#E6E6FA"
	topicColumn    = 9
)

var (
	// Columns are the exported columns, in order.
	Columns      = []string{"Week", "Date", "Faculty", "Class", "Course Code", "Course Name", "Lecturer", "Students Present", "Total Students", "Topic", "Status"}
	columnWidths = []float64{10, 15, 20, 15, 15, 25, 20, 15, 15, 30, 12}

	errUnknownFormat = errors.New("format must be one of xlsx, csv, pdf")
)

// Exporter renders a report collection in one of the export formats.
type Exporter struct {
	Format string
	Title  string // pdf only
}

func NewExporter(format, title string) (*Exporter, error) {
	format = core.CleanString(format, true /* lower */)
	switch format {
	case "":
		format = FormatXLSX
	case FormatXLSX, FormatCSV, FormatPDF:
	default:
		return nil, core.NewValidationError(errUnknownFormat, core.FieldError{Field: "format", Error: errUnknownFormat.Error()})
	}
	return &Exporter{Format: format, Title: title}, nil
}

func (e *Exporter) ContentType() string {
	switch e.Format {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

func (e *Exporter) Filename() string {
	return exportBaseName + "." + e.Format
}

func (e *Exporter) Write(w io.Writer, views []View) error {
	switch e.Format {
	case FormatCSV:
		return WriteCSV(w, views)
	case FormatPDF:
		return WritePDF(w, views, e.Title)
	default:
		return WriteXLSX(w, views)
	}
}

// Row projects a report view onto Columns.
func Row(v View) []string {
	return []string{
		"Week " + strconv.Itoa(v.WeekOfReporting),
		v.DateOfLecture,
		v.FacultyName,
		v.ClassName,
		v.CourseCode,
		v.CourseName,
		v.LecturerName,
		strconv.Itoa(v.ActualStudentsPresent),
		strconv.Itoa(v.TotalRegisteredStudents),
		v.TopicTaught,
		v.Status,
	}
}

func Rows(views []View) [][]string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, Row(v))
	}
	return rows
}

// WriteCSV writes a header line and one line per report.
// The topic is always quoted; other fields only when they hold a comma, quote or line break.
func WriteCSV(w io.Writer, views []View) error {
	bw := bufio.NewWriter(w)
	writeLine := func(fields []string, alwaysQuote int) error {
		for i, field := range fields {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if i == alwaysQuote || strings.ContainsAny(field, ",\"\r\n") {
				field = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
			}
			if _, err := bw.WriteString(field); err != nil {
				return err
			}
		}
		return bw.WriteByte('\n')
	}

	if err := writeLine(Columns, -1); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range Rows(views) {
		if err := writeLine(row, topicColumn); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	return errors.Wrap(bw.Flush(), "flushing csv")
}

// WriteXLSX writes a single "Lecture Reports" sheet with a bold, shaded header row.
func WriteXLSX(w io.Writer, views []View) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.Wrap(err, "naming column")
		}
		if err = f.SetColWidth(sheetName, col, col, width); err != nil {
			return errors.Wrap(err, "setting column width")
		}
	}

	header := make([]interface{}, 0, len(Columns))
	for _, c := range Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	if err = f.SetCellStyle(sheetName, "A1", lastCol+"1", style); err != nil {
		return errors.Wrap(err, "styling header")
	}

	for i, v := range views {
		row := Row(v)
		cells := make([]interface{}, 0, len(row))
		for j, val := range row {
			switch j {
			case 7:
				cells = append(cells, v.ActualStudentsPresent)
			case 8:
				cells = append(cells, v.TotalRegisteredStudents)
			default:
				cells = append(cells, val)
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "naming cell")
		}
		if err = f.SetSheetRow(sheetName, axis, &cells); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}

	return errors.Wrap(f.Write(w), "writing workbook")
}

// WritePDF writes a landscape A4 table of the reports.
func WritePDF(w io.Writer, views []View, title string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	var total float64
	for _, cw := range columnWidths {
		total += cw
	}
	scale := (pageW - left - right) / total
	widths := make([]float64, len(columnWidths))
	for i, cw := range columnWidths {
		widths[i] = cw * scale
	}

	fit := func(s string, width float64) string {
		s = tr(s)
		for len(s) > 0 && pdf.GetStringWidth(s) > width-2 {
			s = s[:len(s)-1]
		}
		return s
	}

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 230, 250)
		for i, c := range Columns {
			pdf.CellFormat(widths[i], 7, fit(c, widths[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d report(s)", len(views)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for _, row := range Rows(views) {
		for i, val := range row {
			align := "L"
			if i == 7 || i == 8 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, fit(val, widths[i]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return errors.Wrap(pdf.Output(w), "writing pdf")
}
