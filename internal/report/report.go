// Package report renders attendance registers as PDF and XLSX documents.
package report

import (
	"time"
)

// Title heads every exported register.
const Title = "Register Results"

// EmptyMessage replaces the table when nobody attended.
const EmptyMessage = "No students attended."

const timeLayout = "2006-01-02 15:04:05"

// Register is the content of an exported register.
type Register struct {
	ModuleName   string
	LecturerName string
	RecordedAt   time.Time
	// TimeText is printed as the date/time when set, e.g. a time typed on a form.
	TimeText string
	Rows     []Row
}

// Row is one attending student.
type Row struct {
	StudentNumber string
	Name          string
}

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// ParseFormat accepts "pdf", "xlsx" and the empty string (pdf).
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatPDF:
		return FormatPDF, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

// FileName returns the download name for a register.
func FileName(r Register, f Format) string {
	return "register_" + r.RecordedAt.Format("20060102_150405") + "." + string(f)
}

func header(r Register) [][2]string {
	return [][2]string{
		{"Module", r.ModuleName},
		{"Lecturer", r.LecturerName},
		{"Date/Time", displayTime(r)},
	}
}

func displayTime(r Register) string {
	if r.TimeText != "" {
		return r.TimeText
	}
	return r.RecordedAt.Format(timeLayout)
}
