package service

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

type Employee struct {
	ID       int
	Names    string
	Surname  string
	Phone    string
	Email    string
	Role     string
	Position string
}

type RegisterEntry struct {
	FullName   string
	Role       string
	Position   string
	ClockIn    string
	ClockOut   string
	TotalHours string
	Notes      string
}

// WriteEmployeeSheet writes the employee directory as an xlsx workbook.
func WriteEmployeeSheet(employees []Employee, w io.Writer) error {
	f := excelize.NewFile()
	sheet := "Employees"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Names", "Surname", "Phone Number", "Email", "Role", "Position"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, entry := range employees {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.Names)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.Surname)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), entry.Phone)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), entry.Email)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), entry.Role)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), entry.Position)
		rowNum++
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing employee sheet")
	}
	return nil
}

// WriteRegisterSheet writes the attendance register as an xlsx workbook.
func WriteRegisterSheet(entries []RegisterEntry, w io.Writer) error {
	f := excelize.NewFile()
	sheet := "Register"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Full Name", "Role", "Position", "Clock In", "Clock Out", "Total Hours", "Notes"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, entry := range entries {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.Role)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.Position)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), entry.ClockIn)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), entry.ClockOut)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), entry.TotalHours)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), entry.Notes)
		rowNum++
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing register sheet")
	}
	return nil
}
