package service

import (
	"bytes"
	"fmt"
	"io"

	gofpdf "github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	badgesPerRow = 3
	badgeSize    = 50.0 // mm
	badgeGap     = 12.0 // mm
	pageMargin   = 15.0 // mm
)

// WriteBadgeSheet renders one QR badge per employee onto an A4 PDF, three
// per row. The QR payload identifies the employee to the kiosk.
func WriteBadgeSheet(employees []Employee, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()

	_, pageHeight := pdf.GetPageSize()

	x, y := pageMargin, pageMargin
	col := 0

	for _, entry := range employees {
		payload := fmt.Sprintf("maxelo:employee:%d:%s", entry.ID, entry.Email)

		png, err := qrcode.Encode(payload, qrcode.Medium, 256)
		if err != nil {
			return errors.Wrapf(err, "encoding qr for employee %d", entry.ID)
		}

		name := fmt.Sprintf("badge-%d", entry.ID)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		pdf.ImageOptions(name, x, y, badgeSize, badgeSize, false, opts, 0, "")

		pdf.SetXY(x, y+badgeSize)
		pdf.CellFormat(badgeSize, 5, fmt.Sprintf("%s %s", entry.Names, entry.Surname), "", 0, "C", false, 0, "")

		col++
		if col == badgesPerRow {
			col = 0
			x = pageMargin
			y += badgeSize + badgeGap
			if y+badgeSize+badgeGap > pageHeight-pageMargin {
				pdf.AddPage()
				y = pageMargin
			}
		} else {
			x += badgeSize + badgeGap
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "writing badge sheet")
	}
	return nil
}
