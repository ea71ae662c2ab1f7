package helpers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	brandName      = "Swaad Station"
	couponHeading  = "10% OFF COUPON"
	couponSubtitle = "Present this QR code at checkout"
	qrDrawSize     = 200.0
)

// RenderCouponPDF lays out the single-page printable coupon: dashed border,
// branding, heading, the QR image centered, the coupon ID and formatted
// expiry below it, and the terms footer. Pure function of its inputs.
func RenderCouponPDF(couponID string, qrImage []byte, expiryDate time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	// Pin document metadata to the coupon expiry so identical inputs yield
	// identical bytes.
	pdf.SetCreationDate(expiryDate)
	pdf.SetModificationDate(expiryDate)
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	// Decorative dashed border
	pdf.SetDrawColor(204, 102, 0)
	pdf.SetDashPattern([]float64{6, 3}, 0)
	pdf.Rect(50, 50, width-100, height-100, "D")
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetTextColor(153, 77, 0)
	drawCentered(pdf, width, 100, 36, brandName)

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 0, 0)
	drawCentered(pdf, width, 150, 24, couponHeading)

	pdf.SetFont("Helvetica", "", 14)
	drawCentered(pdf, width, 180, 14, couponSubtitle)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("coupon-qr", opts, bytes.NewReader(qrImage))
	pdf.ImageOptions("coupon-qr", width/2-qrDrawSize/2, height/2-qrDrawSize/2, qrDrawSize, qrDrawSize, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	drawCentered(pdf, width, height/2+qrDrawSize/2+46, 12, fmt.Sprintf("Coupon ID: %s", couponID))
	drawCentered(pdf, width, height/2+qrDrawSize/2+66, 12, fmt.Sprintf("Valid until: %s", expiryDate.Format("2006-01-02 15:04:05")))

	pdf.SetFont("Helvetica", "", 10)
	drawCentered(pdf, width, height-100, 10, "Terms & Conditions:")
	drawCentered(pdf, width, height-80, 10, "One-time use only. Cannot be combined with other offers.")
	drawCentered(pdf, width, height-60, 10, "Valid only at Swaad Station")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawCentered places text horizontally centered with its baseline at y.
func drawCentered(pdf *fpdf.Fpdf, pageWidth, y, fontSize float64, text string) {
	pdf.SetXY(0, y-fontSize)
	pdf.CellFormat(pageWidth, fontSize, text, "", 0, "C", false, 0, "")
}
