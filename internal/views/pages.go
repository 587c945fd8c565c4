package views

import (
	"jobfair/internal/models"
	"jobfair/internal/qrcode"
)

type QRPage struct {
	Title    string
	FormURL  string
	ImageURL string
	Size     int
}

func NewQRPage(locator qrcode.Locator, size int) QRPage {
	if size <= 0 {
		size = qrcode.DefaultSize
	}
	return QRPage{
		Title:    "QRコード / QR Code",
		FormURL:  locator.FormURL(),
		ImageURL: locator.FormQRCodeURL(size),
		Size:     size,
	}
}

// AdminPage encodes the origin the panel was requested from, which may
// differ from the configured form URL.
type AdminPage struct {
	Title        string
	Origin       string
	FormURL      string
	ImageURL     string
	Size         int
	Outcomes     []*models.DispatchOutcome
	StatusCounts map[string]int64
	FeedPath     string
}

const AdminQRSize = 300

func NewAdminPage(locator qrcode.Locator, origin string, outcomes []*models.DispatchOutcome, counts map[string]int64) AdminPage {
	return AdminPage{
		Title:        "管理者パネル / Admin Panel",
		Origin:       origin,
		FormURL:      locator.FormURL(),
		ImageURL:     locator.GenerateQRCodeURL(origin, AdminQRSize),
		Size:         AdminQRSize,
		Outcomes:     outcomes,
		StatusCounts: counts,
		FeedPath:     "/ws/admin",
	}
}
