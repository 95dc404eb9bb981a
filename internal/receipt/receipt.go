package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sawari/internal/models"

	"github.com/phpdave11/gofpdf"
)

// Writer renders booking receipts into a directory, one text file and
// one PDF per ticket. Receipts are an after-the-fact artifact; the
// booking itself never waits on them.
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteText renders the plain-text receipt and returns its path.
func (w *Writer) WriteText(event *models.TicketBookedEvent) (string, error) {
	var b strings.Builder
	line := strings.Repeat("=", 40)

	b.WriteString(line + "\n")
	b.WriteString("        BUS TICKET RECEIPT\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Ticket No : %s\n", event.TicketNo)
	fmt.Fprintf(&b, "Route     : %s\n", event.Route)
	fmt.Fprintf(&b, "Seat No   : %d\n", event.SeatNo)
	fmt.Fprintf(&b, "Price     : %d\n", event.PricePaid)
	if event.TravelDate != "" {
		fmt.Fprintf(&b, "Travel    : %s\n", event.TravelDate)
	}
	fmt.Fprintf(&b, "Booked At : %s\n", event.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString(line + "\n")
	b.WriteString("     Thank you for travelling with us\n")
	b.WriteString(line + "\n")

	path := filepath.Join(w.dir, event.TicketNo+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write text receipt: %w", err)
	}
	return path, nil
}

// WritePDF renders the PDF receipt and returns its path.
func (w *Writer) WritePDF(event *models.TicketBookedEvent) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Bus Ticket Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Ticket No", event.TicketNo},
		{"Route", event.Route},
		{"Seat No", fmt.Sprintf("%d", event.SeatNo)},
		{"Price", fmt.Sprintf("%d", event.PricePaid)},
		{"Booked At", event.Timestamp.Format("2006-01-02 15:04:05")},
	}
	if event.TravelDate != "" {
		rows = append(rows, [2]string{"Travel Date", event.TravelDate})
	}

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(45, 9, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(95, 9, row[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, "Thank you for travelling with us", "", 1, "C", false, 0, "")

	path := filepath.Join(w.dir, event.TicketNo+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF receipt: %w", err)
	}
	return path, nil
}
