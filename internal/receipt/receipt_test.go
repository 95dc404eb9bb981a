package receipt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sawari/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() *models.TicketBookedEvent {
	return &models.TicketBookedEvent{
		TicketID:   11,
		TicketNo:   "TABCDEF1234",
		UserID:     7,
		BusID:      3,
		Route:      "Delhi → Jaipur",
		SeatNo:     12,
		PricePaid:  350,
		TravelDate: "2026-09-15",
		Timestamp:  time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestWriteText(t *testing.T) {
	writer, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	path, err := writer.WriteText(sampleEvent())
	require.NoError(t, err)
	assert.Equal(t, "TABCDEF1234.txt", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "TABCDEF1234")
	assert.Contains(t, string(content), "Delhi → Jaipur")
	assert.Contains(t, string(content), "Seat No   : 12")
	assert.Contains(t, string(content), "2026-09-15")
}

func TestWritePDF(t *testing.T) {
	writer, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	path, err := writer.WritePDF(sampleEvent())
	require.NoError(t, err)
	assert.Equal(t, "TABCDEF1234.pdf", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	header := make([]byte, 5)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(header))
}

func TestWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "receipts")
	_, err := NewWriter(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
