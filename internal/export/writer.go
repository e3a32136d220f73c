// Package export writes cleaned customer events as the audience-upload CSV.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jcallahan/adscrub/internal/domain"
)

// Column names and order are consumed by the downstream ad platform and must
// not change. The gym variant adds zip after st.
var (
	restaurantColumns = []string{"order_id", "fn", "ln", "ct", "st", "email", "phone", "event_time", "value"}
	gymColumns        = []string{"order_id", "fn", "ln", "ct", "st", "zip", "email", "phone", "event_time", "value"}
)

const eventTimeLayout = "2006-01-02 15:04:05"

// Writer writes cleaned events into the export directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: filepath.Clean(dir)}
}

// Write streams events to a temp file and promotes it by rename, so a failed
// run never leaves a partial export behind. Returns the final path.
func (w *Writer) Write(events []domain.Event, variant domain.Variant, baseName string) (string, error) {
	if strings.TrimSpace(w.dir) == "" {
		return "", errors.New("export directory is not configured")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure export directory: %w", err)
	}

	columns := restaurantColumns
	if variant == domain.VariantGym {
		columns = gymColumns
	}

	tempFile, err := os.CreateTemp(w.dir, sanitizeFileComponent(baseName)+"-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp export file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	buffered := bufio.NewWriter(tempFile)
	csvWriter := csv.NewWriter(buffered)

	if err := csvWriter.Write(columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(columns))
	for _, ev := range events {
		for i, column := range columns {
			row[i] = formatField(ev, column)
		}
		if err := csvWriter.Write(row); err != nil {
			return "", fmt.Errorf("write event row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return "", fmt.Errorf("flush rows: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return "", fmt.Errorf("flush buffered rows: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return "", fmt.Errorf("sync export file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}

	finalPath := filepath.Join(w.dir, fmt.Sprintf("%s-%s.csv", sanitizeFileComponent(baseName), uuid.New().String()))
	if err := os.Rename(tempPath, finalPath); err != nil {
		return "", fmt.Errorf("promote export file: %w", err)
	}
	cleanup = false
	return finalPath, nil
}

func formatField(ev domain.Event, column string) string {
	switch column {
	case "order_id":
		return strconv.Itoa(ev.OrderID)
	case "fn":
		return ev.FirstName
	case "ln":
		return ev.LastName
	case "ct":
		return ev.City
	case "st":
		return ev.State
	case "zip":
		return ev.Zip
	case "email":
		return ev.Email
	case "phone":
		return ev.Phone
	case "event_time":
		if ev.EventTime.IsZero() {
			return ""
		}
		return ev.EventTime.Format(eventTimeLayout)
	case "value":
		return ev.Value.StringFixed(2)
	}
	return ""
}

func sanitizeFileComponent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		default:
			b.WriteRune('-')
		}
	}
	result := strings.Trim(b.String(), "-")
	if result == "" {
		return "cleaned-data"
	}
	return result
}
