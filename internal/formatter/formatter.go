// package formatter exports and imports favorites and queue lists (M3U, CSV, plain text, JSON)
package formatter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatM3U  Format = "m3u"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formats lists every supported [Format].
var Formats = []Format{FormatM3U, FormatCSV, FormatText, FormatJSON}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// ExportToM3U renders tracks as an extended M3U playlist titled name.
func ExportToM3U(name string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	if name != "" {
		fmt.Fprintf(&buf, "#PLAYLIST:%s\n", name)
	}
	for _, track := range tracks {
		fmt.Fprintf(&buf, "#EXTINF:-1,%s\n%s\n", track.Name(), track)
	}

	return buf.Bytes(), nil
}

// ParseM3U reads track references from an M3U playlist, skipping directives and blank lines.
func ParseM3U(r io.Reader) ([]models.Track, error) {
	tracks := []models.Track{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tracks = append(tracks, models.Track(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}

	return tracks, nil
}

// ExportToCSV converts tracks to CSV format with columns: Position, Name, Source
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "Name", "Source"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range tracks {
		record := []string{strconv.Itoa(i + 1), track.Name(), track.String()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to a numbered plain text listing
func ExportToText(name string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s: %d tracks\n\n", name, len(tracks))
	for i, track := range tracks {
		fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, track.Name(), track)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the whole session state using its storage keys.
func ExportToJSON(state models.State) ([]byte, error) {
	data, err := json.MarshalIndent(state.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return append(data, '\n'), nil
}

// Export encodes one list (or the whole state, for [FormatJSON]) in format f.
func Export(f Format, name string, state models.State, tracks []models.Track) ([]byte, error) {
	switch f {
	case FormatM3U:
		return ExportToM3U(name, tracks)
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatText:
		return ExportToText(name, tracks)
	case FormatJSON:
		return ExportToJSON(state)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// WriteExport writes data to path, or to w when path is empty or "-".
func WriteExport(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
