package catalog

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// roomRow is one row of the room-creator table.
type roomRow struct {
	DesignStyle           string `parquet:"design_style"`
	Architects            string `parquet:"representative_architects"`
	Designers             string `parquet:"representative_interior_designers"`
	ArchitecturalElements string `parquet:"architectural_elements"`
	LivingRoom            string `parquet:"living_room"`
	DiningRoom            string `parquet:"dining_room"`
	Kitchen               string `parquet:"kitchen"`
	Bathroom              string `parquet:"bathroom"`
}

// colorRow is one row of the color-palette table.
type colorRow struct {
	DesignStyle  string `parquet:"design_style"`
	Category     string `parquet:"category"`
	Mood         string `parquet:"mood"`
	Undertone    string `parquet:"undertone"`
	DesignerNote string `parquet:"designer_note"`
	Light        string `parquet:"light"`
	Medium       string `parquet:"medium"`
	Dark         string `parquet:"dark"`
}

// CSV headers as they appear in the source spreadsheets.
const (
	colDesignStyle   = "Design Style"
	colArchitects    = "Representative Architects"
	colDesigners     = "Representative Interior Designers"
	colArchElements  = "Architectural elements for rooms"
	colLivingRoom    = "Living Room (2M+)"
	colDiningRoom    = "Dining Room (2M+)"
	colKitchen       = "Kitchen (2M+)"
	colBathroom      = "Bathroom (2M+)"
	colCategory      = "Category"
	colMood          = "Mood"
	colUndertone     = "Undertone"
	colDesignerNote  = "Designer Note"
	colPaletteLight  = "Light"
	colPaletteMedium = "Medium"
	colPaletteDark   = "Dark"
)

// Load builds a Catalog from the room-creator and color-palette tables in
// dataDir. Each table may be a .csv or .parquet file; the format is detected
// by extension.
func Load(dataDir string) (*Catalog, error) {
	roomPath, err := findTable(dataDir, "room_creator")
	if err != nil {
		return nil, err
	}
	colorPath, err := findTable(dataDir, "color_palettes")
	if err != nil {
		return nil, err
	}

	c := &Catalog{}
	if c.roomRows, err = loadRows(roomPath, parseRoomRecord); err != nil {
		return nil, fmt.Errorf("failed to load room table: %w", err)
	}
	if c.colorRows, err = loadRows(colorPath, parseColorRecord); err != nil {
		return nil, fmt.Errorf("failed to load color table: %w", err)
	}

	c.build()
	slog.Info("Catalog loaded",
		"styles", len(c.styles),
		"architects", len(c.architects),
		"designers", len(c.designers),
		"palette_rows", len(c.colorRows))
	return c, nil
}

// findTable locates name.csv or name.parquet under dir.
func findTable(dir, name string) (string, error) {
	for _, ext := range []string{".csv", ".parquet"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no %s.csv or %s.parquet found in %s", name, name, dir)
}

// loadRows loads a table, dispatching on file extension.
func loadRows[T any](path string, fromCSV func(header map[string]int, row []string) T) ([]T, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return parquet.ReadFile[T](path)
	case ".csv":
		return loadCSV(path, fromCSV)
	default:
		return nil, fmt.Errorf("unsupported table format: %s (supported: .csv, .parquet)", path)
	}
}

func loadCSV[T any](path string, parse func(header map[string]int, row []string) T) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}

	out := make([]T, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, parse(header, row))
	}
	return out, nil
}

func cell(header map[string]int, row []string, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRoomRecord(header map[string]int, row []string) roomRow {
	return roomRow{
		DesignStyle:           cell(header, row, colDesignStyle),
		Architects:            cell(header, row, colArchitects),
		Designers:             cell(header, row, colDesigners),
		ArchitecturalElements: cell(header, row, colArchElements),
		LivingRoom:            cell(header, row, colLivingRoom),
		DiningRoom:            cell(header, row, colDiningRoom),
		Kitchen:               cell(header, row, colKitchen),
		Bathroom:              cell(header, row, colBathroom),
	}
}

func parseColorRecord(header map[string]int, row []string) colorRow {
	return colorRow{
		DesignStyle:  cell(header, row, colDesignStyle),
		Category:     cell(header, row, colCategory),
		Mood:         cell(header, row, colMood),
		Undertone:    cell(header, row, colUndertone),
		DesignerNote: cell(header, row, colDesignerNote),
		Light:        cell(header, row, colPaletteLight),
		Medium:       cell(header, row, colPaletteMedium),
		Dark:         cell(header, row, colPaletteDark),
	}
}
