package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bc144/sf-agent/models"
)

// parseStats counts what happened to the rows of one CSV.
type parseStats struct {
	Rows    int
	Skipped int
}

// parseCatalog reads CSV rows into products and the documents that get
// embedded for them. Rows without a product_id or title are skipped and
// counted. Header names pass through the manifest's column renames.
func parseCatalog(r io.Reader, m Manifest) ([]models.Product, []string, parseStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, parseStats{}, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if renamed, ok := m.Columns[name]; ok {
			name = renamed
		}
		cols[name] = i
	}

	var (
		products []models.Product
		docs     []string
		stats    parseStats
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, stats, fmt.Errorf("read csv row %d: %w", stats.Rows+2, err)
		}
		stats.Rows++

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		id := field("product_id")
		title := field("title")
		if id == "" || title == "" {
			stats.Skipped++
			continue
		}

		p := models.Product{
			ProductID: id,
			Title:     title,
			Price:     parsePrice(field("price")),
			Colors:    parseList(field("colors")),
			Sizes:     parseList(field("sizes")),
			InStock:   parseInStock(field("in_stock"), m.Defaults.InStock),
		}
		if v := field("brand"); v != "" {
			p.Brand = &v
		}
		if v := field("category"); v != "" {
			p.Category = &v
		}
		if v := field("image_url"); v != "" {
			p.ImageURL = &v
		}
		if v := field("description"); v != "" {
			p.Description = &v
		}

		products = append(products, p)
		docs = append(docs, buildDocument(p))
	}

	return products, docs, stats, nil
}

// parsePrice accepts a bare float; anything else becomes 0 so a bad
// cell never sinks the whole file.
func parsePrice(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseList splits a semicolon separated cell, trimming entries and
// dropping empties.
func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseInStock reads a lenient boolean. An empty cell takes the
// manifest default, or true when no default is configured.
func parseInStock(raw string, def *bool) bool {
	if raw == "" {
		if def != nil {
			return *def
		}
		return true
	}
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

// buildDocument renders the text that represents a product in vector
// space. Color and size lists are always present so the model can tell
// "no colors listed" apart from a missing attribute.
func buildDocument(p models.Product) string {
	parts := make([]string, 0, 6)
	parts = append(parts, p.Title)
	if p.Brand != nil && *p.Brand != "" {
		parts = append(parts, *p.Brand)
	}
	if p.Category != nil && *p.Category != "" {
		parts = append(parts, *p.Category)
	}
	if p.Description != nil && *p.Description != "" {
		parts = append(parts, *p.Description)
	}
	parts = append(parts, "Colors: "+listOrNone(p.Colors))
	parts = append(parts, "Sizes: "+listOrNone(p.Sizes))
	return strings.Join(parts, ". ")
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
