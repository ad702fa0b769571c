package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and inserts or updates products. The
// header row names the columns; unknown columns are ignored:
//
//	id,productName,slug,price,category,description,color,status,inventory,imageUrl,tags
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row. Blank rows are skipped.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return 0, errors.New("read headers: missing id column")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if p == nil {
			continue
		}
		if err := save(ctx, i.productRepo, *p); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// JSONImporter loads a JSON array of products in the API's own shape.
type JSONImporter struct {
	decoder     *json.Decoder
	productRepo ProductWriter
}

func NewJSONImporter(r io.Reader, repo ProductWriter) *JSONImporter {
	return &JSONImporter{decoder: json.NewDecoder(r), productRepo: repo}
}

func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	var products []domain.Product
	if err := i.decoder.Decode(&products); err != nil {
		return 0, fmt.Errorf("decode products: %w", err)
	}
	for n, p := range products {
		if p.Slug == "" {
			p.Slug = Slugify(p.Name)
		}
		if err := save(ctx, i.productRepo, p); err != nil {
			return n, err
		}
	}
	return len(products), nil
}

func save(ctx context.Context, repo ProductWriter, p domain.Product) error {
	if p.ID == "" || p.Name == "" || p.Slug == "" {
		return fmt.Errorf("invalid product %q (missing required fields)", p.ID)
	}
	if p.Price.IsNegative() || p.Inventory < 0 {
		return fmt.Errorf("invalid product %q (negative price or inventory)", p.ID)
	}
	if _, err := repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.ID, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "productName")
	if id == "" && name == "" {
		return nil, nil
	}

	p := &domain.Product{
		ID:          id,
		Name:        name,
		Slug:        pick(record, index, "slug"),
		Category:    pick(record, index, "category"),
		Description: pick(record, index, "description"),
		Color:       pick(record, index, "color"),
		Status:      pick(record, index, "status"),
		ImageURL:    pick(record, index, "imageUrl"),
		Tags:        splitTags(pick(record, index, "tags")),
	}
	if p.Slug == "" {
		p.Slug = Slugify(name)
	}

	if raw := pick(record, index, "price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for %q", raw, id)
		}
		p.Price = price
	}
	if raw := pick(record, index, "inventory"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid inventory %q for %q", raw, id)
		}
		p.Inventory = n
	}
	return p, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '|' }) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
