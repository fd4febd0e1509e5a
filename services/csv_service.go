package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ryanlai666/Meat-Cut/models"
	"github.com/ryanlai666/Meat-Cut/utils"
)

// CsvStore is the slice of the cuts repository the CSV codec needs.
type CsvStore interface {
	List(offset, limit int) ([]models.Cut, error)
	Create(cut *models.Cut) error
	GetByID(id uint) (*models.Cut, error)
	SlugExists(slug string, excludeID uint) (bool, error)
	ReplaceMethods(cut *models.Cut, names []string) error
	ReplaceDishes(cut *models.Cut, names []string) error
	TouchSyncMetadata(key string) error
}

type CsvService struct {
	cuts CsvStore
}

func NewCsvService(cuts CsvStore) *CsvService {
	return &CsvService{cuts: cuts}
}

// csvHeader is the fixed, documented column order of an export.
var csvHeader = []string{
	"ID",
	"Name",
	"Chinese Name",
	"Part",
	"Lean",
	"Price Min",
	"Price Max",
	"Price Mean",
	"Price Range",
	"Notes",
	"Image Key",
	"S3 Key",
	"Image URL",
	"Slug",
	"Cooking Methods",
	"Recommended Dishes",
}

// csvAliases maps each logical import field to its accepted header
// spellings, tried in order. Covers the exported human-readable form
// and the snake_case form older sheets used.
var csvAliases = map[string][]string{
	"name":      {"Name", "name"},
	"name_zh":   {"Chinese Name", "name_zh", "chinese_name"},
	"part":      {"Part", "part"},
	"lean":      {"Lean", "lean"},
	"price":     {"Price Range", "price_range", "Price Display", "price_display"},
	"notes":     {"Notes", "notes"},
	"image_key": {"Image Key", "image_key"},
	"s3_key":    {"S3 Key", "s3_key"},
	"image_url": {"Image URL", "image_url"},
	"methods":   {"Cooking Methods", "cooking_methods"},
	"dishes":    {"Recommended Dishes", "recommended_dishes", "dishes"},
}

// RowError is one rejected import row with its 1-based position in the
// source file (header excluded) and the reason.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportSummary is the outcome of one import run. A malformed row never
// aborts the rows after it.
type ImportSummary struct {
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors"`
}

// Export writes the whole catalog as CSV, one row per cut, header
// always present. encoding/csv applies RFC-4180 quoting.
func (s *CsvService) Export(w io.Writer) error {
	cuts, err := s.cuts.List(0, 0)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range cuts {
		if err := cw.Write(exportRow(&cuts[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return s.cuts.TouchSyncMetadata(models.SyncKeyCsvExport)
}

func exportRow(cut *models.Cut) []string {
	methods := make([]string, len(cut.CookingMethods))
	for i, m := range cut.CookingMethods {
		methods[i] = m.Name
	}
	dishes := make([]string, len(cut.Dishes))
	for i, d := range cut.Dishes {
		dishes[i] = d.Name
	}

	lean := "No"
	if cut.Lean {
		lean = "Yes"
	}
	var s3Key, imageURL string
	if cut.S3Key != nil {
		s3Key = *cut.S3Key
	}
	if cut.ImageURL != nil {
		imageURL = *cut.ImageURL
	}

	return []string{
		strconv.FormatUint(uint64(cut.ID), 10),
		cut.Name,
		cut.NameZh,
		cut.Part,
		lean,
		cut.PriceMin.String(),
		cut.PriceMax.String(),
		cut.PriceMean.String(),
		cut.PriceDisplay,
		cut.Notes,
		cut.ImageKey,
		s3Key,
		imageURL,
		cut.Slug,
		strings.Join(methods, ", "),
		strings.Join(dishes, ", "),
	}
}

// Import reads cuts from a CSV stream and inserts them as new rows —
// import is additive, it never updates existing records. Each row is
// validated independently; failures are collected with their 1-based
// row number and the rest of the file keeps processing. Cancellation
// is honored between rows; completed inserts are retained.
func (s *CsvService) Import(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows fail per-row, not the batch

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("missing CSV header: %w", err)
	}
	cols := resolveColumns(header)
	for _, field := range []string{"name", "name_zh", "part", "image_key"} {
		if _, ok := cols[field]; !ok {
			return nil, fmt.Errorf("no recognized column for %q", field)
		}
	}

	summary := &ImportSummary{}
	for row := 1; ; row++ {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, RowError{Row: row, Reason: err.Error()})
			continue
		}

		if err := s.importRow(cols, record); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, RowError{Row: row, Reason: err.Error()})
			continue
		}
		summary.Succeeded++
	}

	// One timestamp bump for the whole run, as long as anything landed.
	if summary.Succeeded > 0 {
		if err := s.cuts.TouchSyncMetadata(models.SyncKeyCatalog); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// resolveColumns maps each logical field to its column index, trying
// the accepted header spellings in order. Comparison ignores case and
// surrounding whitespace.
func resolveColumns(header []string) map[string]int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := make(map[string]int, len(csvAliases))
	for field, aliases := range csvAliases {
		for _, alias := range aliases {
			for i, h := range normalized {
				if h == strings.ToLower(alias) {
					cols[field] = i
					break
				}
			}
			if _, ok := cols[field]; ok {
				break
			}
		}
	}
	return cols
}

func (s *CsvService) importRow(cols map[string]int, record []string) error {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := get("name")
	nameZh := get("name_zh")
	part := get("part")
	imageKey := get("image_key")
	switch {
	case name == "":
		return fmt.Errorf("missing name")
	case nameZh == "":
		return fmt.Errorf("missing chinese name")
	case part == "":
		return fmt.Errorf("missing part")
	case imageKey == "":
		return fmt.Errorf("missing image key")
	}

	price, err := utils.ParsePriceRange(get("price"))
	if err != nil {
		return fmt.Errorf("price range %q: %v", get("price"), err)
	}

	slug, err := utils.AssignSlug(name, func(candidate string) (bool, error) {
		return s.cuts.SlugExists(candidate, 0)
	})
	if err != nil {
		return err
	}

	cut := &models.Cut{
		Name:         name,
		NameZh:       nameZh,
		Part:         part,
		Lean:         parseLean(get("lean")),
		PriceMin:     price.Min,
		PriceMax:     price.Max,
		PriceMean:    price.Mean,
		PriceDisplay: utils.FormatPriceRange(price.Min, price.Max),
		Notes:        get("notes"),
		ImageKey:     imageKey,
		Slug:         slug,
	}
	// The remote pointer travels as a pair; a row carrying only half
	// of it is imported without one.
	if s3Key, imageURL := get("s3_key"), get("image_url"); s3Key != "" && imageURL != "" {
		cut.S3Key = &s3Key
		cut.ImageURL = &imageURL
	}

	if err := s.cuts.Create(cut); err != nil {
		return err
	}
	if err := s.cuts.ReplaceMethods(cut, utils.SplitTags(get("methods"))); err != nil {
		return err
	}
	return s.cuts.ReplaceDishes(cut, utils.SplitTags(get("dishes")))
}

// parseLean accepts the exported Yes/No form plus the boolean spellings
// older sheets used. Anything unrecognized means not lean.
func parseLean(value string) bool {
	switch strings.ToLower(value) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
