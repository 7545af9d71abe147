package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/warefront/catalog_api/internal/models"
	"github.com/warefront/catalog_api/internal/query"
	"github.com/warefront/catalog_api/internal/repository"
)

// ImportService loads the product CSV feed into the catalog in upsert
// batches. Individual bad rows (no SKU, short records) are counted and
// skipped; the run only aborts on I/O or database failure. Because rows
// upsert by unique SKU, rerunning a load is idempotent.
type ImportService struct {
	repo      *repository.ProductRepository
	batchSize int
}

// NewImportService constructs an ImportService.
func NewImportService(repo *repository.ProductRepository, batchSize int) *ImportService {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &ImportService{repo: repo, batchSize: batchSize}
}

// ImportReport summarizes one load run.
type ImportReport struct {
	Processed int
	Errors    int
}

// Run imports the CSV file at path. Each batch commits as one transaction;
// a mid-run failure leaves prior batches applied and the remainder
// unapplied, and recovery is simply rerunning the load. The report is
// always non-nil so callers can log progress even on a failed run.
func (s *ImportService) Run(path string) (*ImportReport, error) {
	report := &ImportReport{}

	f, err := os.Open(path)
	if err != nil {
		return report, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return report, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	batch := make([]models.Product, 0, s.batchSize)

	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			report.Errors++
			log.Warn().Int("row", rowNum).Err(err).Msg("Skipping malformed CSV row")
			continue
		}

		product, ok := productFromRecord(columns, record)
		if !ok {
			report.Errors++
			continue
		}
		batch = append(batch, product)

		if len(batch) >= s.batchSize {
			if err := s.repo.UpsertBatch(batch); err != nil {
				return report, fmt.Errorf("batch upsert failed at row %d: %w", rowNum, err)
			}
			report.Processed += len(batch)
			log.Info().Int("processed", report.Processed).Msg("Batch committed")
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.repo.UpsertBatch(batch); err != nil {
			return report, fmt.Errorf("final batch upsert failed: %w", err)
		}
		report.Processed += len(batch)
	}

	return report, nil
}

// productFromRecord maps one CSV record to a product, coercing numeric
// fields and unescaping HTML entities in text fields. Records without a
// SKU are unimportable and return ok=false.
func productFromRecord(columns map[string]int, record []string) (models.Product, bool) {
	get := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	sku := get("sku")
	if sku == "" {
		return models.Product{}, false
	}

	return models.Product{
		Style:              query.UnescapeText(get("style")),
		SKU:                sku,
		Title:              query.UnescapeText(get("product_title")),
		Description:        query.UnescapeText(get("product_description")),
		AvailableSizes:     query.UnescapeText(get("available_sizes")),
		SuggestedPrice:     query.ParseDecimal(get("suggested_price")),
		Category:           query.UnescapeText(get("category_name")),
		Subcategory:        query.UnescapeText(get("subcategory_name")),
		Color:              query.UnescapeText(get("color_name")),
		Size:               query.UnescapeText(get("size")),
		Stock:              query.ParseInt(get("stock")),
		PieceWeight:        query.ParseDecimal(get("piece_weight")),
		Warehouse:          query.UnescapeText(get("warehouse")),
		Status:             query.UnescapeText(get("product_status")),
		MSRP:               query.ParseDecimal(get("msrp")),
		MapPricing:         query.ParseDecimal(get("map_pricing")),
		FrontModelImageURL: get("front_model_image_url"),
	}, true
}
