package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warefront/catalog_api/internal/service"
)

// LowStockWorker periodically reports products at or below the configured
// stock threshold, so depleted inventory shows up in the logs without
// anyone polling the API.
type LowStockWorker struct {
	catalog   *service.CatalogService
	interval  time.Duration
	threshold int
}

// NewLowStockWorker constructs a LowStockWorker.
func NewLowStockWorker(catalog *service.CatalogService, interval time.Duration, threshold int) *LowStockWorker {
	return &LowStockWorker{
		catalog:   catalog,
		interval:  interval,
		threshold: threshold,
	}
}

// Start begins the periodic report loop and listens for context cancellation.
func (w *LowStockWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Int("threshold", w.threshold).Msg("Starting low stock worker")

	// Run immediately on start
	w.run()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Low stock worker stopped")
			return
		}
	}
}

func (w *LowStockWorker) run() {
	rows, err := w.catalog.GetLowStockProducts(w.threshold, 0)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check low stock")
		return
	}
	if len(rows) == 0 {
		log.Debug().Int("threshold", w.threshold).Msg("No products below stock threshold")
		return
	}

	for _, row := range rows {
		stock := 0
		if row.Stock != nil {
			stock = *row.Stock
		}
		log.Warn().
			Str("sku", row.SKU).
			Str("title", row.Title).
			Int("stock", stock).
			Msg("Product stock low")
	}
}
