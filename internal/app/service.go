// Package service provides the prediction service behind the HTTP layer.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/vokasi/internal/adapters/artifacts"
	"github.com/okian/vokasi/internal/config"
	"github.com/okian/vokasi/internal/domain/features"
	"github.com/okian/vokasi/internal/domain/model"
	"github.com/okian/vokasi/internal/domain/predict"
	"github.com/okian/vokasi/pkg/logger"
	"github.com/okian/vokasi/pkg/metrics"
)

// Service turns input records into formatted salary predictions. After
// Start it only reads shared state and is safe for concurrent use.
type Service struct {
	mu sync.RWMutex

	// Core components, immutable once started
	bundle    *artifacts.Bundle
	catalog   features.Catalog
	aligner   *features.Aligner
	predictor *predict.Predictor
	formatter *CurrencyFormatter

	// Configuration
	currencyPrefix string
	catalogCheck   string

	// State
	started bool
	report  features.Report
	served  atomic.Int64
	failed  atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBundle sets the loaded artifacts.
func WithBundle(b *artifacts.Bundle) Option {
	return func(s *Service) {
		s.bundle = b
	}
}

// WithCatalog replaces the default category catalog.
func WithCatalog(c features.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithCurrencyPrefix sets the prefix of formatted predictions.
func WithCurrencyPrefix(prefix string) Option {
	return func(s *Service) {
		s.currencyPrefix = prefix
	}
}

// WithCatalogCheck sets whether catalog drift fails Start ("strict") or is
// only logged ("warn").
func WithCatalogCheck(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.catalogCheck = mode
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Start must be called before Predict.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:        features.DefaultCatalog(),
		currencyPrefix: "Rp",
		catalogCheck:   config.CatalogCheckStrict,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start reconciles the catalog with the manifest and wires the aligner and
// predictor. Any failure leaves the service unable to predict.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.bundle == nil {
		return ErrNoBundle
	}

	s.report = features.Reconcile(s.catalog, s.bundle.Manifest)
	metrics.UpdateCatalogDrift(s.report.Drift())
	if err := s.report.Err(); err != nil {
		if s.catalogCheck == config.CatalogCheckStrict {
			return err
		}
		s.logger.Warn(ctx, "category catalog drifted from manifest; affected indicators are zero filled", logger.Error(err))
	}
	for field, values := range s.report.Unmapped {
		if len(values) == 1 {
			s.logger.Debug(ctx, "category has no manifest column; treating it as the baseline",
				logger.String("field", field), logger.String("value", values[0]))
		}
	}

	aligner, err := features.NewAligner(s.catalog, s.bundle.Manifest)
	if err != nil {
		return err
	}
	p, err := predict.New(s.bundle.Scaler, s.bundle.Model)
	if err != nil {
		return err
	}
	if p.Width() != aligner.Width() {
		return fmt.Errorf("%w: model expects %d columns, manifest lists %d", predict.ErrShapeMismatch, p.Width(), aligner.Width())
	}

	s.aligner = aligner
	s.predictor = p
	s.formatter = NewCurrencyFormatter(s.currencyPrefix)
	s.started = true
	metrics.UpdateManifestColumns(aligner.Width())

	s.logger.Info(ctx, "prediction service started",
		logger.Int("columns", aligner.Width()),
		logger.String("model", s.bundle.ModelKind),
		logger.String("scaler", s.bundle.ScalerKind),
	)
	return nil
}

// Catalog returns the category catalog the form is rendered from.
func (s *Service) Catalog() features.Catalog {
	return s.catalog
}

// Report returns the startup reconciliation report.
func (s *Service) Report() features.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Predict aligns rec to the manifest, applies the scaler and model, and
// formats the result. Repeated calls with the same record return the same
// value.
func (s *Service) Predict(ctx context.Context, rec model.InputRecord) (model.PredictionResult, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.PredictionResult{}, ErrNotStarted
	}

	start := time.Now()
	requestID := uuid.NewString()

	vec, dropped := s.aligner.Align(rec)
	for _, col := range dropped {
		metrics.RecordDroppedColumn(fieldOf(col))
	}
	if len(dropped) > 0 {
		s.logger.Warn(ctx, "input produced columns the model was not trained on",
			logger.String("request_id", requestID),
			logger.Strings("dropped", dropped),
		)
	}

	y, err := s.predictor.Predict(ctx, vec)
	metrics.RecordPredictionLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		s.failed.Add(1)
		metrics.RecordPrediction(metrics.OutcomeError)
		s.logger.Error(ctx, "prediction failed",
			logger.String("request_id", requestID),
			logger.Error(err),
		)
		return model.PredictionResult{}, err
	}

	s.served.Add(1)
	metrics.RecordPrediction(metrics.OutcomeSuccess)
	metrics.RecordPredictedValue(y)
	s.logger.Debug(ctx, "prediction served",
		logger.String("request_id", requestID),
		logger.Float64("value", y),
	)

	return model.PredictionResult{
		RequestID: requestID,
		Value:     y,
		Formatted: s.formatter.Format(y),
		Features:  vec,
		Dropped:   dropped,
	}, nil
}

// fieldOf maps a column name to the metric label of its field.
func fieldOf(column string) string {
	for _, field := range []string{features.FieldEducation, features.FieldTraining} {
		if strings.HasPrefix(column, field+"_") {
			return field
		}
	}
	return "passthrough"
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"predictionsServed": s.served.Load(),
		"predictionsFailed": s.failed.Load(),
		"catalogDrift":      s.report.Drift(),
	}
	if s.started {
		stats["manifestColumns"] = s.aligner.Width()
		stats["modelKind"] = s.bundle.ModelKind
		stats["scalerKind"] = s.bundle.ScalerKind
	}
	return stats
}
