// Package smoketest drives a running prediction service over HTTP and checks
// that its responses are consistent.
package smoketest

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Requests     int           // Number of records to submit
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Seed         uint64        // Seed for record generation
	UnknownRatio float64       // Share of records using a category outside the catalog
	Repeat       int           // Number of records re-submitted to check determinism
	OutputFile   string        // Optional JSON file for the collected results
	Verbose      bool          // Log every failed request
}

// Record is the body of POST /api/predict.
type Record struct {
	Age            int    `json:"age"`
	TrainingMonths int    `json:"training_months"`
	ExamScore      int    `json:"exam_score"`
	Gender         string `json:"gender"`
	Education      string `json:"education"`
	Field          string `json:"field"`
	Experience     string `json:"experience"`
}

// Catalog is the body of GET /api/catalog.
type Catalog struct {
	Education  []string `json:"education"`
	Field      []string `json:"field"`
	Gender     []string `json:"gender"`
	Experience []string `json:"experience"`
}

// Result is the outcome of one submission.
type Result struct {
	Record    Record    `json:"record"`
	Unknown   bool      `json:"unknown"`
	Status    int       `json:"status"`
	Value     float64   `json:"value"`
	Formatted string    `json:"formatted"`
	Columns   []string  `json:"columns"`
	Dropped   []string  `json:"dropped_columns,omitempty"`
	Err       string    `json:"error,omitempty"`
	Latency   float64   `json:"latency_ms"`
	At        time.Time `json:"at"`
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Failed     int
	WithDrops  int
	Repeated   int
	MinValue   float64
	MaxValue   float64
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
