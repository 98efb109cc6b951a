package models

import "time"

// ExtractionResult is the outcome of one CCV extraction run. The vector is
// handed to downstream consumers as an opaque numeric array; everything else
// is diagnostic metadata about the run.
type ExtractionResult struct {
	// Vector has length 2*bins^3: index 2i is the coherent pixel count of
	// bin i, index 2i+1 the incoherent count.
	Vector []uint64 `json:"vector"`

	BinsPerChannel int `json:"bins_per_channel"`
	Width          int `json:"width"`
	Height         int `json:"height"`

	// Tau is the area threshold the run classified groups against
	Tau      int    `json:"tau"`
	Grouping string `json:"grouping"`

	CoherentPixels   uint64 `json:"coherent_pixels"`
	IncoherentPixels uint64 `json:"incoherent_pixels"`
	GroupCount       int    `json:"group_count"`
	LabelCount       int    `json:"label_count"`

	Timestamp         time.Time    `json:"timestamp"`
	ProcessingTimeSec float64      `json:"processing_time_sec"`
	Timings           StageTimings `json:"timings"`
}

// StageTimings records per-stage wall time for one run
type StageTimings struct {
	SmoothSec   float64 `json:"smooth_sec"`
	QuantizeSec float64 `json:"quantize_sec"`
	AnalyzeSec  float64 `json:"analyze_sec"`
}

// ExtractionResponse is the wire form returned by the HTTP API
type ExtractionResponse struct {
	ImageURL string            `json:"image_url"`
	Result   *ExtractionResult `json:"result"`
}

// ValidationError represents a structured validation error
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
