package validation

import "fmt"

// ParamLimits defines configurable limits for extraction parameters
type ParamLimits struct {
	// Bin count limits: the vector length grows as 2*bins^3
	MinBinsPerChannel int
	MaxBinsPerChannel int

	// Smoothing window limits
	MaxSmoothingWindow int

	// Coherence fraction range
	MinCoherenceFraction float64
	MaxCoherenceFraction float64

	// Image size limits
	MaxPixels int
}

// DefaultParamLimits returns the default extraction parameter limits
func DefaultParamLimits() ParamLimits {
	return ParamLimits{
		MinBinsPerChannel:    1,
		MaxBinsPerChannel:    16, // 16^3 bins, 8192-length vector
		MaxSmoothingWindow:   15,
		MinCoherenceFraction: 0.0,
		MaxCoherenceFraction: 1.0,
		MaxPixels:            64 * 1024 * 1024,
	}
}

// ParamIssue represents an extraction parameter validation issue
type ParamIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning"
	ActualValue float64 `json:"actual_value,omitempty"`
	Limit       float64 `json:"limit,omitempty"`
}

// ParamValidator handles extraction parameter validation logic
type ParamValidator struct {
	limits ParamLimits
}

// NewParamValidator creates a validator with default limits
func NewParamValidator() *ParamValidator {
	return &ParamValidator{limits: DefaultParamLimits()}
}

// NewParamValidatorWithLimits creates a validator with custom limits
func NewParamValidatorWithLimits(limits ParamLimits) *ParamValidator {
	return &ParamValidator{limits: limits}
}

// ExtractionParams are the caller-supplied knobs checked before a run
type ExtractionParams struct {
	BinsPerChannel    int
	SmoothingWindow   int
	CoherenceFraction float64
	Width             int
	Height            int
}

// ValidateParams checks the parameters against the configured limits
func (pv *ParamValidator) ValidateParams(params ExtractionParams) []ParamIssue {
	var issues []ParamIssue

	if params.BinsPerChannel < pv.limits.MinBinsPerChannel {
		issues = append(issues, ParamIssue{
			Type:        "bins_too_small",
			Message:     fmt.Sprintf("bins per channel must be at least %d", pv.limits.MinBinsPerChannel),
			Severity:    "error",
			ActualValue: float64(params.BinsPerChannel),
			Limit:       float64(pv.limits.MinBinsPerChannel),
		})
	} else if params.BinsPerChannel > pv.limits.MaxBinsPerChannel {
		issues = append(issues, ParamIssue{
			Type:        "bins_too_large",
			Message:     fmt.Sprintf("bins per channel must not exceed %d", pv.limits.MaxBinsPerChannel),
			Severity:    "error",
			ActualValue: float64(params.BinsPerChannel),
			Limit:       float64(pv.limits.MaxBinsPerChannel),
		})
	}

	if params.SmoothingWindow <= 0 || params.SmoothingWindow%2 == 0 {
		issues = append(issues, ParamIssue{
			Type:        "window_not_odd",
			Message:     "smoothing window must be odd and positive",
			Severity:    "error",
			ActualValue: float64(params.SmoothingWindow),
		})
	} else if params.SmoothingWindow > pv.limits.MaxSmoothingWindow {
		issues = append(issues, ParamIssue{
			Type:        "window_too_large",
			Message:     fmt.Sprintf("smoothing window must not exceed %d", pv.limits.MaxSmoothingWindow),
			Severity:    "error",
			ActualValue: float64(params.SmoothingWindow),
			Limit:       float64(pv.limits.MaxSmoothingWindow),
		})
	}

	if params.CoherenceFraction < pv.limits.MinCoherenceFraction ||
		params.CoherenceFraction > pv.limits.MaxCoherenceFraction {
		issues = append(issues, ParamIssue{
			Type:        "fraction_out_of_range",
			Message:     "coherence fraction must be within the allowed range",
			Severity:    "error",
			ActualValue: params.CoherenceFraction,
			Limit:       pv.limits.MaxCoherenceFraction,
		})
	}

	if params.Width <= 0 || params.Height <= 0 {
		issues = append(issues, ParamIssue{
			Type:     "zero_area",
			Message:  "image has zero area",
			Severity: "error",
		})
	} else if params.Width*params.Height > pv.limits.MaxPixels {
		issues = append(issues, ParamIssue{
			Type:        "image_too_large",
			Message:     fmt.Sprintf("image exceeds %d pixels", pv.limits.MaxPixels),
			Severity:    "error",
			ActualValue: float64(params.Width * params.Height),
			Limit:       float64(pv.limits.MaxPixels),
		})
	}

	return issues
}

// ConvertIssuesToMessages flattens issues into plain error strings
func (pv *ParamValidator) ConvertIssuesToMessages(issues []ParamIssue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}
