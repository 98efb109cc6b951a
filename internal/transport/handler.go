package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-ccv-extractor/internal/ccv"
	"go-ccv-extractor/internal/config"
	apperrors "go-ccv-extractor/internal/errors"
	"go-ccv-extractor/internal/logger"
	"go-ccv-extractor/internal/service"
	"go-ccv-extractor/pkg/models"
)

// ExtractRequest is the JSON body of POST /extract. Unset extraction knobs
// fall back to the server's configured defaults.
type ExtractRequest struct {
	URL               string   `json:"url" binding:"required,url"`
	BinsPerChannel    *int     `json:"bins_per_channel,omitempty"`
	SmoothingWindow   *int     `json:"smoothing_window,omitempty"`
	CoherenceFraction *float64 `json:"coherence_fraction,omitempty"`
	Grouping          string   `json:"grouping,omitempty"`
}

type ErrorResponse struct {
	Error   string                   `json:"error"`
	Message string                   `json:"message,omitempty"`
	Details []models.ValidationError `json:"details,omitempty"`
}

func NewHandler(svc service.ExtractionService, cfg *config.Config) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.POST("/extract", extractImage(svc, cfg))

	return r
}

func extractImage(svc service.ExtractionService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing CCV extraction request")

		var req ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		options := requestOptions(req, cfg)

		resp, err := svc.ExtractFromURLWithOptions(ctx, req.URL, options)
		if err != nil {
			statusCode := determineStatusCode(err)
			logger.WithError(err).WithFields(logrus.Fields{
				"url": req.URL,
				"ip":  c.ClientIP(),
			}).Error("Extraction request failed")
			respondError(c, statusCode, "extraction failed", err)
			return
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"url":                req.URL,
			"vector_length":      len(resp.Result.Vector),
			"processing_time_ms": duration.Milliseconds(),
		}).Info("CCV extraction request completed")

		c.JSON(http.StatusOK, resp)
	}
}

// requestOptions merges the request's overrides onto the configured defaults
func requestOptions(req ExtractRequest, cfg *config.Config) ccv.ExtractOptions {
	options := cfg.ExtractOptions()
	if req.BinsPerChannel != nil {
		options.BinsPerChannel = *req.BinsPerChannel
	}
	if req.SmoothingWindow != nil {
		options.SmoothingWindow = *req.SmoothingWindow
	}
	if req.CoherenceFraction != nil {
		options.CoherenceFraction = *req.CoherenceFraction
	}
	if req.Grouping != "" {
		options.Grouping = ccv.GroupingMode(req.Grouping)
	}
	return options
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	resp := ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	}

	// Validation failures carry a structured detail so clients can tell a
	// bad parameter from a transport fault without parsing the message.
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
		resp.Details = []models.ValidationError{{
			Code:    string(appErr.Type),
			Message: appErr.Message,
		}}
	}

	c.AbortWithStatusJSON(code, resp)
}
