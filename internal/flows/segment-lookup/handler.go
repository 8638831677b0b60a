// internal/flows/segment-lookup/handler.go
package segmentlookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "customer-insights/internal/common/errors"
	commonhttp "customer-insights/internal/common/http"
	"customer-insights/internal/common/logger"
	"customer-insights/internal/view"
)

const (
	TaskType = "segment-lookup"
	Endpoint = "/customer/{id}"

	maxBodyBytes = 1 << 20
)

type Handler struct {
	config *Config
	client *commonhttp.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *commonhttp.Client, log logger.Logger) *Handler {
	if client == nil {
		client = commonhttp.NewClient(config.Timeout, nil)
	}
	return &Handler{
		config: config,
		client: client,
		logger: log.With(map[string]interface{}{
			"flow": TaskType,
		}),
	}
}

// Handle runs one segment lookup against v. Blank input returns
// errors.ErrEmptyInput without touching v. Every other outcome is rendered
// to v and also returned so the caller can record it.
func (h *Handler) Handle(ctx context.Context, v view.View, rawID string) error {
	customerID := strings.TrimSpace(rawID)
	if customerID == "" {
		return apperrors.ErrEmptyInput
	}

	v.SetBusy(view.ControlSegment, true)
	defer v.SetBusy(view.ControlSegment, false)

	v.ClearResult(view.RegionSegment)

	result, err := h.execute(ctx, customerID)
	if err != nil {
		h.logger.Warn("segment lookup failed", map[string]interface{}{
			"customerId": customerID,
			"errorCode":  string(apperrors.GetErrorCode(err)),
			"error":      err.Error(),
		})
		v.ShowError(userMessage(err))
		return err
	}

	h.logger.Info("segment lookup completed", map[string]interface{}{
		"customerId": customerID,
		"segment":    result.Segment,
	})
	v.ShowScalarResult(view.RegionSegment, result.Segment)
	return nil
}

func userMessage(err error) string {
	if apperrors.IsNotFound(err) {
		return MsgNotFound
	}
	return MsgRequestFailed
}

func (h *Handler) execute(ctx context.Context, customerID string) (*SegmentResult, error) {
	lookupURL := fmt.Sprintf("%s/customer/%s", h.config.APIBaseURL, commonhttp.EscapePathSegment(customerID))

	resp, err := h.client.Get(ctx, lookupURL, Endpoint)
	if err != nil {
		return nil, apperrors.NewTransportError(Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewNotFoundError("Customer", customerID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewStatusError(Endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewTransportError(Endpoint, err)
	}

	if err := segmentSchema.Check(body); err != nil {
		return nil, apperrors.NewMalformedPayloadError(Endpoint, err)
	}

	var result SegmentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.NewMalformedPayloadError(Endpoint, err)
	}

	return &result, nil
}

// Execute performs the backend request without rendering.
func (h *Handler) Execute(ctx context.Context, customerID string) (*SegmentResult, error) {
	return h.execute(ctx, strings.TrimSpace(customerID))
}
