// internal/flows/recommendation/handler.go
package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "customer-insights/internal/common/errors"
	commonhttp "customer-insights/internal/common/http"
	"customer-insights/internal/common/logger"
	"customer-insights/internal/view"
)

const (
	TaskType = "recommendation"
	Endpoint = "/recommend/{product}"

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

// Handle runs one recommendation request against v. The previous list is
// cleared before the request goes out so stale entries are never visible.
func (h *Handler) Handle(ctx context.Context, v view.View, rawName string) error {
	productName := strings.TrimSpace(rawName)
	if productName == "" {
		return apperrors.ErrEmptyInput
	}

	v.SetBusy(view.ControlRecommend, true)
	defer v.SetBusy(view.ControlRecommend, false)

	v.ClearResult(view.RegionRecommend)

	result, err := h.execute(ctx, productName)
	if err != nil {
		h.logger.Warn("recommendation request failed", map[string]interface{}{
			"product":   productName,
			"errorCode": string(apperrors.GetErrorCode(err)),
			"error":     err.Error(),
		})
		v.ShowError(MsgRequestFailed)
		return err
	}

	fields := map[string]interface{}{"product": productName}
	switch r := result.(type) {
	case Informational:
		fields["message"] = r.Message
	case Recommendations:
		fields["resultCount"] = len(r.Items)
	}
	h.logger.Info("recommendation request completed", fields)

	v.ShowListResult(view.RegionRecommend, result.Entries())
	return nil
}

func (h *Handler) execute(ctx context.Context, productName string) (Result, error) {
	recommendURL := fmt.Sprintf("%s/recommend/%s", h.config.APIBaseURL, commonhttp.EscapePathSegment(productName))

	resp, err := h.client.Get(ctx, recommendURL, Endpoint)
	if err != nil {
		return nil, apperrors.NewTransportError(Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewStatusError(Endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewTransportError(Endpoint, err)
	}

	if err := recommendationSchema.Check(body); err != nil {
		return nil, apperrors.NewMalformedPayloadError(Endpoint, err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, apperrors.NewMalformedPayloadError(Endpoint, err)
	}

	return p.decode(), nil
}

// Execute performs the backend request without rendering.
func (h *Handler) Execute(ctx context.Context, productName string) (Result, error) {
	return h.execute(ctx, strings.TrimSpace(productName))
}
