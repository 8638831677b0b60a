package web

import (
	"context"
	"encoding/json"
	"io"

	apperrors "customer-insights/internal/common/errors"
	commonhttp "customer-insights/internal/common/http"
	"customer-insights/internal/common/validation"
)

const probeEndpoint = "/"

var welcomeSchema = validation.MustCompile("welcome", `{
	"type": "object",
	"required": ["message"],
	"properties": {"message": {"type": "string"}}
}`)

// BackendProbe asks the analytics backend for its welcome message.
type BackendProbe struct {
	baseURL string
	client  *commonhttp.Client
}

func NewBackendProbe(baseURL string, client *commonhttp.Client) *BackendProbe {
	return &BackendProbe{baseURL: baseURL, client: client}
}

// Check returns the backend's welcome message when it is reachable and healthy.
func (p *BackendProbe) Check(ctx context.Context) (string, error) {
	resp, err := p.client.Get(ctx, p.baseURL+"/", probeEndpoint)
	if err != nil {
		return "", apperrors.NewTransportError(probeEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewStatusError(probeEndpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", apperrors.NewTransportError(probeEndpoint, err)
	}
	if err := welcomeSchema.Check(body); err != nil {
		return "", apperrors.NewMalformedPayloadError(probeEndpoint, err)
	}

	var welcome struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &welcome); err != nil {
		return "", apperrors.NewMalformedPayloadError(probeEndpoint, err)
	}
	return welcome.Message, nil
}
