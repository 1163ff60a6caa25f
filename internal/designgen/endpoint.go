package designgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EndpointOptions configures a provider that delegates to an HTTP generation service.
type EndpointOptions struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// EndpointProvider posts {"prompt": ...} and expects {"imageDataUri": ...} back.
type EndpointProvider struct {
	url        string
	httpClient *http.Client
}

type endpointRequest struct {
	Prompt string `json:"prompt"`
}

type endpointResponse struct {
	ImageDataURI string `json:"imageDataUri"`
	Error        string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewEndpointProvider(opts EndpointOptions) (*EndpointProvider, error) {
	target := strings.TrimSpace(opts.URL)
	if target == "" {
		return nil, errors.New("generation endpoint url required")
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &EndpointProvider{url: target, httpClient: client}, nil
}

func (p *EndpointProvider) Name() string { return "endpoint" }

func (p *EndpointProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(endpointRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("endpoint: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out endpointResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("endpoint: decode response: %w", err)
	}
	if strings.TrimSpace(out.ImageDataURI) == "" {
		reason := out.Error
		if reason == "" {
			reason = out.Message
		}
		return "", &NoImageError{Reason: reason}
	}
	return strings.TrimSpace(out.ImageDataURI), nil
}
