package designgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash-exp"
	maxErrorBody         = 4 << 10
)

// GeminiOptions controls how the Gemini provider is configured.
type GeminiOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// GeminiProvider calls generateContent asking for TEXT and IMAGE modalities
// and returns the first inline image as a data URI.
type GeminiProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	SafetySettings   []geminiSafetySetting   `json:"safetySettings,omitempty"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

var geminiSafetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

func NewGeminiProvider(opts GeminiOptions) *GeminiProvider {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if p == nil {
		return "", errors.New("gemini provider not configured")
	}
	if p.apiKey == "" {
		return "", errors.New("gemini: API key is missing")
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		SafetySettings:   geminiSafetySettings,
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	// Keep the key out of the URL: transport errors quote it.
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr geminiErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini: http %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini: http %d", resp.StatusCode)
	}

	var out geminiGenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}

	var text []string
	for _, candidate := range out.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mime := part.InlineData.MimeType
				if mime == "" {
					mime = "image/png"
				}
				return "data:" + mime + ";base64," + part.InlineData.Data, nil
			}
			if t := strings.TrimSpace(part.Text); t != "" {
				text = append(text, t)
			}
		}
		if candidate.FinishReason == "SAFETY" || candidate.FinishReason == "PROHIBITED_CONTENT" {
			text = append(text, "blocked by safety filter")
		}
	}
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		text = append(text, "prompt blocked: "+out.PromptFeedback.BlockReason)
	}
	return "", &NoImageError{Reason: strings.Join(text, " ")}
}
