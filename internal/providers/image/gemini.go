package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type GeminiOptions struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// GeminiEditor performs image-to-image opening edits through the Gemini
// generateContent endpoint.
type GeminiEditor struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

func NewGeminiEditor(opts GeminiOptions) *GeminiEditor {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := opts.Model
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &GeminiEditor{
		httpClient: client,
		baseURL:    base,
		model:      model,
		apiKey:     strings.TrimSpace(opts.APIKey),
	}
}

type geminiPart struct {
	Text       string `json:"text,omitempty"`
	InlineData *struct {
		MimeType string `json:"mime_type"`
		Data     string `json:"data"`
	} `json:"inline_data,omitempty"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"response_modalities"`
	} `json:"generation_config"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GeminiEditor) Generate(ctx context.Context, req EditRequest) (*EditResult, error) {
	if g == nil || g.apiKey == "" {
		return nil, errors.New("gemini: API key is missing")
	}
	if len(req.AnnotatedPNG) == 0 {
		return nil, errors.New("gemini: annotated image required")
	}

	var payload geminiRequest
	inline := &struct {
		MimeType string `json:"mime_type"`
		Data     string `json:"data"`
	}{
		MimeType: "image/png",
		Data:     base64.StdEncoding.EncodeToString(req.AnnotatedPNG),
	}
	payload.Contents = append(payload.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{
		Parts: []geminiPart{
			{Text: req.Instruction},
			{InlineData: inline},
		},
	})
	payload.GenerationConfig.ResponseModalities = []string{"IMAGE"}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("gemini: http %d", resp.StatusCode)
		}
		return nil, err
	}
	if out.Error != nil {
		return nil, fmt.Errorf("gemini: %s (code %d)", out.Error.Message, out.Error.Code)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("gemini: http %d", resp.StatusCode)
	}

	for _, cand := range out.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("gemini: decode image: %w", err)
			}
			return &EditResult{
				EditedPNG:      data,
				ElapsedSeconds: time.Since(start).Seconds(),
			}, nil
		}
	}
	return nil, errors.New("gemini: response contained no image")
}

var _ Generator = (*GeminiEditor)(nil)
