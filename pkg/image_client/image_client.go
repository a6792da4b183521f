// Package image_client calls the Hugging Face text-to-image inference API.
package image_client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tidwall/gjson"
)

// ErrEmptyImage the API answered 200 without image bytes
var ErrEmptyImage = errors.New("empty image")

const fallbackMIME = "image/png"

// Image generated image bytes
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURI returns the data:<mime>;base64,<payload> form of the image
func (img *Image) DataURI() string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ImageClient text-to-image client
type ImageClient struct {
	client  *http.Client
	baseURL string
	token   string
	model   string
}

// NewImageClient creates a client posting to {baseURL}/{model}
func NewImageClient(baseURL, token, model string, timeout time.Duration) *ImageClient {
	return &ImageClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		model:   model,
	}
}

// Model returns the configured model id
func (c *ImageClient) Model() string {
	return c.model
}

type generateRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters *generateParameters `json:"parameters,omitempty"`
}

type generateParameters struct {
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

// Generate renders prompt; negativePrompt may be empty
func (c *ImageClient) Generate(ctx context.Context, prompt, negativePrompt string) (*Image, error) {
	payload := generateRequest{Inputs: prompt}
	if negativePrompt != "" {
		payload.Parameters = &generateParameters{NegativePrompt: negativePrompt}
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+c.model, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", fallbackMIME)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = string(body)
		}
		return nil, fmt.Errorf("api error: status=%d, message=%s", resp.StatusCode, msg)
	}

	if len(body) == 0 {
		return nil, ErrEmptyImage
	}

	return &Image{Data: body, MIMEType: detectImageMIME(body)}, nil
}

func detectImageMIME(data []byte) string {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return fallbackMIME
	}
	return mt.String()
}
