package imgbb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client uploads product and category images to the imgbb hosting API
// and returns the public URL.
type Client interface {
	Upload(ctx context.Context, image []byte, name string) (*UploadResult, error)
}

type UploadResult struct {
	URL       string
	ThumbURL  string
	DeleteURL string
}

type imgbbClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

func NewClient(apiKey, endpoint string) Client {
	return &imgbbClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL   string `json:"url"`
		Thumb struct {
			URL string `json:"url"`
		} `json:"thumb"`
		DeleteURL string `json:"delete_url"`
	} `json:"data"`
}

func (c *imgbbClient) Upload(ctx context.Context, image []byte, name string) (*UploadResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("imgbb api key not configured")
	}

	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(image))

	if name != "" {
		form.Set("name", name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	var body uploadResponse

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !body.Success {
		return nil, fmt.Errorf("image upload rejected with status %d", resp.StatusCode)
	}

	return &UploadResult{
		URL:       body.Data.URL,
		ThumbURL:  body.Data.Thumb.URL,
		DeleteURL: body.Data.DeleteURL,
	}, nil
}
