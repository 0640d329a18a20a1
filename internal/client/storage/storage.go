// Package storage talks to the external blob store that holds task assets.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader accepts a named byte stream and returns a durable, publicly
// resolvable URL for it. onProgress, when non-nil, is called as bytes are
// sent with (sent, total).
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, onProgress func(sent, total int64)) (string, error)
}

type HTTPStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPStore(baseURL, token string) *HTTPStore {
	return &HTTPStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type storeError struct {
	Message string `json:"message"`
}

// Upload PUTs the stream under a collision-free object name and returns the
// object URL the store reports back.
func (s *HTTPStore) Upload(ctx context.Context, name string, r io.Reader, size int64, onProgress func(sent, total int64)) (string, error) {
	object := uuid.New().String() + "-" + name
	target := s.baseURL + "/" + url.PathEscape(object)

	body := &progressReader{r: r, total: size, onProgress: onProgress}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, body)
	if err != nil {
		return "", fmt.Errorf("build request (storage): %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s (storage): %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, readErr := io.ReadAll(resp.Body)
		if readErr == nil {
			var storeErr storeError
			if json.Unmarshal(errBody, &storeErr) == nil && storeErr.Message != "" {
				return "", fmt.Errorf("storage error: %s", storeErr.Message)
			}
		}
		return "", fmt.Errorf("storage error status: %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("parse upload response (storage): %w", err)
	}
	if result.URL == "" {
		// Stores that respond with an empty body resolve objects at the
		// upload path itself.
		return target, nil
	}
	return result.URL, nil
}

// progressReader counts bytes as the transport pulls them through.
type progressReader struct {
	r          io.Reader
	sent       int64
	total      int64
	onProgress func(sent, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.sent, p.total)
		}
	}
	return n, err
}
