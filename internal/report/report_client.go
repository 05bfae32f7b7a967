package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	reporterrors "github.com/Santatra-A/leave-management/internal/report/errors"

	"github.com/hashicorp/go-retryablehttp"
)

// Client calls the external reporting service. Transient failures are
// retried with backoff before the request is reported as failed.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = 30 * time.Second
	retryClient.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: retryClient.StandardClient(),
	}
}

func (c *Client) Generate(ctx context.Context, req GenerateReportRequest) (json.RawMessage, error) {
	if c == nil || c.baseURL == "" {
		return nil, reporterrors.ErrReportingNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode report request: %w", err)
	}

	url := c.baseURL + "/reports"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create report request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, reporterrors.ErrReportingUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, reporterrors.ErrReportingUnavailable
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read report response: %w", err)
	}

	return raw, nil
}
