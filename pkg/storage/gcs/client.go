// Package gcs uploads store assets and KYC documents to Google Cloud Storage
// through the JSON API.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

const (
	pingTimeout = 5 * time.Second

	defaultAPIBase    = "https://storage.googleapis.com/storage/v1"
	defaultUploadBase = "https://storage.googleapis.com/upload/storage/v1"
)

var errNotInitialized = errors.New("gcs client not initialized")

// Client writes objects with a cached OAuth token. It satisfies
// storage.ObjectWriter.
type Client struct {
	httpClient    *http.Client
	defaultBucket string
	tokenSource   *tokenSource
	apiBase       string
	uploadBase    string
	logg          *logger.Logger
}

// NewClient resolves credentials (inline JSON, credentials file, then the
// metadata server) and verifies the bucket is listable before returning.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BucketName) == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	ts, err := credentialsTokenSource(httpClient, gcp)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:    httpClient,
		defaultBucket: cfg.BucketName,
		tokenSource:   ts,
		apiBase:       defaultAPIBase,
		uploadBase:    defaultUploadBase,
		logg:          logg,
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}
	return client, nil
}

func credentialsTokenSource(httpClient *http.Client, gcp config.GCPConfig) (*tokenSource, error) {
	switch {
	case gcp.CredentialsJSON != "":
		return newServiceAccountTokenSource(httpClient, gcp.CredentialsJSON)
	case gcp.ApplicationCredentials != "":
		raw, err := os.ReadFile(gcp.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		return newServiceAccountTokenSource(httpClient, string(raw))
	default:
		return newMetadataTokenSource(httpClient), nil
	}
}

// Close is a no-op; the client holds no long-lived connections of its own.
func (c *Client) Close() error {
	return nil
}

// Ping lists at most one object, which needs storage.objects.list on the bucket.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errNotInitialized
	}
	if c.defaultBucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/b/%s/o?maxResults=1", trimBase(c.apiBase, defaultAPIBase), url.PathEscape(c.defaultBucket))
	resp, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return err
	}
	defer c.closeBody(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs bucket check failed", resp)
	}
	return nil
}

// Upload stores body at bucket/object with a simple media upload. An empty
// bucket falls back to the configured one.
func (c *Client) Upload(ctx context.Context, bucket, object, contentType string, body io.Reader) error {
	if c == nil || c.tokenSource == nil {
		return errNotInitialized
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" || object == "" {
		return errors.New("gcs bucket and object are required")
	}

	q := url.Values{}
	q.Set("uploadType", "media")
	q.Set("name", object)
	endpoint := fmt.Sprintf("%s/b/%s/o?%s", trimBase(c.uploadBase, defaultUploadBase), url.PathEscape(bucket), q.Encode())

	resp, err := c.do(ctx, http.MethodPost, endpoint, contentType, body)
	if err != nil {
		return err
	}
	defer c.closeBody(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("gcs upload failed", resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader) (*http.Response, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpClient.Do(req)
}

func (c *Client) closeBody(ctx context.Context, body io.Closer) {
	if err := body.Close(); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "gcs: closing response body failed")
	}
}

func trimBase(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return strings.TrimRight(value, "/")
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, msg)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
