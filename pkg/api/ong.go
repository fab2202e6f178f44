package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"ong-client/pkg/config"
	"ong-client/pkg/models"
	"ong-client/pkg/utils"
)

const (
	PathSlides       = "slides"
	PathNews         = "news"
	PathTestimonials = "testimonials"
	PathMembers      = "members"

	maxBodySize = 10 * 1024 * 1024 // 10 MB
)

// Client talks to the ONG REST API
type Client struct {
	fetcher   *Fetcher
	baseURL   string
	userAgent string
	group     singleflight.Group // collapses concurrent GETs of the same resource
	log       *logrus.Entry
}

// NewClient wires the HTTP client and fetcher from a validated AppConfig
func NewClient(cfg *config.AppConfig, log *logrus.Entry) *Client {
	apiLog := log.WithField("component", "api")
	httpClient := NewHTTPClient(cfg.HTTPClientSettings, apiLog)
	fetcher := NewFetcher(httpClient, RetryPolicy{
		MaxRetries:        cfg.MaxRetries,
		InitialRetryDelay: cfg.InitialRetryDelay,
		MaxRetryDelay:     cfg.MaxRetryDelay,
	}, apiLog)
	return NewClientWithFetcher(fetcher, cfg.APIBaseURL, cfg.UserAgent, apiLog)
}

// NewClientWithFetcher builds a client around an existing fetcher
func NewClientWithFetcher(fetcher *Fetcher, baseURL, userAgent string, log *logrus.Entry) *Client {
	return &Client{
		fetcher:   fetcher,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		log:       log,
	}
}

// Slides fetches the home carousel entries
func (c *Client) Slides(ctx context.Context) ([]models.Slide, error) {
	return getList[models.Slide](ctx, c, PathSlides)
}

// News fetches the home news entries
func (c *Client) News(ctx context.Context) ([]models.News, error) {
	return getList[models.News](ctx, c, PathNews)
}

// Testimonials fetches the home testimonials
func (c *Client) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	return getList[models.Testimonial](ctx, c, PathTestimonials)
}

// Members fetches the organisation members
func (c *Client) Members(ctx context.Context) ([]models.Member, error) {
	return getList[models.Member](ctx, c, PathMembers)
}

// getList GETs <base>/<path> and unwraps the response envelope
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	v, err, shared := c.group.Do(path, func() (interface{}, error) {
		body, err := c.get(ctx, path)
		if err != nil {
			return nil, err
		}

		var resp models.Response[[]T]
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: JSON decode of %s: %v", utils.ErrParsing, path, err)
		}
		if !resp.Success {
			return nil, fmt.Errorf("%w: %s: %s", utils.ErrUnsuccessfulResponse, path, resp.Message)
		}
		return resp.Data, nil
	})
	if shared {
		c.log.WithField("resource", path).Debug("Shared in-flight request result")
	}
	if err != nil {
		return nil, err
	}
	return v.([]T), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", utils.ErrRequestCreation, url, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.fetcher.FetchWithRetry(ctx, req)
	if err != nil {
		if resp != nil {
			drainAndClose(resp)
		}
		c.log.WithFields(logrus.Fields{
			"resource": path,
			"category": utils.CategorizeError(err),
		}).Warnf("Fetch failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", utils.ErrResponseBodyRead, url, err)
	}
	return body, nil
}
