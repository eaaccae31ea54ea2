package providers

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

	"whoisrecord/parsers"
	"whoisrecord/pkg/logger"
	"whoisrecord/types"
	"whoisrecord/utils"
)

const whoisXMLEndpoint = "https://www.whoisxmlapi.com/whoisserver/WhoisService"

// WhoisXMLProvider WhoisXML API，原始JSON作为单个 Part 返回，由 whoisxml 后端解析
type WhoisXMLProvider struct {
	apiKey     string
	endpoint   string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

func NewWhoisXMLProvider(apiKey string, timeout time.Duration) *WhoisXMLProvider {
	return &WhoisXMLProvider{
		apiKey:   apiKey,
		endpoint: whoisXMLEndpoint,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		maxRetries: 2,
		retryDelay: 2 * time.Second,
	}
}

func (p *WhoisXMLProvider) Name() string {
	return "whoisxml"
}

func (p *WhoisXMLProvider) Fetch(ctx context.Context, q utils.Query) (*Response, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: WHOISXML_API_KEY", ErrNotConfigured)
	}
	if q.Kind != utils.QueryDomain {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedQuery, q.Kind)
	}

	body, err := p.request(ctx, q.Value)
	if err != nil {
		return nil, err
	}
	return &Response{
		Server: &types.Server{Type: "api", Allocation: q.Value, Host: parsers.HostWhoisXML},
		Parts:  []types.Part{{Body: body, Host: parsers.HostWhoisXML}},
	}, nil
}

// request 对限流与服务端错误按指数退避重试
func (p *WhoisXMLProvider) request(ctx context.Context, domain string) (string, error) {
	log := logger.FromContext(ctx, "WhoisXML")

	params := url.Values{}
	params.Set("apiKey", p.apiKey)
	params.Set("domainName", domain)
	params.Set("outputFormat", "JSON")
	apiURL := p.endpoint + "?" + params.Encode()

	delay := p.retryDelay
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			log.Infof("retry #%d for %s after %v", attempt, domain, delay)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		body, retry, err := p.do(ctx, apiURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Warnf("attempt %d/%d failed: %v", attempt+1, p.maxRetries+1, err)
		if !retry {
			break
		}
	}
	return "", lastErr
}

func (p *WhoisXMLProvider) do(ctx context.Context, apiURL string) (body string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", redactURL(err))
	}
	req.Header.Set("User-Agent", "whoisrecord/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("requesting whoisxml %s: %w", p.endpoint, redactURL(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", true, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, fmt.Errorf("whoisxml returned status %d: %s", resp.StatusCode, utils.TruncateString(string(data), 200))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return "", true, fmt.Errorf("whoisxml returned non-JSON content type %q", ct)
	}
	if !json.Valid(data) {
		return "", true, fmt.Errorf("whoisxml returned malformed JSON")
	}
	return string(data), false, nil
}

// redactURL *url.Error 的文本包含带 apiKey 的完整地址，只保留底层错误
func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
