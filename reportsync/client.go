package reportsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/reports"
)

// Client talks to the remote report service. It satisfies
// reports.RemoteGenerator. Unreachability and server-side failures come back
// as *reports.TransportError so the dispatcher falls back to local
// recomputation; a 4xx response surfaces as-is.
type Client struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
	limiter   <-chan time.Time
}

func NewClient() (*Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("REPORT_API_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("REPORT_API_BASE_URL is empty")
	}
	apiKey := strings.TrimSpace(os.Getenv("REPORT_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("REPORT_API_KEY is empty")
	}
	apiKeyHeader := strings.TrimSpace(os.Getenv("REPORT_API_KEY_HEADER"))
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	rateLimitPerMin := int64(30)
	if v := strings.TrimSpace(os.Getenv("REPORT_RATE_LIMIT_PER_MIN")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			rateLimitPerMin = n
		}
	}
	interval := time.Minute / time.Duration(rateLimitPerMin)

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiKeyHdr: apiKeyHeader,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   time.Tick(interval),
	}, nil
}

func (c *Client) Generate(ctx context.Context, kind models.ReportKind, businessId string, dr reports.DateRange) (*reports.ReportResult, error) {
	<-c.limiter

	reqBody := generateRequest{
		Kind:       string(kind),
		BusinessId: businessId,
	}
	if !dr.From.IsZero() {
		reqBody.From = dr.From.UTC().Format(time.RFC3339)
	}
	if !dr.To.IsZero() {
		reqBody.To = dr.To.UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/v1/reports/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set(c.apiKeyHdr, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &reports.TransportError{Op: "generate", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 500 {
		return nil, &reports.TransportError{
			Op:  "generate",
			Err: fmt.Errorf("report api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("report api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &reports.TransportError{Op: "decode", Err: err}
	}

	data, err := decodePayload(kind, parsed.Data)
	if err != nil {
		return nil, &reports.TransportError{Op: "decode", Err: err}
	}

	generatedAt := parseTimeOrZero(parsed.GeneratedAt)
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	return &reports.ReportResult{
		Kind:        kind,
		BusinessId:  businessId,
		DateRange:   dr,
		GeneratedAt: generatedAt,
		Provenance:  reports.ProvenanceRemote,
		Data:        data,
	}, nil
}
