package arsha

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/monsirenc/BDO-Market-Scanner/config"
	"github.com/monsirenc/BDO-Market-Scanner/internal/domain"
)

// probeItemID is Beer, a high-volume staple every region lists. Used by the
// connectivity probe only.
const probeItemID = 9213

// Client fetches price/stock from the arsha.io v2 market API. The upstream
// is undocumented and fronted by Cloudflare, so the client batches ids,
// retries transient failures, paces requests, and tolerates partially
// failed scans.
type Client struct {
	http        *resty.Client
	baseURL     string
	batchSize   int
	blacklist   map[int]struct{}
	rateLimiter *rate.Limiter
}

// NewClient creates a market client from the market configuration
func NewClient(cfg config.MarketConfig) *Client {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	blacklist := make(map[int]struct{}, len(cfg.Blacklist))
	for _, id := range cfg.Blacklist {
		blacklist[id] = struct{}{}
	}

	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		batchSize:   cfg.BatchSize,
		blacklist:   blacklist,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Fetch retrieves quotes for the given item ids and returns them as one
// snapshot. Blacklisted ids are never sent. A batch that fails after all
// retries and both region casings is logged and skipped; the fetch only
// errors when every batch failed.
func (c *Client) Fetch(ctx context.Context, region string, ids []int) (domain.MarketSnapshot, error) {
	safe := c.safeIDs(ids)
	snapshot := make(domain.MarketSnapshot, len(safe))
	if len(safe) == 0 {
		return snapshot, nil
	}

	var succeeded int
	var lastErr error
	batches := 0

	for start := 0; start < len(safe); start += c.batchSize {
		end := start + c.batchSize
		if end > len(safe) {
			end = len(safe)
		}
		batches++

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		entries, err := c.fetchBatch(ctx, region, safe[start:end])
		if err != nil {
			log.Warnf("arsha: batch %d-%d failed: %v", start, end, err)
			lastErr = err
			continue
		}
		mergeEntries(snapshot, entries)
		succeeded++
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("%w: all %d batches failed: %v", domain.ErrMarketAPIFailure, batches, lastErr)
	}

	log.Infof("arsha: priced %d items over %d/%d batches (region %s)", len(snapshot), succeeded, batches, region)
	return snapshot, nil
}

// Probe fetches a single known-good item to verify the upstream is
// reachable from this host at all.
func (c *Client) Probe(ctx context.Context, region string) (domain.MarketQuote, error) {
	snapshot, err := c.Fetch(ctx, region, []int{probeItemID})
	if err != nil {
		return domain.MarketQuote{}, err
	}
	quote, ok := snapshot[probeItemID]
	if !ok {
		return domain.MarketQuote{}, domain.ErrNoMarketData
	}
	return quote, nil
}

// fetchBatch requests one id batch, trying the lowercase region code first
// and the uppercase one second. The v2 endpoint is case-sensitive in a
// region-dependent way, so both casings are legitimate spellings upstream.
func (c *Client) fetchBatch(ctx context.Context, region string, ids []int) ([]priceEntry, error) {
	idParam := joinIDs(ids)

	var lastErr error
	for _, code := range regionCodes(region) {
		reqURL := fmt.Sprintf("%s/v2/%s/price", c.baseURL, code)

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("id", idParam).
			SetQueryParam("lang", "en").
			Get(reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrMarketAPIFailure, err)
			continue
		}
		if resp.IsError() {
			lastErr = fmt.Errorf("%w: status %d (region code %q)", domain.ErrMarketAPIFailure, resp.StatusCode(), code)
			continue
		}

		entries, err := decodePrices(resp.Bytes())
		if err != nil {
			lastErr = err
			continue
		}
		return entries, nil
	}
	return nil, lastErr
}

// safeIDs filters blacklisted ids, dedupes, and sorts for stable batching.
func (c *Client) safeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	safe := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, banned := c.blacklist[id]; banned {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		safe = append(safe, id)
	}
	sort.Ints(safe)
	return safe
}

// regionCodes returns the casings to try, lowercase first. A region whose
// two casings coincide is tried once.
func regionCodes(region string) []string {
	lower := strings.ToLower(region)
	upper := strings.ToUpper(region)
	if lower == upper {
		return []string{lower}
	}
	return []string{lower, upper}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
