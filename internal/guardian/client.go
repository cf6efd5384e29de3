package guardian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/news-gateway/pkg/log"
)

// Поля, запрашиваемые у провайдера по умолчанию и при полном тексте.
const (
	fieldsDefault  = "headline,trailText,thumbnail"
	fieldsWithBody = "headline,trailText,bodyText,thumbnail"
)

// Client — HTTP-клиент поискового API провайдера.
// Таймаут задаётся переданным http.Client; повторов нет.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient создаёт клиент провайдера.
// При nil http.Client используется клиент с таймаутом 10 секунд.
func NewClient(client *http.Client, baseURL, apiKey string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Search выполняет один GET /search и распаковывает конверт ответа.
//
// Маппинг неуспеха в таксономию:
//   - дедлайн/сетевой таймаут -> ErrTimeout;
//   - прочие транспортные ошибки -> ErrUnreachable;
//   - 401/403 -> ErrAPIKeyInvalid; 429 -> ErrRateLimited;
//   - 5xx -> ErrServer; прочие не-200 -> ErrUpstream.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	const op = "guardian/client/Search"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(p), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.From(ctx).Warn("upstream_transport_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		if isTimeout(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrTimeout)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)

		log.From(ctx).Warn("upstream_bad_status",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)

		return nil, fmt.Errorf("%s: status=%d: %w", op, resp.StatusCode, errForStatus(resp.StatusCode))
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, ErrUpstream)
	}

	return &SearchResult{
		Total:   envelope.Response.Total,
		Results: envelope.Response.Results,
	}, nil
}

// searchURL собирает URL запроса; пустые параметры опускаются.
// Учётные данные добавляются к каждому вызову.
func (c *Client) searchURL(p SearchParams) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("page-size", strconv.Itoa(p.PageSize))
	q.Set("api-key", c.apiKey)

	if p.IncludeBody {
		q.Set("show-fields", fieldsWithBody)
	} else {
		q.Set("show-fields", fieldsDefault)
	}

	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Section != "" {
		q.Set("section", p.Section)
	}
	if p.IDs != "" {
		q.Set("ids", p.IDs)
	}
	if p.OrderBy != "" {
		q.Set("order-by", p.OrderBy)
	}
	if !p.Dates.From.IsZero() {
		q.Set("from-date", p.Dates.From.Format("2006-01-02"))
	}
	if !p.Dates.To.IsZero() {
		q.Set("to-date", p.Dates.To.Format("2006-01-02"))
	}

	return c.baseURL + "/search?" + q.Encode()
}

func errForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAPIKeyInvalid
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	default:
		return ErrUpstream
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
