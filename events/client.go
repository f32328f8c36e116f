package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/chaptertools/herald"
)

// pageSize is the number of events requested per page; a page shorter
// than this is the upstream's only end-of-data signal.
const pageSize = 100

const defaultTimeout = 30 * time.Second

// UpstreamError is returned when the events API answers a page request
// with a non-success status.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("events api returned %d: %s", e.Status, e.Body)
}

type LoggerFn func(string, ...interface{})

type Config struct {
	URL   string
	Token string
	LogFn LoggerFn
	ErrFn LoggerFn
}

type Client struct {
	req   *resty.Client
	logFn LoggerFn
	errFn LoggerFn
}

func New(c Config) *Client {
	if c.LogFn == nil {
		c.LogFn = func(string, ...interface{}) {}
	}
	if c.ErrFn == nil {
		c.ErrFn = func(string, ...interface{}) {}
	}
	return &Client{
		req: resty.New().
			SetBaseURL(c.URL).
			SetAuthToken(c.Token).
			SetTimeout(defaultTimeout),
		logFn: c.LogFn,
		errFn: c.ErrFn,
	}
}

type pagedResponse struct {
	Data herald.Events `json:"data"`
}

// FetchAll walks every page of events belonging to scopeID and returns
// their union. Pagination stops at the first page shorter than pageSize;
// when the true last page is exactly full this costs one extra request
// that comes back empty and stops the walk the same way. Pages are
// requested strictly one after another.
func (cl *Client) FetchAll(ctx context.Context, scopeID int) (herald.Events, error) {
	all := make(herald.Events, 0, pageSize)
	for page := 1; ; page++ {
		res := pagedResponse{}
		resp, err := cl.req.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"scope_id":   strconv.Itoa(scopeID),
				"scope_type": "Chapter",
				"_limit":     strconv.Itoa(pageSize),
				"_page":      strconv.Itoa(page),
			}).
			SetResult(&res).
			Get("/v1/events")
		if err != nil {
			return nil, fmt.Errorf("unable to load events page %d: %w", page, err)
		}
		if resp.IsError() {
			cl.errFn("page %d failed with status %d", page, resp.StatusCode())
			return nil, &UpstreamError{Status: resp.StatusCode(), Body: string(resp.Body())}
		}
		cl.logFn("page %d: %d events", page, len(res.Data))
		all = append(all, res.Data...)
		if len(res.Data) < pageSize {
			break
		}
	}
	return all, nil
}
