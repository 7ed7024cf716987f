package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/domain/models"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/utils"
)

// PaymentTimeout is the budget for the payment rail, which redirects the
// user to their bank and is far slower than the booking API.
const PaymentTimeout = 90 * time.Second

// Client talks to the carrier booking API. All methods honor the passed
// context; transport failures and non-2xx statuses come back as
// domain.UpstreamError.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// CreateSearch starts a trip search and returns its id for polling.
func (c *Client) CreateSearch(ctx context.Context, req models.SearchRequest) (string, error) {
	var created createdResponse
	if err := c.doJSON(ctx, http.MethodPost, "/search", req, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", domain.UpstreamError{Op: "create search", Err: fmt.Errorf("empty search id")}
	}
	return created.ID, nil
}

// GetSearch fetches the current snapshot of a running search.
func (c *Client) GetSearch(ctx context.Context, searchID string) (models.SearchResult, error) {
	var result models.SearchResult
	err := c.doJSON(ctx, http.MethodGet, "/search/"+searchID, nil, &result)
	return result, err
}

// CreateDetailsRequest starts the remote seat-map computation for a trip.
func (c *Client) CreateDetailsRequest(ctx context.Context, tripID string) (string, error) {
	var created createdResponse
	path := fmt.Sprintf("/trips/%s/details_requests", tripID)
	if err := c.doJSON(ctx, http.MethodPost, path, struct{}{}, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", domain.UpstreamError{Op: "create details request", Err: fmt.Errorf("empty request id")}
	}
	return created.ID, nil
}

// GetDetailsRequest polls one details computation.
func (c *Client) GetDetailsRequest(ctx context.Context, tripID, requestID string) (DetailsJobStatus, error) {
	var status DetailsJobStatus
	path := fmt.Sprintf("/trips/%s/details_requests/%s", tripID, requestID)
	err := c.doJSON(ctx, http.MethodGet, path, nil, &status)
	return status, err
}

// CreatePSEPayment asks the payment rail for a bank redirect URL. Business
// failures arrive inside a 200 body, not as HTTP errors.
func (c *Client) CreatePSEPayment(ctx context.Context, req PSERequest) (PSEResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, PaymentTimeout)
	defer cancel()

	var resp PSEResponse
	err := c.doJSON(ctx, http.MethodPost, "/payments/pse", req, &resp)
	return resp, err
}

// NotifyBooking posts the confirmation webhook. Callers fire and forget;
// errors are logged here and swallowed.
func (c *Client) NotifyBooking(ctx context.Context, n BookingNotification) {
	if err := c.doJSON(ctx, http.MethodPost, "/notifications/bookings", n, nil); err != nil {
		utils.LogEvent("", "upstream", "notify", "booking webhook failed: "+err.Error())
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return domain.InternalError{Msg: "encode " + op, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return domain.InternalError{Msg: "build " + op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.UpstreamError{Op: op, Status: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.UpstreamError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}
