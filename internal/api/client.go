package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is the gateway to the remote library service. All state lives behind
// the API; the client never caches beyond the current call. Calls are not
// retried and carry no idempotency token, so a retried create can duplicate a
// record — callers surface failures instead of retrying silently.
type Client struct {
	baseURL string
	http    *http.Client

	// newRequestID stamps X-Request-ID; swapped in tests.
	newRequestID func() string
}

// New builds a Client for the service at baseURL (e.g. "http://localhost:8000/api").
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		newRequestID: uuid.NewString,
	}
}

func (c *Client) CreateBook(ctx context.Context, req CreateBookRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return Validationf("book name is required")
	}
	if req.CopyCount < 1 {
		return Validationf("number of copies must be at least 1")
	}
	return c.do(ctx, http.MethodPost, "/books", req, nil)
}

func (c *Client) GetBook(ctx context.Context, id int64) (Book, error) {
	var out Book
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), nil, &out)
	return out, err
}

func (c *Client) UpdateBook(ctx context.Context, id int64, req UpdateBookRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return Validationf("book name is required")
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d", id), req, nil)
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil)
}

// ListBooks returns the visible books table. search filters by name prefix
// server-side; empty returns everything.
func (c *Client) ListBooks(ctx context.Context, search string) ([]BookRow, error) {
	path := "/books"
	if s := strings.TrimSpace(search); s != "" {
		path += "?search=" + url.QueryEscape(s)
	}
	var out []BookRow
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateReader(ctx context.Context, req CreateReaderRequest) error {
	if strings.TrimSpace(req.Fio) == "" {
		return Validationf("reader name is required")
	}
	return c.do(ctx, http.MethodPost, "/readers", req, nil)
}

func (c *Client) GetReader(ctx context.Context, id int64) (Reader, error) {
	var out Reader
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/readers/%d", id), nil, &out)
	return out, err
}

func (c *Client) UpdateReader(ctx context.Context, id int64, req UpdateReaderRequest) error {
	if strings.TrimSpace(req.Fio) == "" {
		return Validationf("reader name is required")
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/readers/%d", id), req, nil)
}

func (c *Client) DeleteReader(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/readers/%d", id), nil, nil)
}

func (c *Client) ListReaders(ctx context.Context, search string) ([]ReaderRow, error) {
	path := "/readers"
	if s := strings.TrimSpace(search); s != "" {
		path += "?search=" + url.QueryEscape(s)
	}
	var out []ReaderRow
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) ListReaderLoans(ctx context.Context, readerID int64) (ReaderLoans, error) {
	var out ReaderLoans
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/readers/%d/loans", readerID), nil, &out)
	return out, err
}

// IssueLoan lends one available copy of the book to the named reader.
func (c *Client) IssueLoan(ctx context.Context, bookID int64, readerFio string, dueDate Date) (Loan, error) {
	var out Loan
	if strings.TrimSpace(readerFio) == "" {
		return out, Validationf("reader name is required")
	}
	if dueDate.IsZero() {
		return out, Validationf("due date is required")
	}
	req := IssueLoanRequest{ReaderFio: readerFio, DueDate: dueDate}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/books/%d/loan", bookID), req, &out)
	return out, err
}

// ReturnLoan marks the loan's copy as returned.
func (c *Client) ReturnLoan(ctx context.Context, loanID, bookItemID int64) error {
	req := ReturnLoanRequest{BookItemID: bookItemID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/loans/%d/return", loanID), req, nil)
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &out)
	return out, err
}

// do runs one request/response round trip. Non-2xx responses decode the
// server's {"detail": ...} body: 404 becomes NotFoundError, anything else
// RemoteError; a failure to reach the server at all becomes TransportError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", c.newRequestID())

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp)
		if resp.StatusCode == http.StatusNotFound {
			return &NotFoundError{Detail: detail}
		}
		return &RemoteError{Status: resp.StatusCode, Detail: detail}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeDetail extracts {"detail": ...}; any other body shape yields "".
func decodeDetail(resp *http.Response) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return payload.Detail
}
