package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(srv.URL, time.Second)
	c.newRequestID = func() string { return "test-request" }
	return c
}

func TestIssueLoanSendsRequest(t *testing.T) {
	var gotPath, gotRequestID string
	var gotBody IssueLoanRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(Loan{LoanID: 41, BookItemID: 9, BookName: "Война и мир", LoanDate: mustDate(t, "2025-01-06"), DueDate: mustDate(t, "2025-01-20")})
	})

	due := mustDate(t, "2025-01-20")
	loan, err := c.IssueLoan(context.Background(), 7, "Иванов И.И.", due)
	if err != nil {
		t.Fatalf("IssueLoan: %v", err)
	}
	if gotPath != "POST /books/7/loan" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotRequestID != "test-request" {
		t.Fatalf("X-Request-ID = %q", gotRequestID)
	}
	if gotBody.ReaderFio != "Иванов И.И." || gotBody.DueDate.String() != "2025-01-20" {
		t.Fatalf("body = %+v", gotBody)
	}
	if loan.LoanID != 41 || loan.BookName != "Война и мир" {
		t.Fatalf("loan = %+v", loan)
	}
	if loan.ReturnDate != nil {
		t.Fatalf("fresh loan has return date %v", loan.ReturnDate)
	}
}

func TestIssueLoanValidatesBeforeNetwork(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	_, err := c.IssueLoan(context.Background(), 7, "", mustDate(t, "2025-01-20"))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if calls != 0 {
		t.Fatalf("server was called %d times", calls)
	}
}

func TestGetBookNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "book not found"})
	})

	_, err := c.GetBook(context.Background(), 99)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	if nf.Detail != "book not found" {
		t.Fatalf("detail = %q", nf.Detail)
	}
}

func TestRemoteErrorKeepsDetailVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "already returned"})
	})

	err := c.ReturnLoan(context.Background(), 41, 9)
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if re.Status != http.StatusBadRequest {
		t.Fatalf("status = %d", re.Status)
	}
	if re.Error() != "already returned" {
		t.Fatalf("message = %q, want server detail verbatim", re.Error())
	}
}

func TestRemoteErrorWithoutDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.DeleteBook(context.Background(), 1)
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if re.Error() != "server error (http 500)" {
		t.Fatalf("message = %q", re.Error())
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, time.Second)
	c.newRequestID = func() string { return "test-request" }

	_, err := c.ListBooks(context.Background(), "")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestListBooksSearchParam(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search")
		json.NewEncoder(w).Encode([]BookRow{{ID: 1, Name: "Война и мир"}})
	})

	rows, err := c.ListBooks(context.Background(), "Война и мир")
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if gotQuery != "Война и мир" {
		t.Fatalf("search = %q", gotQuery)
	}
	if len(rows) != 1 || rows[0].Name != "Война и мир" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	raw := `{"loan_id":1,"book_item_id":2,"loan_date":"2025-01-06","loan_due_date":"2025-01-20","loan_return_date":null}`
	var l Loan
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.LoanDate.String() != "2025-01-06" || l.DueDate.String() != "2025-01-20" {
		t.Fatalf("dates = %s / %s", l.LoanDate, l.DueDate)
	}
	if l.ReturnDate != nil {
		t.Fatalf("return date = %v, want nil", l.ReturnDate)
	}
}

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}
