package api

import (
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// Date is a calendar date as the server speaks it: a YYYY-MM-DD string on the
// wire, midnight UTC in memory. The zero Date marshals as null.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateFormat) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Book is the full record returned by GET /books/{id}. Authors arrive as a
// single comma-separated string; AuthorList splits it.
type Book struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Authors     string `json:"authors"`
	Publisher   string `json:"publisher"`
	ISBN        string `json:"isbn"`
	ReleaseYear int    `json:"release_date"`
	Theme       string `json:"theme"`
}

// AuthorList returns the ordered author names, dropping empty segments.
func (b Book) AuthorList() []string {
	var out []string
	for _, part := range strings.Split(b.Authors, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// BookRow is one row of the books listing, including the available-copy
// aggregate the server computes.
type BookRow struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Theme          string `json:"theme"`
	Publisher      string `json:"publisher"`
	ReleaseYear    int    `json:"release_date"`
	ISBN           string `json:"isbn"`
	AvailableCount int    `json:"available_book_count"`
}

// CreateBookRequest is the POST /books body. CopyCount controls how many
// lendable copies the server creates alongside the title.
type CreateBookRequest struct {
	Name        string `json:"book_name"`
	Authors     string `json:"authors"`
	Publisher   string `json:"publisher"`
	ISBN        string `json:"isbn"`
	ReleaseYear int    `json:"release_date,omitempty"`
	Theme       string `json:"theme"`
	CopyCount   int    `json:"number_of_books"`
}

// UpdateBookRequest is the PUT /books/{id} body. Copy counts are not
// editable after creation.
type UpdateBookRequest struct {
	Name        string `json:"book_name"`
	Authors     string `json:"authors"`
	Publisher   string `json:"publisher"`
	ISBN        string `json:"isbn"`
	ReleaseYear int    `json:"release_date,omitempty"`
	Theme       string `json:"theme"`
}

// Reader is the record returned by GET /readers/{id}.
type Reader struct {
	ID             int64  `json:"id"`
	Fio            string `json:"fio"`
	Position       string `json:"dolzhnost"`
	AcademicDegree string `json:"uchenaya_stepen"`
}

// ReaderRow is one row of the readers listing.
type ReaderRow struct {
	ID             int64  `json:"id"`
	Fio            string `json:"fio"`
	Position       string `json:"dolzhnost"`
	AcademicDegree string `json:"uchenaya_stepen"`
	ActiveLoans    int    `json:"active_loans"`
}

// CreateReaderRequest is the POST /readers body; UpdateReaderRequest shares
// the shape for PUT /readers/{id}.
type CreateReaderRequest struct {
	Fio            string `json:"fio"`
	Position       string `json:"dolzhnost"`
	AcademicDegree string `json:"uchenaya_stepen"`
}

type UpdateReaderRequest = CreateReaderRequest

// Loan is one loan record. ReturnDate is nil while the copy is out.
type Loan struct {
	LoanID     int64  `json:"loan_id"`
	BookItemID int64  `json:"book_item_id"`
	BookName   string `json:"book_name,omitempty"`
	ReaderID   int64  `json:"reader_id,omitempty"`
	LoanDate   Date   `json:"loan_date"`
	DueDate    Date   `json:"loan_due_date"`
	ReturnDate *Date  `json:"loan_return_date,omitempty"`
	Status     string `json:"status,omitempty"`
}

// ReaderLoans is the GET /readers/{id}/loans payload.
type ReaderLoans struct {
	ReaderFio string `json:"reader_fio"`
	Loans     []Loan `json:"loans"`
}

// IssueLoanRequest is the POST /books/{id}/loan body.
type IssueLoanRequest struct {
	ReaderFio string `json:"reader_fio"`
	DueDate   Date   `json:"loan_due_date"`
}

// ReturnLoanRequest is the POST /loans/{id}/return body.
type ReturnLoanRequest struct {
	BookItemID int64 `json:"book_item_id"`
}

// Stats are the homepage counters.
type Stats struct {
	TotalBooks     int `json:"total_books"`
	TotalAvailable int `json:"total_available"`
	TotalReaders   int `json:"total_readers"`
	ActiveLoans    int `json:"active_loans"`
}
