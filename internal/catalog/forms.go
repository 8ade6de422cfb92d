package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
)

// Forms hold raw text exactly as typed. Parse converts them into typed wire
// requests, rejecting malformed numbers and dates before anything reaches the
// workflow or the network.

// BookForm is the add/edit book modal's content.
type BookForm struct {
	Name        string
	Authors     string // comma-separated
	Publisher   string
	ISBN        string
	ReleaseYear string
	Theme       string
	CopyCount   string // add only; ignored on edit
}

const (
	minReleaseYear = 1900
	maxReleaseYear = 2030
)

// ParseCreate validates the form for a create. CopyCount defaults to 1 when
// left blank, matching the server's own default.
func (f BookForm) ParseCreate() (api.CreateBookRequest, error) {
	update, err := f.ParseUpdate()
	if err != nil {
		return api.CreateBookRequest{}, err
	}
	copies := 1
	if raw := strings.TrimSpace(f.CopyCount); raw != "" {
		copies, err = strconv.Atoi(raw)
		if err != nil {
			return api.CreateBookRequest{}, api.Validationf("number of copies %q is not a number", raw)
		}
	}
	if copies < 1 {
		return api.CreateBookRequest{}, api.Validationf("number of copies must be at least 1")
	}
	return api.CreateBookRequest{
		Name:        update.Name,
		Authors:     update.Authors,
		Publisher:   update.Publisher,
		ISBN:        update.ISBN,
		ReleaseYear: update.ReleaseYear,
		Theme:       update.Theme,
		CopyCount:   copies,
	}, nil
}

// ParseUpdate validates the form for an edit.
func (f BookForm) ParseUpdate() (api.UpdateBookRequest, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return api.UpdateBookRequest{}, api.Validationf("book name is required")
	}
	year := 0
	if raw := strings.TrimSpace(f.ReleaseYear); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return api.UpdateBookRequest{}, api.Validationf("release year %q is not a number", raw)
		}
		if parsed < minReleaseYear || parsed > maxReleaseYear {
			return api.UpdateBookRequest{}, api.Validationf("release year must be between %d and %d", minReleaseYear, maxReleaseYear)
		}
		year = parsed
	}
	return api.UpdateBookRequest{
		Name:        name,
		Authors:     joinAuthors(f.Authors),
		Publisher:   strings.TrimSpace(f.Publisher),
		ISBN:        strings.TrimSpace(f.ISBN),
		ReleaseYear: year,
		Theme:       strings.TrimSpace(f.Theme),
	}, nil
}

// joinAuthors normalizes "a, b ,,c" into "a, b, c".
func joinAuthors(raw string) string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// BookFormFrom pre-fills the edit modal from a fetched record.
func BookFormFrom(b api.Book) BookForm {
	year := ""
	if b.ReleaseYear != 0 {
		year = strconv.Itoa(b.ReleaseYear)
	}
	return BookForm{
		Name:        b.Name,
		Authors:     b.Authors,
		Publisher:   b.Publisher,
		ISBN:        b.ISBN,
		ReleaseYear: year,
		Theme:       b.Theme,
	}
}

// ReaderForm is the add/edit reader modal's content.
type ReaderForm struct {
	Fio            string
	Position       string
	AcademicDegree string
}

// Parse validates the form for create or edit.
func (f ReaderForm) Parse() (api.CreateReaderRequest, error) {
	fio := strings.TrimSpace(f.Fio)
	if fio == "" {
		return api.CreateReaderRequest{}, api.Validationf("reader name is required")
	}
	return api.CreateReaderRequest{
		Fio:            fio,
		Position:       strings.TrimSpace(f.Position),
		AcademicDegree: strings.TrimSpace(f.AcademicDegree),
	}, nil
}

// ReaderFormFrom pre-fills the edit modal from a fetched record.
func ReaderFormFrom(r api.Reader) ReaderForm {
	return ReaderForm{Fio: r.Fio, Position: r.Position, AcademicDegree: r.AcademicDegree}
}

// ParseDueDate parses a loan due date typed as YYYY-MM-DD and checks it is no
// earlier than the day after "today".
func ParseDueDate(raw string, today time.Time) (api.Date, error) {
	due, err := api.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return api.Date{}, api.Validationf("due date %q is not a valid YYYY-MM-DD date", strings.TrimSpace(raw))
	}
	min := api.NewDate(today.AddDate(0, 0, 1))
	if due.Before(min.Time) {
		return api.Date{}, api.Validationf("due date must be %s or later", min)
	}
	return due, nil
}
