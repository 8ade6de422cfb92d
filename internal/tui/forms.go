package tui

import (
	"strconv"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/catalog"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/loan"
)

// textField is one line of a modal form.
type textField struct {
	label string
	value string
}

func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func (a *App) openBookForm(target *catalog.Selection, form catalog.BookForm) {
	fields := []textField{
		{label: "Name", value: form.Name},
		{label: "Authors (comma-separated)", value: form.Authors},
		{label: "Publisher", value: form.Publisher},
		{label: "ISBN", value: form.ISBN},
		{label: "Release year", value: form.ReleaseYear},
		{label: "Theme", value: form.Theme},
	}
	if target == nil {
		fields = append(fields, textField{label: "Copies", value: form.CopyCount})
	}
	a.form = fields
	a.formCursor = 0
	a.editTarget = target
	a.modal = modalBookForm
	a.status = ""
}

func (a *App) openReaderForm(target *catalog.Selection, form catalog.ReaderForm) {
	a.form = []textField{
		{label: "Full name", value: form.Fio},
		{label: "Position", value: form.Position},
		{label: "Academic degree", value: form.AcademicDegree},
	}
	a.formCursor = 0
	a.editTarget = target
	a.modal = modalReaderForm
	a.status = ""
}

func (a *App) openIssueForm(draft loan.IssueDraft) {
	a.form = []textField{
		{label: "Reader full name"},
		{label: "Due date (YYYY-MM-DD)", value: draft.DueDefault.String()},
	}
	a.formCursor = 0
	a.modal = modalIssueForm
	a.status = ""
}

func (a *App) bookFormValues() catalog.BookForm {
	form := catalog.BookForm{
		Name:        a.form[0].value,
		Authors:     a.form[1].value,
		Publisher:   a.form[2].value,
		ISBN:        a.form[3].value,
		ReleaseYear: a.form[4].value,
		Theme:       a.form[5].value,
	}
	if len(a.form) > 6 {
		form.CopyCount = a.form[6].value
	}
	return form
}

func (a *App) readerFormValues() catalog.ReaderForm {
	return catalog.ReaderForm{
		Fio:            a.form[0].value,
		Position:       a.form[1].value,
		AcademicDegree: a.form[2].value,
	}
}

func yearLabel(year int) string {
	if year == 0 {
		return "-"
	}
	return strconv.Itoa(year)
}
