package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/catalog"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/config"
)

type stubGateway struct {
	deletes int
}

func (g *stubGateway) CreateBook(ctx context.Context, req api.CreateBookRequest) error { return nil }
func (g *stubGateway) GetBook(ctx context.Context, id int64) (api.Book, error) {
	return api.Book{ID: id, Name: "Война и мир"}, nil
}
func (g *stubGateway) UpdateBook(ctx context.Context, id int64, req api.UpdateBookRequest) error {
	return nil
}
func (g *stubGateway) DeleteBook(ctx context.Context, id int64) error {
	g.deletes++
	return nil
}
func (g *stubGateway) CreateReader(ctx context.Context, req api.CreateReaderRequest) error {
	return nil
}
func (g *stubGateway) GetReader(ctx context.Context, id int64) (api.Reader, error) {
	return api.Reader{ID: id}, nil
}
func (g *stubGateway) UpdateReader(ctx context.Context, id int64, req api.UpdateReaderRequest) error {
	return nil
}
func (g *stubGateway) DeleteReader(ctx context.Context, id int64) error {
	g.deletes++
	return nil
}
func (g *stubGateway) ListBooks(ctx context.Context, search string) ([]api.BookRow, error) {
	return nil, nil
}
func (g *stubGateway) ListReaders(ctx context.Context, search string) ([]api.ReaderRow, error) {
	return nil, nil
}
func (g *stubGateway) ListReaderLoans(ctx context.Context, readerID int64) (api.ReaderLoans, error) {
	return api.ReaderLoans{}, nil
}
func (g *stubGateway) IssueLoan(ctx context.Context, bookID int64, readerFio string, dueDate api.Date) (api.Loan, error) {
	return api.Loan{}, nil
}
func (g *stubGateway) ReturnLoan(ctx context.Context, loanID, bookItemID int64) error { return nil }
func (g *stubGateway) Stats(ctx context.Context) (api.Stats, error)                   { return api.Stats{}, nil }

func newTestApp(gw Gateway) *App {
	ctrl := catalog.New(gw, &catalog.SelectionContext{})
	cfg := config.Config{UI: config.UIConfig{DateFormat: "02.01.2006"}}
	a := New(context.Background(), cfg, gw, ctrl)
	a.state = viewBooks
	a.books = []api.BookRow{{ID: 7, Name: "Война и мир", AvailableCount: 2}}
	return a
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuSelectsRowAndEscClears(t *testing.T) {
	a := newTestApp(&stubGateway{})

	a.openMenu()
	if a.modal != modalMenu {
		t.Fatalf("modal = %q", a.modal)
	}
	sel, ok := a.catalog.Selection().Current()
	if !ok || sel.ID != 7 || sel.Kind != catalog.KindBook {
		t.Fatalf("selection = %+v ok=%v", sel, ok)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.modal != modalNone {
		t.Fatalf("modal still open")
	}
	if _, ok := a.catalog.Selection().Current(); ok {
		t.Fatalf("selection survived dismissal")
	}
}

func TestIssueMenuOpensPrefilledForm(t *testing.T) {
	a := newTestApp(&stubGateway{})
	a.openMenu()

	if _, _ = a.runMenuAction(menuIssue); a.modal != modalIssueForm {
		t.Fatalf("modal = %q", a.modal)
	}
	wantDue := api.NewDate(time.Now().AddDate(0, 0, 14)).String()
	if a.form[1].value != wantDue {
		t.Fatalf("due field = %q, want %q", a.form[1].value, wantDue)
	}
	if a.form[0].value != "" {
		t.Fatalf("reader field prefilled: %q", a.form[0].value)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	gw := &stubGateway{}
	a := newTestApp(gw)
	a.openMenu()

	a.runMenuAction(menuDelete)
	if a.modal != modalConfirmDelete {
		t.Fatalf("modal = %q", a.modal)
	}
	if gw.deletes != 0 {
		t.Fatalf("delete ran before confirmation")
	}

	a.Update(keyRunes("n"))
	if a.modal != modalNone {
		t.Fatalf("modal still open after decline")
	}
	if gw.deletes != 0 {
		t.Fatalf("declined delete still ran")
	}
}

func TestConfirmedDeleteRuns(t *testing.T) {
	gw := &stubGateway{}
	a := newTestApp(gw)
	a.openMenu()
	a.runMenuAction(menuDelete)

	_, cmd := a.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatalf("no command issued on confirm")
	}
	msg := cmd()
	if _, ok := msg.(changedMsg); !ok {
		t.Fatalf("msg = %T, want changedMsg", msg)
	}
	if gw.deletes != 1 {
		t.Fatalf("deletes = %d", gw.deletes)
	}
}

type blockingGateway struct {
	stubGateway
	block   chan struct{}
	entered chan struct{}
}

func (g *blockingGateway) IssueLoan(ctx context.Context, bookID int64, readerFio string, dueDate api.Date) (api.Loan, error) {
	close(g.entered)
	<-g.block
	return api.Loan{LoanID: 41, BookName: "Война и мир", DueDate: dueDate}, nil
}

func TestIssueFormRefusesResubmitWhilePending(t *testing.T) {
	gw := &blockingGateway{block: make(chan struct{}), entered: make(chan struct{})}
	a := newTestApp(gw)
	a.openMenu()
	a.runMenuAction(menuIssue)
	a.form[0].value = "Иванов И.И."

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("no command issued on submit")
	}
	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()
	<-gw.entered

	// the form is still open; a second enter must not dispatch again
	_, cmd2 := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd2 != nil {
		t.Fatalf("second enter dispatched another submission")
	}

	close(gw.block)
	if msg := <-msgs; msg == nil {
		t.Fatalf("first submission produced no message")
	} else if _, ok := msg.(issuedMsg); !ok {
		t.Fatalf("msg = %T, want issuedMsg", msg)
	}
}

func TestBookFormValueMapping(t *testing.T) {
	a := newTestApp(&stubGateway{})
	a.openBookForm(nil, catalog.BookForm{})
	if len(a.form) != 7 {
		t.Fatalf("add form has %d fields", len(a.form))
	}
	a.form[0].value = "Война и мир"
	a.form[1].value = "Л. Толстой"
	a.form[4].value = "1869"
	a.form[6].value = "3"

	form := a.bookFormValues()
	if form.Name != "Война и мир" || form.Authors != "Л. Толстой" || form.ReleaseYear != "1869" || form.CopyCount != "3" {
		t.Fatalf("form = %+v", form)
	}

	// the edit form has no copies field
	sel := catalog.Selection{ID: 7, Kind: catalog.KindBook}
	a.openBookForm(&sel, catalog.BookForm{Name: "Война и мир"})
	if len(a.form) != 6 {
		t.Fatalf("edit form has %d fields", len(a.form))
	}
}
