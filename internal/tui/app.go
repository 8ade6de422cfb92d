package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/catalog"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/config"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/loan"
)

// Gateway is everything the UI needs from the remote library API.
type Gateway interface {
	catalog.Gateway
	loan.Gateway
	ListBooks(ctx context.Context, search string) ([]api.BookRow, error)
	ListReaders(ctx context.Context, search string) ([]api.ReaderRow, error)
	ListReaderLoans(ctx context.Context, readerID int64) (api.ReaderLoans, error)
	Stats(ctx context.Context) (api.Stats, error)
}

// App ties together views.
type App struct {
	ctx     context.Context
	gw      Gateway
	catalog *catalog.Controller
	cfg     config.Config
	keys    keyMap

	state appState
	modal modalState

	stats   api.Stats
	books   []api.BookRow
	readers []api.ReaderRow

	bookCursor   int
	readerCursor int
	status       string
	dateFormat   string

	filter        string
	filterEditing bool

	// context menu over the selected row
	menuItems  []menuItem
	menuCursor int

	// add/edit modal; editTarget is nil when adding
	form       []textField
	formCursor int
	editTarget *catalog.Selection

	// loan issue / return
	flow *loan.Workflow

	// reader loans modal
	loans      api.ReaderLoans
	loanCursor int
	loansOwner catalog.Selection

	deleteTarget catalog.Selection
}

type appState string

const (
	viewHome    appState = "home"
	viewBooks   appState = "books"
	viewReaders appState = "readers"
)

type modalState string

const (
	modalNone          modalState = ""
	modalMenu          modalState = "menu"
	modalBookForm      modalState = "bookForm"
	modalReaderForm    modalState = "readerForm"
	modalIssueForm     modalState = "issueForm"
	modalLoans         modalState = "loans"
	modalConfirmDelete modalState = "confirmDelete"
	modalConfirmReturn modalState = "confirmReturn"
)

func New(ctx context.Context, cfg config.Config, gw Gateway, ctrl *catalog.Controller) *App {
	return &App{
		ctx:        ctx,
		gw:         gw,
		catalog:    ctrl,
		cfg:        cfg,
		keys:       newKeyMap(),
		state:      viewHome,
		dateFormat: cfg.UI.DateFormat,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadStats(), a.loadBooks(""), a.loadReaders(""))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.filterEditing {
			return a.handleFilterKey(m)
		}
		return a.handleMainKey(m)

	case statsMsg:
		a.stats = api.Stats(m)
	case booksMsg:
		a.books = rankBooks([]api.BookRow(m), a.filter)
		if a.bookCursor >= len(a.books) {
			a.bookCursor = 0
		}
	case readersMsg:
		a.readers = rankReaders([]api.ReaderRow(m), a.filter)
		if a.readerCursor >= len(a.readers) {
			a.readerCursor = 0
		}
	case loansMsg:
		a.loans = api.ReaderLoans(m)
		if a.loanCursor >= len(a.loans.Loans) {
			a.loanCursor = 0
		}
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	case changedMsg:
		a.status = "done"
		return a, a.refetch(m.Changed)
	case editBookMsg:
		a.openBookForm(&m.sel, catalog.BookFormFrom(m.book))
	case editReaderMsg:
		a.openReaderForm(&m.sel, catalog.ReaderFormFrom(m.reader))
	case issuedMsg:
		a.closeModal()
		a.catalog.Selection().Clear()
		a.status = "issued: " + m.loan.BookName + " until " + m.loan.DueDate.String()
		return a, tea.Batch(a.loadBooks(a.filter), a.loadStats())
	case returnedMsg:
		a.status = "returned: " + m.loan.BookName
		a.modal = modalLoans
		return a, tea.Batch(a.loadLoans(a.loansOwner), a.loadBooks(a.filter), a.loadStats())
	}
	return a, nil
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewBooks:
		body = a.renderBooks()
	case viewReaders:
		body = a.renderReaders()
	default:
		body = a.renderHome()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

// refetch reloads exactly what a successful mutation touched.
func (a *App) refetch(ch catalog.Changed) tea.Cmd {
	switch ch.Kind {
	case catalog.KindBook:
		return tea.Batch(a.loadBooks(a.filter), a.loadStats())
	case catalog.KindReader:
		return tea.Batch(a.loadReaders(a.filter), a.loadStats())
	}
	return a.loadStats()
}

// commands
func (a *App) loadStats() tea.Cmd {
	return func() tea.Msg {
		st, err := a.gw.Stats(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return statsMsg(st)
	}
}

func (a *App) loadBooks(search string) tea.Cmd {
	return func() tea.Msg {
		list, err := a.gw.ListBooks(a.ctx, search)
		if err != nil {
			return errMsg{err}
		}
		return booksMsg(list)
	}
}

func (a *App) loadReaders(search string) tea.Cmd {
	return func() tea.Msg {
		list, err := a.gw.ListReaders(a.ctx, search)
		if err != nil {
			return errMsg{err}
		}
		return readersMsg(list)
	}
}

func (a *App) loadLoans(owner catalog.Selection) tea.Cmd {
	return func() tea.Msg {
		loans, err := a.gw.ListReaderLoans(a.ctx, owner.ID)
		if err != nil {
			return errMsg{err}
		}
		return loansMsg(loans)
	}
}

func (a *App) createBookCmd(form catalog.BookForm) tea.Cmd {
	return func() tea.Msg {
		ch, err := a.catalog.CreateBook(a.ctx, form)
		if err != nil {
			return errMsg{err}
		}
		return changedMsg{ch}
	}
}

func (a *App) startEditBookCmd() tea.Cmd {
	return func() tea.Msg {
		sel, book, err := a.catalog.StartEditBook(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return editBookMsg{sel: sel, book: book}
	}
}

func (a *App) submitEditBookCmd(sel catalog.Selection, form catalog.BookForm) tea.Cmd {
	return func() tea.Msg {
		ch, err := a.catalog.SubmitEditBook(a.ctx, sel, form)
		if err != nil {
			return errMsg{err}
		}
		return changedMsg{ch}
	}
}

func (a *App) createReaderCmd(form catalog.ReaderForm) tea.Cmd {
	return func() tea.Msg {
		ch, err := a.catalog.CreateReader(a.ctx, form)
		if err != nil {
			return errMsg{err}
		}
		return changedMsg{ch}
	}
}

func (a *App) startEditReaderCmd() tea.Cmd {
	return func() tea.Msg {
		sel, reader, err := a.catalog.StartEditReader(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return editReaderMsg{sel: sel, reader: reader}
	}
}

func (a *App) submitEditReaderCmd(sel catalog.Selection, form catalog.ReaderForm) tea.Cmd {
	return func() tea.Msg {
		ch, err := a.catalog.SubmitEditReader(a.ctx, sel, form)
		if err != nil {
			return errMsg{err}
		}
		return changedMsg{ch}
	}
}

func (a *App) confirmDeleteCmd(sel catalog.Selection) tea.Cmd {
	return func() tea.Msg {
		ch, err := a.catalog.ConfirmDelete(a.ctx, sel)
		if err != nil {
			return errMsg{err}
		}
		return changedMsg{ch}
	}
}

func (a *App) confirmIssueCmd(fio, dueRaw string) tea.Cmd {
	flow := a.flow
	return func() tea.Msg {
		due, err := api.ParseDate(dueRaw)
		if err != nil {
			return errMsg{api.Validationf("due date %q is not a valid YYYY-MM-DD date", dueRaw)}
		}
		issued, err := flow.ConfirmLoan(a.ctx, fio, due)
		if err != nil {
			return errMsg{err}
		}
		return issuedMsg{loan: issued}
	}
}

func (a *App) confirmReturnCmd() tea.Cmd {
	flow := a.flow
	return func() tea.Msg {
		if err := flow.ConfirmReturn(a.ctx); err != nil {
			return errMsg{err}
		}
		returned, _ := flow.Loan()
		return returnedMsg{loan: returned}
	}
}

// messages
type statsMsg api.Stats

type booksMsg []api.BookRow

type readersMsg []api.ReaderRow

type loansMsg api.ReaderLoans

type statusMsg string

type errMsg struct{ error }

type changedMsg struct {
	catalog.Changed
}

type editBookMsg struct {
	sel  catalog.Selection
	book api.Book
}

type editReaderMsg struct {
	sel    catalog.Selection
	reader api.Reader
}

type issuedMsg struct {
	loan api.Loan
}

type returnedMsg struct {
	loan api.Loan
}
