package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/catalog"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/loan"
)

type menuAction string

const (
	menuEdit   menuAction = "edit"
	menuDelete menuAction = "delete"
	menuIssue  menuAction = "issue"
	menuLoans  menuAction = "loans"
)

type menuItem struct {
	label  string
	action menuAction
}

func (a *App) handleMainKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.NextTab):
		a.nextTab()
	case key.Matches(m, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(m, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(m, a.keys.Add):
		switch a.state {
		case viewBooks:
			a.openBookForm(nil, catalog.BookForm{})
		case viewReaders:
			a.openReaderForm(nil, catalog.ReaderForm{})
		}
	case key.Matches(m, a.keys.Open):
		a.openMenu()
	case key.Matches(m, a.keys.Filter):
		if a.state != viewHome {
			a.filterEditing = true
			a.status = ""
		}
	case key.Matches(m, a.keys.Refresh):
		a.status = "refreshing..."
		return a, tea.Batch(a.loadStats(), a.loadBooks(a.filter), a.loadReaders(a.filter))
	}
	switch m.String() {
	case "1":
		a.state = viewHome
	case "2":
		a.state = viewBooks
	case "3":
		a.state = viewReaders
	case "esc":
		if a.filter != "" {
			a.filter = ""
			return a, tea.Batch(a.loadBooks(""), a.loadReaders(""))
		}
	}
	return a, nil
}

func (a *App) nextTab() {
	switch a.state {
	case viewHome:
		a.state = viewBooks
	case viewBooks:
		a.state = viewReaders
	default:
		a.state = viewHome
	}
}

func (a *App) moveCursor(delta int) {
	switch a.state {
	case viewBooks:
		a.bookCursor = clamp(a.bookCursor+delta, len(a.books))
	case viewReaders:
		a.readerCursor = clamp(a.readerCursor+delta, len(a.readers))
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n && n > 0 {
		return n - 1
	}
	if n == 0 {
		return 0
	}
	return i
}

func (a *App) handleFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.filterEditing = false
		a.filter = ""
		return a, tea.Batch(a.loadBooks(""), a.loadReaders(""))
	case tea.KeyEnter:
		a.filterEditing = false
		return a, tea.Batch(a.loadBooks(a.filter), a.loadReaders(a.filter))
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		a.filter = trimLastRune(a.filter)
	case tea.KeySpace:
		a.filter += " "
	case tea.KeyRunes:
		a.filter += string(m.Runes)
	}
	return a, nil
}

// openMenu writes the row under the cursor into the selection slot and shows
// the per-kind action menu.
func (a *App) openMenu() {
	switch a.state {
	case viewBooks:
		if len(a.books) == 0 {
			a.status = "no books"
			return
		}
		row := a.books[a.bookCursor]
		a.catalog.Selection().Select(catalog.Selection{ID: row.ID, Kind: catalog.KindBook, DisplayName: row.Name})
		a.menuItems = []menuItem{
			{label: "Issue loan", action: menuIssue},
			{label: "Edit", action: menuEdit},
			{label: "Delete", action: menuDelete},
		}
	case viewReaders:
		if len(a.readers) == 0 {
			a.status = "no readers"
			return
		}
		row := a.readers[a.readerCursor]
		a.catalog.Selection().Select(catalog.Selection{ID: row.ID, Kind: catalog.KindReader, DisplayName: row.Fio})
		a.menuItems = []menuItem{
			{label: "Loans", action: menuLoans},
			{label: "Edit", action: menuEdit},
			{label: "Delete", action: menuDelete},
		}
	default:
		return
	}
	a.menuCursor = 0
	a.modal = modalMenu
}

// closeModal dismisses whatever overlay is open and drops the selection: a
// dismissed menu or form must not leave a stale target behind.
func (a *App) closeModal() {
	a.modal = modalNone
	a.menuItems = nil
	a.form = nil
	a.editTarget = nil
	a.catalog.Selection().Clear()
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalMenu:
		return a.handleMenuKey(m)
	case modalBookForm, modalReaderForm, modalIssueForm:
		return a.handleFormKey(m)
	case modalLoans:
		return a.handleLoansKey(m)
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y", "enter":
			sel := a.deleteTarget
			a.closeModal()
			a.status = "deleting " + sel.DisplayName + "..."
			return a, a.confirmDeleteCmd(sel)
		case "n", "N", "esc":
			a.closeModal()
			a.status = "delete cancelled"
		}
	case modalConfirmReturn:
		switch m.String() {
		case "y", "Y", "enter":
			if a.flow.InFlight() {
				a.status = "error: return is already being submitted"
				return a, nil
			}
			a.modal = modalLoans
			return a, a.confirmReturnCmd()
		case "n", "N", "esc":
			a.flow.Cancel()
			a.modal = modalLoans
		}
	}
	return a, nil
}

func (a *App) handleMenuKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.closeModal()
	case "up", "k":
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case "down", "j":
		if a.menuCursor < len(a.menuItems)-1 {
			a.menuCursor++
		}
	case "enter":
		if len(a.menuItems) == 0 {
			a.closeModal()
			return a, nil
		}
		return a.runMenuAction(a.menuItems[a.menuCursor].action)
	}
	return a, nil
}

func (a *App) runMenuAction(action menuAction) (tea.Model, tea.Cmd) {
	switch action {
	case menuEdit:
		sel, ok := a.catalog.Selection().Current()
		if !ok {
			a.closeModal()
			return a, nil
		}
		a.modal = modalNone
		a.menuItems = nil
		a.status = "loading " + sel.DisplayName + "..."
		if sel.Kind == catalog.KindBook {
			return a, a.startEditBookCmd()
		}
		return a, a.startEditReaderCmd()
	case menuDelete:
		sel, err := a.catalog.BeginDelete()
		if err != nil {
			a.closeModal()
			a.status = "error: " + err.Error()
			return a, nil
		}
		a.deleteTarget = sel
		a.menuItems = nil
		a.modal = modalConfirmDelete
	case menuIssue:
		sel, ok := a.catalog.Selection().Current()
		if !ok {
			a.closeModal()
			return a, nil
		}
		a.flow = loan.New(a.gw)
		a.flow.SetPeriodDays(a.cfg.Loan.PeriodDays)
		draft, err := a.flow.RequestLoan(sel)
		if err != nil {
			a.closeModal()
			a.status = "error: " + err.Error()
			return a, nil
		}
		a.menuItems = nil
		a.openIssueForm(draft)
	case menuLoans:
		sel, ok := a.catalog.Selection().Current()
		if !ok {
			a.closeModal()
			return a, nil
		}
		a.loansOwner = sel
		a.loanCursor = 0
		a.menuItems = nil
		a.modal = modalLoans
		return a, a.loadLoans(sel)
	}
	return a, nil
}

func (a *App) handleLoansKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc", "q":
		a.closeModal()
	case "up", "k":
		if a.loanCursor > 0 {
			a.loanCursor--
		}
	case "down", "j":
		if a.loanCursor < len(a.loans.Loans)-1 {
			a.loanCursor++
		}
	case "enter":
		if len(a.loans.Loans) == 0 {
			return a, nil
		}
		l := a.loans.Loans[a.loanCursor]
		if l.ReturnDate != nil && !l.ReturnDate.IsZero() {
			a.status = "loan is already closed"
			return a, nil
		}
		a.flow = loan.Resume(a.gw, l)
		if err := a.flow.RequestReturn(l.LoanID, l.BookItemID); err != nil {
			a.status = "error: " + err.Error()
			return a, nil
		}
		a.modal = modalConfirmReturn
	}
	return a, nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		if a.modal == modalIssueForm && a.flow != nil {
			a.flow.Cancel()
		}
		a.closeModal()
		a.status = ""
		return a, nil
	case tea.KeyUp, tea.KeyShiftTab:
		if a.formCursor > 0 {
			a.formCursor--
		}
		return a, nil
	case tea.KeyDown, tea.KeyTab:
		if a.formCursor < len(a.form)-1 {
			a.formCursor++
		}
		return a, nil
	case tea.KeyEnter:
		return a.submitForm()
	case tea.KeyBackspace, tea.KeyCtrlH:
		f := &a.form[a.formCursor]
		f.value = trimLastRune(f.value)
		return a, nil
	case tea.KeySpace:
		a.form[a.formCursor].value += " "
		return a, nil
	case tea.KeyRunes:
		a.form[a.formCursor].value += string(m.Runes)
		return a, nil
	}
	return a, nil
}

func (a *App) submitForm() (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalBookForm:
		form := a.bookFormValues()
		if a.editTarget != nil {
			sel := *a.editTarget
			if a.catalog.InFlight(sel) {
				a.status = "error: another operation on " + sel.DisplayName + " is still in progress"
				return a, nil
			}
			a.closeModal()
			a.status = "saving..."
			return a, a.submitEditBookCmd(sel, form)
		}
		a.closeModal()
		a.status = "saving..."
		return a, a.createBookCmd(form)
	case modalReaderForm:
		form := a.readerFormValues()
		if a.editTarget != nil {
			sel := *a.editTarget
			if a.catalog.InFlight(sel) {
				a.status = "error: another operation on " + sel.DisplayName + " is still in progress"
				return a, nil
			}
			a.closeModal()
			a.status = "saving..."
			return a, a.submitEditReaderCmd(sel, form)
		}
		a.closeModal()
		a.status = "saving..."
		return a, a.createReaderCmd(form)
	case modalIssueForm:
		if a.flow.InFlight() {
			a.status = "error: issue is already being submitted"
			return a, nil
		}
		fio := strings.TrimSpace(a.form[0].value)
		due := strings.TrimSpace(a.form[1].value)
		a.status = "issuing..."
		return a, a.confirmIssueCmd(fio, due)
	}
	return a, nil
}
