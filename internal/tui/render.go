package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/loan"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	activeStyle = lipgloss.NewStyle().Bold(true)
)

func (a *App) renderTabs() string {
	labels := []struct {
		state appState
		text  string
	}{
		{viewHome, "[1] Home"},
		{viewBooks, "[2] Books"},
		{viewReaders, "[3] Readers"},
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.state == a.state {
			parts = append(parts, activeStyle.Render(l.text))
		} else {
			parts = append(parts, dimStyle.Render(l.text))
		}
	}
	return strings.Join(parts, "  ")
}

func (a *App) renderHome() string {
	title := titleStyle.Render("Academic Library")
	body := fmt.Sprintf(
		"Books: %d titles (%d copies available)\nReaders: %d\nActive loans: %d",
		a.stats.TotalBooks, a.stats.TotalAvailable,
		a.stats.TotalReaders, a.stats.ActiveLoans,
	)
	out := fmt.Sprintf("%s\n%s\n\n%s\n%s", title, a.renderTabs(), body, a.helpLine())
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderBooks() string {
	title := titleStyle.Render("Books")
	out := title + "\n" + a.renderTabs() + "\n" + a.renderFilter() + "\n"
	out += dimStyle.Render(fmt.Sprintf("  %-4s %-36s %-20s %-20s %-6s %s", "ID", "Name", "Theme", "Publisher", "Year", "Avail")) + "\n"
	for i, b := range a.books {
		marker := " "
		if i == a.bookCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-4d %-36s %-20s %-20s %-6s %d\n",
			marker, b.ID, truncate(b.Name, 36), truncate(b.Theme, 20), truncate(b.Publisher, 20), yearLabel(b.ReleaseYear), b.AvailableCount)
	}
	if len(a.books) == 0 {
		out += "  (no books)\n"
	}
	out += a.helpLine()
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderReaders() string {
	title := titleStyle.Render("Readers")
	out := title + "\n" + a.renderTabs() + "\n" + a.renderFilter() + "\n"
	out += dimStyle.Render(fmt.Sprintf("  %-4s %-32s %-24s %-20s %s", "ID", "Full name", "Position", "Degree", "Loans")) + "\n"
	for i, r := range a.readers {
		marker := " "
		if i == a.readerCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-4d %-32s %-24s %-20s %d\n",
			marker, r.ID, truncate(r.Fio, 32), truncate(r.Position, 24), truncate(r.AcademicDegree, 20), r.ActiveLoans)
	}
	if len(a.readers) == 0 {
		out += "  (no readers)\n"
	}
	out += a.helpLine()
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderFilter() string {
	if a.filterEditing {
		return fmt.Sprintf("Filter: %s█  [enter] Apply  [esc] Clear", a.filter)
	}
	if a.filter != "" {
		return fmt.Sprintf("Filter: %s  [esc] Clear", a.filter)
	}
	return ""
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalMenu:
		sel, _ := a.catalog.Selection().Current()
		out := titleStyle.Render(sel.DisplayName) + "\n"
		for i, item := range a.menuItems {
			marker := " "
			if i == a.menuCursor {
				marker = "▶"
			}
			out += fmt.Sprintf("%s %s\n", marker, item.label)
		}
		out += "[enter] Select  [esc] Cancel"
		return out
	case modalBookForm:
		if a.editTarget != nil {
			return a.renderForm("Edit book")
		}
		return a.renderForm("New book")
	case modalReaderForm:
		if a.editTarget != nil {
			return a.renderForm("Edit reader")
		}
		return a.renderForm("New reader")
	case modalIssueForm:
		sel, _ := a.catalog.Selection().Current()
		return a.renderForm("Issue: " + sel.DisplayName)
	case modalLoans:
		return a.renderLoans()
	case modalConfirmDelete:
		return titleStyle.Render(fmt.Sprintf("Delete %s?", a.deleteTarget.DisplayName)) + "\nThis cannot be undone.\n[y] Yes  [n] No"
	case modalConfirmReturn:
		l, _ := a.flow.Loan()
		return titleStyle.Render(fmt.Sprintf("Return %q?", l.BookName)) + "\n[y] Yes  [n] No"
	default:
		return ""
	}
}

func (a *App) renderForm(title string) string {
	out := titleStyle.Render(title) + "\n"
	for i, f := range a.form {
		marker := " "
		value := f.value
		if i == a.formCursor {
			marker = "▶"
			value += "█"
		}
		out += fmt.Sprintf("%s %-26s %s\n", marker, f.label+":", value)
	}
	out += "[enter] Save  [tab] Next field  [esc] Cancel"
	return out
}

func (a *App) renderLoans() string {
	out := titleStyle.Render("Loans: "+a.loans.ReaderFio) + "\n"
	if len(a.loans.Loans) == 0 {
		out += "  (no loans)\n"
	}
	today := time.Now()
	for i, l := range a.loans.Loans {
		marker := " "
		if i == a.loanCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-36s %-12s %-12s %-12s %s\n",
			marker, truncate(l.BookName, 36), a.fmtDate(l.LoanDate), a.fmtDate(l.DueDate), a.fmtDatePtr(l.ReturnDate), loan.StatusOf(l, today))
	}
	out += "[enter] Return  [esc] Close"
	return out
}

func (a *App) fmtDate(d api.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Time.Format(a.dateFormat)
}

func (a *App) fmtDatePtr(d *api.Date) string {
	if d == nil {
		return "-"
	}
	return a.fmtDate(*d)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
