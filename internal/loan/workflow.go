package loan

import (
	"context"
	"sync"
	"time"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
	"github.com/af2233/DB-Course-Work-Academic-Library/internal/catalog"
)

// Gateway is the slice of the API the loan workflow needs.
type Gateway interface {
	IssueLoan(ctx context.Context, bookID int64, readerFio string, dueDate api.Date) (api.Loan, error)
	ReturnLoan(ctx context.Context, loanID, bookItemID int64) error
}

// State of one (copy, loan) pair as the workflow walks it.
type State int

const (
	StateAvailable State = iota
	StateAwaitingIssue
	StateOnLoan
	StateAwaitingReturn
	StateReturned
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateAwaitingIssue:
		return "awaiting issue confirmation"
	case StateOnLoan:
		return "on loan"
	case StateAwaitingReturn:
		return "awaiting return confirmation"
	case StateReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// DefaultLoanDays is the pre-filled loan period.
const DefaultLoanDays = 14

// IssueDraft is the pending, not yet submitted issue form: which book, the
// suggested due date and the earliest date the user may pick.
type IssueDraft struct {
	Book       catalog.Selection
	DueDefault api.Date
	DueMin     api.Date
}

// Workflow drives one loan through issue and return. Every failed submission
// reverts to the pre-transition state so the user can retry or cancel; the
// pair is never left in an intermediate state client-side. Confirmations run
// on command goroutines, so state sits behind a mutex and a pending
// submission rejects a second one before any network call.
type Workflow struct {
	gw     Gateway
	now    func() time.Time
	period int // loan period in days, pre-filled into the draft

	mu       sync.Mutex
	inflight bool
	state    State
	draft    IssueDraft
	loan     *api.Loan
}

func New(gw Gateway) *Workflow {
	return &Workflow{gw: gw, now: time.Now, period: DefaultLoanDays}
}

// SetPeriodDays overrides the configured loan period; non-positive values are
// ignored.
func (w *Workflow) SetPeriodDays(days int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if days > 0 {
		w.period = days
	}
}

// Resume picks up an already-issued loan (fetched from the server) in the
// OnLoan state, so a return can be driven for it.
func Resume(gw Gateway, l api.Loan) *Workflow {
	w := New(gw)
	w.loan = &l
	w.state = StateOnLoan
	return w
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// InFlight reports whether a confirmation is currently being submitted; the
// UI uses it to refuse a re-submit.
func (w *Workflow) InFlight() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inflight
}

// Loan returns the loan record the workflow currently tracks.
func (w *Workflow) Loan() (api.Loan, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loan == nil {
		return api.Loan{}, false
	}
	return *w.loan, true
}

// CopyAvailable reports whether the tracked copy is lendable again.
func (w *Workflow) CopyAvailable() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == StateAvailable || w.state == StateReturned
}

// RequestLoan starts issuing the selected book: Available → AwaitingIssue.
// The selection is the caller's snapshot; it must reference a book.
func (w *Workflow) RequestLoan(sel catalog.Selection) (IssueDraft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateAvailable {
		return IssueDraft{}, api.Validationf("cannot issue: copy is %s", w.state)
	}
	if sel.Kind != catalog.KindBook || sel.ID == 0 {
		return IssueDraft{}, api.Validationf("no book is selected")
	}
	today := w.now()
	w.draft = IssueDraft{
		Book:       sel,
		DueDefault: api.NewDate(today.AddDate(0, 0, w.period)),
		DueMin:     api.NewDate(today.AddDate(0, 0, 1)),
	}
	w.state = StateAwaitingIssue
	return w.draft, nil
}

// ConfirmLoan submits the issue: AwaitingIssue → OnLoan. The due date must be
// tomorrow or later. On failure the workflow stays in AwaitingIssue and the
// error carries the server's detail verbatim. A second confirm while one is
// pending is rejected before any network call, so a double press cannot
// issue two loans.
func (w *Workflow) ConfirmLoan(ctx context.Context, readerFio string, dueDate api.Date) (api.Loan, error) {
	w.mu.Lock()
	if w.state != StateAwaitingIssue {
		w.mu.Unlock()
		return api.Loan{}, api.Validationf("no issue is pending")
	}
	if w.inflight {
		w.mu.Unlock()
		return api.Loan{}, api.Validationf("issue is already being submitted")
	}
	if readerFio == "" {
		w.mu.Unlock()
		return api.Loan{}, api.Validationf("reader name is required")
	}
	min := api.NewDate(w.now().AddDate(0, 0, 1))
	if dueDate.IsZero() || dueDate.Before(min.Time) {
		w.mu.Unlock()
		return api.Loan{}, api.Validationf("due date must be %s or later", min)
	}
	w.inflight = true
	bookID := w.draft.Book.ID
	w.mu.Unlock()

	created, err := w.gw.IssueLoan(ctx, bookID, readerFio, dueDate)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inflight = false
	if err != nil {
		return api.Loan{}, err
	}
	if created.LoanDate.IsZero() {
		created.LoanDate = api.NewDate(w.now())
	}
	if created.DueDate.IsZero() {
		created.DueDate = dueDate
	}
	w.loan = &created
	w.draft = IssueDraft{}
	w.state = StateOnLoan
	return created, nil
}

// RequestReturn asks to return the copy: OnLoan → AwaitingReturn. Nothing is
// submitted until ConfirmReturn; the yes/no gate in between is deliberate.
func (w *Workflow) RequestReturn(loanID, bookItemID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateOnLoan {
		return api.Validationf("cannot return: copy is %s", w.state)
	}
	if w.loan != nil && w.loan.LoanID != 0 && w.loan.LoanID != loanID {
		return api.Validationf("loan %d is not the one being tracked", loanID)
	}
	if w.loan == nil {
		w.loan = &api.Loan{LoanID: loanID, BookItemID: bookItemID}
	}
	w.state = StateAwaitingReturn
	return nil
}

// ConfirmReturn submits the return: AwaitingReturn → Returned, and the copy
// becomes available again. On failure the workflow reverts to OnLoan and the
// loan record is untouched. Like ConfirmLoan, a pending submission rejects a
// second one before the network.
func (w *Workflow) ConfirmReturn(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateAwaitingReturn {
		w.mu.Unlock()
		return api.Validationf("no return is pending")
	}
	if w.inflight {
		w.mu.Unlock()
		return api.Validationf("return is already being submitted")
	}
	w.inflight = true
	loanID, bookItemID := w.loan.LoanID, w.loan.BookItemID
	w.mu.Unlock()

	err := w.gw.ReturnLoan(ctx, loanID, bookItemID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inflight = false
	if err != nil {
		w.state = StateOnLoan
		return err
	}
	returned := api.NewDate(w.now())
	w.loan.ReturnDate = &returned
	w.state = StateReturned
	return nil
}

// Cancel discards pending unsaved input, stepping an Awaiting state back to
// its predecessor. It never touches the network and is a no-op elsewhere,
// including while a submission is in flight (a sent request cannot be
// unsent; the pending confirm settles the state).
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inflight {
		return
	}
	switch w.state {
	case StateAwaitingIssue:
		w.draft = IssueDraft{}
		w.state = StateAvailable
	case StateAwaitingReturn:
		w.state = StateOnLoan
	}
}
