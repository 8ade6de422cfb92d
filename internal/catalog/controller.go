package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
)

// Gateway is the slice of the API the catalog needs.
type Gateway interface {
	CreateBook(ctx context.Context, req api.CreateBookRequest) error
	GetBook(ctx context.Context, id int64) (api.Book, error)
	UpdateBook(ctx context.Context, id int64, req api.UpdateBookRequest) error
	DeleteBook(ctx context.Context, id int64) error
	CreateReader(ctx context.Context, req api.CreateReaderRequest) error
	GetReader(ctx context.Context, id int64) (api.Reader, error)
	UpdateReader(ctx context.Context, id int64, req api.UpdateReaderRequest) error
	DeleteReader(ctx context.Context, id int64) error
}

// Changed names what a successful mutation touched, so the presentation layer
// can refetch exactly that much. ID is zero for creates.
type Changed struct {
	Kind Kind
	ID   int64
}

// Controller orchestrates add/edit/delete for books and readers. Mutations
// are fire-and-confirm: nothing is updated locally, the caller refetches
// after a Changed result. A per-entity in-flight guard rejects a second
// mutation on an entity whose previous one has not come back yet.
type Controller struct {
	gw  Gateway
	sel *SelectionContext

	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(gw Gateway, sel *SelectionContext) *Controller {
	return &Controller{gw: gw, sel: sel, inflight: make(map[string]struct{})}
}

// Selection returns the shared selection slot (for the context menu to write).
func (c *Controller) Selection() *SelectionContext { return c.sel }

// snapshot reads the selection once and checks its kind.
func (c *Controller) snapshot(want Kind) (Selection, error) {
	sel, ok := c.sel.Current()
	if !ok {
		return Selection{}, api.Validationf("nothing is selected")
	}
	if sel.Kind != want {
		return Selection{}, api.Validationf("selected item is a %s, not a %s", sel.Kind, want)
	}
	return sel, nil
}

func entityKey(sel Selection) string { return fmt.Sprintf("%s/%d", sel.Kind, sel.ID) }

// begin marks sel busy; it fails if a mutation on the same entity is already
// in flight, before any network call is made.
func (c *Controller) begin(sel Selection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := entityKey(sel)
	if _, busy := c.inflight[key]; busy {
		return api.Validationf("another operation on %q is still in progress", sel.DisplayName)
	}
	c.inflight[key] = struct{}{}
	return nil
}

func (c *Controller) end(sel Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, entityKey(sel))
}

// InFlight reports whether a mutation on the entity is pending; the UI uses
// it to disable the triggering control.
func (c *Controller) InFlight(sel Selection) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.inflight[entityKey(sel)]
	return busy
}

func (c *Controller) CreateBook(ctx context.Context, form BookForm) (Changed, error) {
	req, err := form.ParseCreate()
	if err != nil {
		return Changed{}, err
	}
	if err := c.gw.CreateBook(ctx, req); err != nil {
		return Changed{}, err
	}
	return Changed{Kind: KindBook}, nil
}

// StartEditBook snapshots the selection and fetches the full record to
// pre-fill the edit form. A stale selection surfaces as NotFoundError.
func (c *Controller) StartEditBook(ctx context.Context) (Selection, api.Book, error) {
	sel, err := c.snapshot(KindBook)
	if err != nil {
		return Selection{}, api.Book{}, err
	}
	book, err := c.gw.GetBook(ctx, sel.ID)
	if err != nil {
		return Selection{}, api.Book{}, err
	}
	return sel, book, nil
}

func (c *Controller) SubmitEditBook(ctx context.Context, sel Selection, form BookForm) (Changed, error) {
	req, err := form.ParseUpdate()
	if err != nil {
		return Changed{}, err
	}
	if err := c.begin(sel); err != nil {
		return Changed{}, err
	}
	defer c.end(sel)
	if err := c.gw.UpdateBook(ctx, sel.ID, req); err != nil {
		return Changed{}, err
	}
	return Changed{Kind: KindBook, ID: sel.ID}, nil
}

func (c *Controller) CreateReader(ctx context.Context, form ReaderForm) (Changed, error) {
	req, err := form.Parse()
	if err != nil {
		return Changed{}, err
	}
	if err := c.gw.CreateReader(ctx, req); err != nil {
		return Changed{}, err
	}
	return Changed{Kind: KindReader}, nil
}

func (c *Controller) StartEditReader(ctx context.Context) (Selection, api.Reader, error) {
	sel, err := c.snapshot(KindReader)
	if err != nil {
		return Selection{}, api.Reader{}, err
	}
	reader, err := c.gw.GetReader(ctx, sel.ID)
	if err != nil {
		return Selection{}, api.Reader{}, err
	}
	return sel, reader, nil
}

func (c *Controller) SubmitEditReader(ctx context.Context, sel Selection, form ReaderForm) (Changed, error) {
	req, err := form.Parse()
	if err != nil {
		return Changed{}, err
	}
	if err := c.begin(sel); err != nil {
		return Changed{}, err
	}
	defer c.end(sel)
	if err := c.gw.UpdateReader(ctx, sel.ID, req); err != nil {
		return Changed{}, err
	}
	return Changed{Kind: KindReader, ID: sel.ID}, nil
}

// BeginDelete snapshots the selection for the confirmation gate. No network
// call happens until ConfirmDelete; the gate is not skippable.
func (c *Controller) BeginDelete() (Selection, error) {
	sel, ok := c.sel.Current()
	if !ok {
		return Selection{}, api.Validationf("nothing is selected")
	}
	return sel, nil
}

// ConfirmDelete performs the delete the user confirmed. On success the
// selection is cleared (it points at a record that no longer exists).
func (c *Controller) ConfirmDelete(ctx context.Context, sel Selection) (Changed, error) {
	if err := c.begin(sel); err != nil {
		return Changed{}, err
	}
	defer c.end(sel)

	var err error
	switch sel.Kind {
	case KindBook:
		err = c.gw.DeleteBook(ctx, sel.ID)
	case KindReader:
		err = c.gw.DeleteReader(ctx, sel.ID)
	default:
		return Changed{}, api.Validationf("unknown selection kind %q", sel.Kind)
	}
	if err != nil {
		return Changed{}, err
	}
	// only drop the selection if it still points at the deleted record; the
	// user may have selected something else while the delete was in flight
	if cur, ok := c.sel.Current(); ok && cur.Kind == sel.Kind && cur.ID == sel.ID {
		c.sel.Clear()
	}
	return Changed{Kind: sel.Kind, ID: sel.ID}, nil
}
