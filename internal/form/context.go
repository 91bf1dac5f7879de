package form

import (
	"sync"

	"github.com/rodrigoasouza93/cep-form/internal/storage"
)

// Context is one form page: its fields, its visibility flags and the
// client-local store it persists lookups to. Handlers of the Controller
// receive it explicitly.
type Context struct {
	mu     sync.Mutex
	fields Fields
	ui     UIState
	store  storage.Store
}

func NewContext(store storage.Store) *Context {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	return &Context{store: store}
}

// Snapshot is a consistent copy of a Context.
type Snapshot struct {
	Fields         Fields
	LoaderVisible  bool
	MessageVisible bool
	OverlayVisible bool
	Message        string
	LoaderShows    int
	LoaderHides    int
}

func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Fields:         c.fields,
		LoaderVisible:  c.ui.Loader.Visible(),
		MessageVisible: c.ui.Message.Visible(),
		OverlayVisible: c.ui.Overlay(),
		Message:        c.ui.Text,
		LoaderShows:    c.ui.Loader.Shows(),
		LoaderHides:    c.ui.Loader.Hides(),
	}
}

// SetFields replaces the field values, as a user editing the inputs would.
func (c *Context) SetFields(f Fields) {
	c.update(func(c *Context) { c.fields = f })
}

func (c *Context) update(fn func(c *Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}
