package library

// Source provides the cursor categories and images offered to the user.
// Dir implements this interface. Tests can provide mock implementations.
type Source interface {
	Categories() ([]Category, error)
	Cursors(category Category) ([]Cursor, error)
}
