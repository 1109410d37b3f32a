package tokenstore

// NullStore is the explicit no-storage mode: every operation is a no-op
// and nothing is ever considered persisted.
type NullStore struct{}

// NewNullStore creates a store that never persists anything.
func NewNullStore() NullStore { return NullStore{} }

func (NullStore) SetToken(string)  {}
func (NullStore) Token() string    { return "" }
func (NullStore) SetMarker()       {}
func (NullStore) ReadMarker() bool { return false }
func (NullStore) Clear()           {}
