package localstorage

// Storage is the string key/value persistence contract the client state is
// written through. It mirrors the web storage surface: synchronous reads,
// best-effort writes, values are opaque serialized strings.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key string, value string) error
	RemoveItem(key string) error
}
