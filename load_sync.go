package loadwhatever

// LoadSync reads and parses the file at path on the calling goroutine.
// A script producer that returns a *script.Pending fails with
// *AsyncNotSupportedError without being awaited.
func LoadSync(path string, opts ...Option) (any, error) {
	return load(path, false, opts)
}
