package ports

// FormHost defines the interface for a host feeding submissions into the
// pipeline
type FormHost interface {
	// Start starts the host
	Start() error

	// Stop stops the host
	Stop() error
}
