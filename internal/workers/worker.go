package workers

// Worker is a long-running background task owned by the Manager.
type Worker interface {
	// Start launches the worker. It must not block.
	Start() error

	// Stop gracefully stops the worker.
	Stop()

	// Name identifies the worker in logs.
	Name() string
}
