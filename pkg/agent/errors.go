// Package agent holds the shared vocabulary of the support-agent pipeline:
// error taxonomy, trace identifiers and the response types exchanged between
// the retriever, tool layer, orchestrator and metrics recorder.
package agent

import "errors"

// Pipeline error taxonomy. Validation and permission errors are resolved at
// the component boundary where they occur and folded into the response;
// only backend unavailability after retries is fatal to a request.
var (
	ErrUnauthorized      = errors.New("missing or invalid caller identity")
	ErrForbidden         = errors.New("role does not permit this operation")
	ErrValidation        = errors.New("invalid arguments")
	ErrRetrievalDegraded = errors.New("knowledge retrieval unavailable")
	ErrToolExecution     = errors.New("tool execution failed")
	ErrModelUnavailable  = errors.New("language model unavailable")
)
