package async

import (
	"context"
	"time"

	"github.com/NammaThalle/grocery-tracker/internal/llm"
)

// Job is one queued expense submission. Fallback is the date to use
// when the model answer carries none, typically the submission time.
type Job struct {
	Request     llm.Request
	Fallback    time.Time
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
