package llm

import "context"

// Kind selects the transcription mode.
type Kind string

const (
	// KindReceiptImage sends a receipt photo for line-item extraction.
	KindReceiptImage Kind = "receipt_image"
	// KindFreeText sends a typed expense message like "apples 2kg 120".
	KindFreeText Kind = "free_text"
)

// Request carries one transcription job. Exactly one of Text or
// ImageData is set, according to Kind.
type Request struct {
	Kind      Kind
	Text      string
	ImageData []byte
	ImageMIME string
}

// Transcriber turns a receipt image or a free-text message into the
// model's raw textual answer. Callers own the parsing of that answer;
// the transcriber makes no promise about its shape.
type Transcriber interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}
