package pipeline

import (
	"context"
	"time"

	"github.com/NammaThalle/grocery-tracker/internal/entity"
	"github.com/NammaThalle/grocery-tracker/internal/llm"
)

// AgentInput is one inbound expense submission, already read off the
// transport.
type AgentInput struct {
	Text      string
	ImageData []byte
	ImageMIME string
	Fallback  time.Time
}

// Agent is one intake variant of the pipeline. Each agent knows how to
// turn its input shape into a model request; everything downstream is
// shared.
type Agent interface {
	Name() string
	Handle(ctx context.Context, in AgentInput) (*entity.Expense, entity.Diagnostics, error)
}

// ReceiptAgent processes receipt photos.
type ReceiptAgent struct {
	proc *Processor
}

func NewReceiptAgent(proc *Processor) *ReceiptAgent {
	return &ReceiptAgent{proc: proc}
}

func (a *ReceiptAgent) Name() string { return "receipt" }

func (a *ReceiptAgent) Handle(ctx context.Context, in AgentInput) (*entity.Expense, entity.Diagnostics, error) {
	req := llm.Request{
		Kind:      llm.KindReceiptImage,
		ImageData: in.ImageData,
		ImageMIME: in.ImageMIME,
	}
	return a.proc.Process(ctx, req, in.Fallback)
}

// TextAgent processes typed expense messages.
type TextAgent struct {
	proc *Processor
}

func NewTextAgent(proc *Processor) *TextAgent {
	return &TextAgent{proc: proc}
}

func (a *TextAgent) Name() string { return "text" }

func (a *TextAgent) Handle(ctx context.Context, in AgentInput) (*entity.Expense, entity.Diagnostics, error) {
	req := llm.Request{
		Kind: llm.KindFreeText,
		Text: in.Text,
	}
	return a.proc.Process(ctx, req, in.Fallback)
}
