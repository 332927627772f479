package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NammaThalle/grocery-tracker/internal/cache"
	"github.com/NammaThalle/grocery-tracker/internal/entity"
	"github.com/NammaThalle/grocery-tracker/internal/expense"
	"github.com/NammaThalle/grocery-tracker/internal/extract"
	"github.com/NammaThalle/grocery-tracker/internal/llm"
)

// Appender is any sink that persists a finished expense. Sinks are
// independent; one failing does not stop the others.
type Appender interface {
	AppendExpense(ctx context.Context, e *entity.Expense) error
}

// Processor coordinates transcribe, extract, and assemble, then fans
// the finished expense out to the configured sinks.
type Processor struct {
	logger      *slog.Logger
	transcriber llm.Transcriber
	extractor   *extract.Extractor
	assembler   *expense.Assembler
	responses   *cache.ResponseCache
	model       string
	sinks       []Appender
}

func NewProcessor(
	logger *slog.Logger,
	transcriber llm.Transcriber,
	extractor *extract.Extractor,
	assembler *expense.Assembler,
	responses *cache.ResponseCache,
	model string,
	sinks ...Appender,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:      logger,
		transcriber: transcriber,
		extractor:   extractor,
		assembler:   assembler,
		responses:   responses,
		model:       model,
		sinks:       sinks,
	}
}

// Process runs the full path: model call (through the response cache),
// tolerant extraction, assembly, and sink fan-out. The fallback date is
// used when the transcript carries no parseable date.
func (p *Processor) Process(ctx context.Context, req llm.Request, fallback time.Time) (*entity.Expense, entity.Diagnostics, error) {
	start := time.Now()

	raw, err := p.transcribe(ctx, req)
	if err != nil {
		return nil, entity.Diagnostics{}, fmt.Errorf("transcribe: %w", err)
	}

	exp, diags, err := p.ProcessRaw(ctx, raw, fallback)
	if err != nil {
		return nil, diags, err
	}

	p.logger.Info("pipeline.processed",
		"kind", string(req.Kind),
		"items", len(exp.Items),
		"dropped", diags.DroppedItems,
		"grand_total", exp.GrandTotal,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return exp, diags, nil
}

// ProcessRaw runs extraction and assembly on an already-obtained model
// answer, then appends to the sinks. Batch replays use this path to
// skip the model call entirely.
func (p *Processor) ProcessRaw(ctx context.Context, raw string, fallback time.Time) (*entity.Expense, entity.Diagnostics, error) {
	payload, err := p.extractor.Extract(raw)
	if err != nil {
		return nil, entity.Diagnostics{}, err
	}

	in := expense.Input{
		Items:      payload.Items,
		DateString: payload.Date,
		Fallback:   fallback,
		StoreName:  payload.Store,
	}
	if payload.Total != nil {
		t := float64(*payload.Total)
		in.AssertedTotal = &t
	} else if payload.Subtotal != nil {
		t := float64(*payload.Subtotal)
		in.AssertedTotal = &t
	}

	exp, diags, err := p.assembler.Assemble(in)
	if err != nil {
		return nil, diags, err
	}

	p.appendAll(ctx, exp)
	return exp, diags, nil
}

func (p *Processor) transcribe(ctx context.Context, req llm.Request) (string, error) {
	input := req.ImageData
	if req.Kind == llm.KindFreeText {
		input = []byte(req.Text)
	}
	key := cache.Key(p.model, input)

	if p.responses != nil {
		if cached, ok, err := p.responses.Get(key); err != nil {
			p.logger.Warn("pipeline.cache_read_error", "error", err)
		} else if ok {
			p.logger.Info("pipeline.cache_hit", "kind", string(req.Kind))
			return cached, nil
		}
	}

	raw, err := p.transcriber.Transcribe(ctx, req)
	if err != nil {
		return "", err
	}

	if p.responses != nil {
		if err := p.responses.Put(key, string(req.Kind), p.model, raw); err != nil {
			p.logger.Warn("pipeline.cache_write_error", "error", err)
		}
	}
	return raw, nil
}

func (p *Processor) appendAll(ctx context.Context, exp *entity.Expense) {
	for _, sink := range p.sinks {
		if err := sink.AppendExpense(ctx, exp); err != nil {
			p.logger.Error("pipeline.sink_failed", "sink", fmt.Sprintf("%T", sink), "error", err)
		}
	}
}
