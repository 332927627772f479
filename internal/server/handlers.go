package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NammaThalle/grocery-tracker/internal/async"
	"github.com/NammaThalle/grocery-tracker/internal/common"
	"github.com/NammaThalle/grocery-tracker/internal/entity"
	"github.com/NammaThalle/grocery-tracker/internal/llm"
	"github.com/NammaThalle/grocery-tracker/internal/pipeline"
)

const maxImageBytes = 10 << 20

// Exporter produces XLSX bytes for a date window.
type Exporter interface {
	ExportXLSX(ctx context.Context, from, to *time.Time) ([]byte, error)
}

// ExpenseHandler serves the expense intake and export endpoints.
// Intake runs synchronously by default; async=true hands the job to
// the queue and returns a trace id instead.
type ExpenseHandler struct {
	textAgent    pipeline.Agent
	receiptAgent pipeline.Agent
	exporter     Exporter
	queue        async.Queue
	logger       *slog.Logger
	loc          *time.Location
}

func NewExpenseHandler(textAgent, receiptAgent pipeline.Agent, exporter Exporter, queue async.Queue, loc *time.Location, logger *slog.Logger) *ExpenseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ExpenseHandler{
		textAgent:    textAgent,
		receiptAgent: receiptAgent,
		exporter:     exporter,
		queue:        queue,
		logger:       logger,
		loc:          loc,
	}
}

type expenseResponse struct {
	Expense     *entity.Expense    `json:"expense"`
	Diagnostics entity.Diagnostics `json:"diagnostics"`
}

// POST /v1/expenses/text
func (h *ExpenseHandler) CreateFromText() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Text string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
			return
		}

		if h.wantsAsync(c) {
			h.enqueue(c, llm.Request{Kind: llm.KindFreeText, Text: body.Text})
			return
		}

		exp, diags, err := h.textAgent.Handle(c.Request.Context(), pipeline.AgentInput{
			Text:     body.Text,
			Fallback: time.Now().In(h.loc),
		})
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, expenseResponse{Expense: exp, Diagnostics: diags})
	}
}

// POST /v1/expenses/receipt
func (h *ExpenseHandler) CreateFromReceipt() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return
		}
		if len(data) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is empty"})
			return
		}
		if len(data) > maxImageBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds size limit"})
			return
		}

		if h.wantsAsync(c) {
			h.enqueue(c, llm.Request{
				Kind:      llm.KindReceiptImage,
				ImageData: data,
				ImageMIME: header.Header.Get("Content-Type"),
			})
			return
		}

		exp, diags, err := h.receiptAgent.Handle(c.Request.Context(), pipeline.AgentInput{
			ImageData: data,
			ImageMIME: header.Header.Get("Content-Type"),
			Fallback:  time.Now().In(h.loc),
		})
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, expenseResponse{Expense: exp, Diagnostics: diags})
	}
}

// GET /v1/expenses/export?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ExpenseHandler) Export() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.exporter == nil {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "archive is not configured"})
			return
		}

		from, err := parseDateParam(c.Query("from"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date, want YYYY-MM-DD"})
			return
		}
		to, err := parseDateParam(c.Query("to"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date, want YYYY-MM-DD"})
			return
		}

		data, err := h.exporter.ExportXLSX(c.Request.Context(), from, to)
		if err != nil {
			h.writeError(c, err)
			return
		}

		filename := fmt.Sprintf("expenses-%s.xlsx", time.Now().In(h.loc).Format("20060102"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}

// GET /health
func (h *ExpenseHandler) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (h *ExpenseHandler) wantsAsync(c *gin.Context) bool {
	return h.queue != nil && (c.Query("async") == "true" || c.Query("async") == "1")
}

func (h *ExpenseHandler) enqueue(c *gin.Context, req llm.Request) {
	now := time.Now().In(h.loc)
	traceID := uuid.New().String()
	if err := h.queue.Enqueue(c.Request.Context(), async.Job{
		Request:     req,
		Fallback:    now,
		SubmittedAt: now,
		TraceID:     traceID,
	}); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"trace_id": traceID})
}

func (h *ExpenseHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrMalformedResponse):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "model response could not be parsed", "code": "MALFORMED_RESPONSE"})
	case errors.Is(err, common.ErrEmptyExpense):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no valid items found", "code": "EMPTY_EXPENSE"})
	case errors.Is(err, common.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_INPUT"})
	default:
		h.logger.Error("server.internal_error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "INTERNAL"})
	}
}

func parseDateParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
