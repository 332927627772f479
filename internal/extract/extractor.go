package extract

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/NammaThalle/grocery-tracker/internal/common"
)

var errNoPayload = errors.New("no JSON object found in response")

// Extractor recovers a structurally valid expense payload from raw
// model output. It either returns a payload or fails deterministically;
// it never silently drops items.
type Extractor struct {
	logger  *slog.Logger
	repairs []RepairPass
	schema  *compiledSchema
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		logger:  logger,
		repairs: DefaultRepairPasses(),
		schema:  mustCompileSchema(BuildExpensePayloadSchema()),
	}
}

// Extract parses arbitrary model text into a Payload. Markdown fences
// and surrounding prose are stripped, then a strict parse is attempted,
// then the repair passes run in order until one yields valid JSON.
func (e *Extractor) Extract(raw string) (*Payload, error) {
	cleaned := StripFences(raw)
	doc, ok := braceSpan(cleaned)
	if !ok {
		return nil, &common.MalformedResponseError{RawText: raw, Cause: errNoPayload}
	}

	valid, pass, err := e.repairLoop(doc)
	if err != nil {
		e.logger.Warn("extract.unrepairable", "error", err, "bytes", len(raw))
		return nil, &common.MalformedResponseError{RawText: raw, Cause: err}
	}
	if pass != "" {
		e.logger.Info("extract.repaired", "pass", pass)
	}

	if err := e.schema.validate([]byte(valid)); err != nil {
		return nil, &common.MalformedResponseError{RawText: raw, Cause: err}
	}

	var p Payload
	if err := json.Unmarshal([]byte(valid), &p); err != nil {
		return nil, &common.MalformedResponseError{RawText: raw, Cause: err}
	}
	return &p, nil
}

// repairLoop attempts a strict parse, then applies repair passes
// cumulatively, re-parsing after each. Returns the first parseable text
// and the name of the last pass applied ("" if none was needed).
func (e *Extractor) repairLoop(doc string) (string, string, error) {
	var probe any
	err := json.Unmarshal([]byte(doc), &probe)
	if err == nil {
		return doc, "", nil
	}
	repaired := doc
	for _, pass := range e.repairs {
		repaired = pass.Apply(repaired)
		if jerr := json.Unmarshal([]byte(repaired), &probe); jerr == nil {
			return repaired, pass.Name, nil
		}
	}
	return "", "", err
}

// knownPrefixes are conversational lead-ins models wrap payloads in.
var knownPrefixes = []string{
	"Here is the JSON:",
	"Here's the JSON:",
	"JSON:",
	"Result:",
	"Output:",
}

// StripFences removes markdown code-fence markers and known
// conversational prefixes around a payload.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
		}
	}
	return text
}

// braceSpan locates the outermost balanced object span, discarding
// leading and trailing prose. Falls back to first-{..last-} when the
// braces never balance (a repair pass may still fix the inside).
func braceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	end := strings.LastIndexByte(text, '}')
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
