package extract

// BuildExpensePayloadSchema returns the structural JSON-Schema the
// recovered payload must satisfy: a non-empty item list where every
// item carries a name. Anything finer-grained (prices, quantities) is
// normalization's job, so additional properties stay open.
func BuildExpensePayloadSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"store": map[string]any{"type": "string"},
			"date":  map[string]any{"type": "string"},
			"items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"name"},
					"properties": map[string]any{
						"name": map[string]any{"type": "string", "minLength": 1},
					},
				},
			},
		},
		"required": []string{"items"},
	}
}
