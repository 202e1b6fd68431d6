package file

import (
	"encoding/json"
	"io"

	"github.com/samber/mo"
)

// ExtractionResult is the single JSON document written per extraction.
// Exactly one of Text and Error is meaningful, selected by Success.
type ExtractionResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewResult converts a pipeline outcome into its wire form.
func NewResult(res mo.Result[string]) *ExtractionResult {
	if res.IsError() {
		return &ExtractionResult{
			Success: false,
			Error:   res.Error().Error(),
		}
	}

	return &ExtractionResult{
		Success: true,
		Text:    res.MustGet(),
	}
}

// MarshalJSON always emits "text" on success, even when empty, and only
// "error" on failure.
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Text    string `json:"text"`
		}{true, r.Text})
	}

	return json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, r.Error})
}

// WriteResult writes result as one line of JSON.
func WriteResult(w io.Writer, result *ExtractionResult) error {
	return json.NewEncoder(w).Encode(result)
}
