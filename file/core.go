package file

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	processor "pdftext/process"

	"github.com/samber/mo"
	"go.uber.org/zap"
)

// Core runs the decode and extraction stages for one document.
type Core struct {
	pdf    *processor.Client
	logger *zap.Logger
}

// NewCore creates a new Core instance with the required dependencies
func NewCore(pdf *processor.Client, logger *zap.Logger) *Core {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Core{
		pdf:    pdf,
		logger: logger,
	}
}

// Extract decodes a base64 payload and extracts the text of the PDF it holds.
func (c *Core) Extract(payload string) mo.Result[string] {
	data, err := DecodePayload(payload)
	if err != nil {
		c.logger.Debug("Payload decoding failed", zap.Error(err))
		return mo.Err[string](err)
	}

	return c.ExtractBytes(data)
}

// ExtractBytes extracts the text of raw PDF bytes.
func (c *Core) ExtractBytes(data []byte) mo.Result[string] {
	c.logger.Debug("Extracting PDF", zap.Int("bytes", len(data)))

	text, err := c.pdf.ExtractText(data)
	res := mo.TupleToResult(text, err)
	if res.IsError() {
		c.logger.Debug("PDF extraction failed", zap.Error(res.Error()))
	}
	return res
}

// ExtractReader extracts the text of raw PDF bytes read from r.
func (c *Core) ExtractReader(r io.Reader) mo.Result[string] {
	text, err := c.pdf.ExtractTextFromReader(r)
	res := mo.TupleToResult(text, err)
	if res.IsError() {
		c.logger.Debug("PDF extraction failed", zap.Error(res.Error()))
	}
	return res
}

// Run reads a whole base64 payload from r and writes exactly one JSON result
// line to w. Failures of any stage, including reading r, are reported in the
// result; the returned error only covers writing to w.
func (c *Core) Run(r io.Reader, w io.Writer) error {
	var res mo.Result[string]

	payload, err := io.ReadAll(r)
	if err != nil {
		res = mo.Err[string](fmt.Errorf("failed to read input: %w", err))
	} else {
		res = c.Extract(string(payload))
	}

	return WriteResult(w, NewResult(res))
}

// DecodePayload decodes standard, padded base64. ASCII whitespace such as the
// line wrapping added by base64 tools is ignored; any other byte outside the
// alphabet is an error.
func DecodePayload(payload string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 input: %w", err)
	}
	return data, nil
}
