package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"pdftext/file"

	"go.uber.org/zap"
)

// PDFTextRunner extracts PDF text by running the pdftext filter as a child
// process, feeding it base64 on stdin and decoding its JSON result.
type PDFTextRunner struct {
	binPath string
	args    []string
	env     []string
	logger  *zap.Logger
}

// NewPDFTextRunner creates a runner for the filter binary. If binPath is
// empty, "pdftext" is looked up on PATH.
func NewPDFTextRunner(binPath string, logger *zap.Logger) *PDFTextRunner {
	if binPath == "" {
		binPath = "pdftext"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFTextRunner{
		binPath: binPath,
		logger:  logger,
	}
}

// WithArgs sets extra arguments and environment for the child process.
func (p *PDFTextRunner) WithArgs(args []string, env []string) *PDFTextRunner {
	p.args = args
	p.env = env
	return p
}

// ExtractText returns the text of the PDF in data.
func (p *PDFTextRunner) ExtractText(ctx context.Context, data []byte) (string, error) {
	cmd := exec.CommandContext(ctx, p.binPath, p.args...)
	if p.env != nil {
		cmd.Env = p.env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewBufferString(base64.StdEncoding.EncodeToString(data))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			p.logger.Error("pdftext error output", zap.String("stderr", stderr.String()))
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("pdftext exited with code %d", exitErr.ExitCode())
		}
		return "", fmt.Errorf("failed to run pdftext: %w", err)
	}

	var result file.ExtractionResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return "", fmt.Errorf("failed to parse pdftext output: %w", err)
	}

	if !result.Success {
		if result.Error == "" {
			return "", errors.New("failed to parse PDF")
		}
		return "", errors.New(result.Error)
	}

	return result.Text, nil
}
