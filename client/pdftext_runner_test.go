package client

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"pdftext/file"
	processor "pdftext/process"
	"pdftext/pkg/pdftest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperModeEnv = "PDFTEXT_HELPER_MODE"

// TestHelperProcess stands in for the pdftext binary when re-executed by
// helperRunner.
func TestHelperProcess(t *testing.T) {
	mode := os.Getenv(helperModeEnv)
	if mode == "" {
		return
	}

	switch mode {
	case "filter":
		core := file.NewCore(processor.NewClient(processor.NewLedongthucExtractor(nil)), nil)
		_ = core.Run(os.Stdin, os.Stdout)
	case "exit":
		fmt.Fprintln(os.Stderr, "Traceback: boom")
		os.Exit(3)
	case "garbage":
		fmt.Println("<html>")
	case "silent-failure":
		fmt.Println(`{"success":false}`)
	}
	os.Exit(0)
}

func helperRunner(mode string) *PDFTextRunner {
	env := append(os.Environ(), helperModeEnv+"="+mode)
	return NewPDFTextRunner(os.Args[0], nil).WithArgs([]string{"-test.run=^TestHelperProcess$"}, env)
}

func TestPDFTextRunner_ExtractText(t *testing.T) {
	text, err := helperRunner("filter").ExtractText(context.Background(), pdftest.Build(pdftest.TextPage("Hello World")))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", strings.Join(strings.Fields(text), " "))
}

func TestPDFTextRunner_Failures(t *testing.T) {
	testCases := []struct {
		name    string
		mode    string
		data    []byte
		wantErr string
	}{
		{"ExtractionFailure", "filter", []byte("not a pdf"), "not a PDF"},
		{"NonZeroExit", "exit", nil, "pdftext exited with code 3"},
		{"UnparseableOutput", "garbage", nil, "failed to parse pdftext output"},
		{"FailureWithoutMessage", "silent-failure", nil, "failed to parse PDF"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := helperRunner(tc.mode).ExtractText(context.Background(), tc.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestPDFTextRunner_MissingBinary(t *testing.T) {
	_, err := NewPDFTextRunner("/nonexistent/pdftext", nil).ExtractText(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run pdftext")
}
