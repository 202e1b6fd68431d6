package main

import (
	"os"

	"pdftext/file"
	processor "pdftext/process"

	"go.uber.org/zap"
)

// Reads a base64 PDF from stdin and writes one JSON result line to stdout.
// Failures are reported in the JSON only; the exit status is always 0.
func main() {
	// =========
	// Logging
	// =========
	// stdout carries the result and stderr must stay silent.
	logger := zap.NewNop()

	// =========
	// Extraction
	// =========
	pdfClient := processor.NewClient(processor.NewLedongthucExtractor(logger))
	core := file.NewCore(pdfClient, logger)

	_ = core.Run(os.Stdin, os.Stdout)
}
