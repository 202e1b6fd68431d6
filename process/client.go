package processor

import "io"

// PDFExtractor defines the interface for PDF text extraction
type PDFExtractor interface {
	// ExtractFromBytes extracts text from raw PDF bytes
	ExtractFromBytes(data []byte) (string, error)

	// ExtractFromReader extracts text from an io.Reader
	ExtractFromReader(reader io.Reader) (string, error)
}

// Client wraps the PDFExtractor interface for easy swapping of implementations
type Client struct {
	extractor PDFExtractor
}

// NewClient creates a new PDF processor client with the given extractor implementation
func NewClient(extractor PDFExtractor) *Client {
	return &Client{
		extractor: extractor,
	}
}

// ExtractText extracts text from raw PDF bytes
func (c *Client) ExtractText(data []byte) (string, error) {
	return c.extractor.ExtractFromBytes(data)
}

// ExtractTextFromReader extracts text from a PDF stream
func (c *Client) ExtractTextFromReader(reader io.Reader) (string, error) {
	return c.extractor.ExtractFromReader(reader)
}
