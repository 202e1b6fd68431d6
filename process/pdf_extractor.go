package processor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// LedongthucExtractor implements PDFExtractor using github.com/ledongthuc/pdf
type LedongthucExtractor struct {
	logger *zap.Logger
}

// NewLedongthucExtractor creates a new instance of LedongthucExtractor
func NewLedongthucExtractor(logger *zap.Logger) *LedongthucExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedongthucExtractor{
		logger: logger,
	}
}

// ExtractFromReader extracts text from an io.Reader
func (e *LedongthucExtractor) ExtractFromReader(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF data: %w", err)
	}

	return e.ExtractFromBytes(data)
}

// ExtractFromBytes opens data as a PDF and returns the text of every page,
// one page per line, with surrounding whitespace trimmed. The first page
// that fails aborts the whole document.
func (e *LedongthucExtractor) ExtractFromBytes(data []byte) (text string, err error) {
	// The parser panics on some malformed inputs instead of returning errors.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	return e.extractText(r)
}

// Page tree limits. The parser's own page lookup follows /Kids without
// bounds and never returns on a cyclic tree.
const (
	maxPageTreeDepth = 64
	maxPageTreeNodes = 1 << 16
)

// extractText extracts text from a PDF reader
func (e *LedongthucExtractor) extractText(r *pdf.Reader) (string, error) {
	numPages := r.NumPage()

	pages, err := collectPages(r.Trailer().Key("Root").Key("Pages"))
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", len(pages)+1, err)
	}
	if len(pages) < numPages {
		return "", fmt.Errorf("failed to extract text from page %d: page tree holds %d of %d pages", len(pages)+1, len(pages), numPages)
	}

	var sb strings.Builder
	for i, page := range pages {
		pageText, err := plainText(page)
		if err != nil {
			e.logger.Debug("Page extraction failed", zap.Int("page", i+1), zap.Error(err))
			return "", fmt.Errorf("failed to extract text from page %d: %w", i+1, err)
		}

		e.logger.Debug("Page extracted", zap.Int("page", i+1), zap.Int("chars", len(pageText)))
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), nil
}

// collectPages returns the leaf pages under root in document order. On error
// the pages found so far are returned with it.
func collectPages(root pdf.Value) ([]pdf.Page, error) {
	if root.Kind() != pdf.Dict {
		return nil, fmt.Errorf("missing page tree")
	}

	var pages []pdf.Page
	visited := 0

	var walk func(node pdf.Value, depth int) error
	walk = func(node pdf.Value, depth int) error {
		if depth > maxPageTreeDepth {
			return fmt.Errorf("page tree nested deeper than %d levels", maxPageTreeDepth)
		}
		visited++
		if visited > maxPageTreeNodes {
			return fmt.Errorf("page tree has more than %d nodes", maxPageTreeNodes)
		}
		if node.Kind() != pdf.Dict {
			return fmt.Errorf("page tree node is not a dictionary")
		}

		kids := node.Key("Kids")
		switch typ := node.Key("Type").Name(); {
		case typ == "Page":
			pages = append(pages, pdf.Page{V: node})
			return nil
		case typ == "Pages", typ == "" && kids.Kind() == pdf.Array:
			if kids.Kind() != pdf.Array {
				return fmt.Errorf("page tree node has no /Kids array")
			}
			for i := 0; i < kids.Len(); i++ {
				if err := walk(kids.Index(i), depth+1); err != nil {
					return err
				}
			}
			return nil
		default:
			return fmt.Errorf("unexpected page tree node type %q", typ)
		}
	}

	err := walk(root, 0)
	return pages, err
}

// plainText returns "" for pages with no content stream.
func plainText(page pdf.Page) (string, error) {
	if page.V.Key("Contents").IsNull() {
		return "", nil
	}

	return page.GetPlainText(nil)
}
