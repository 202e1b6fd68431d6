// Package pdftest builds small, well-formed PDF documents for tests.
package pdftest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// Page describes one page of a generated document. Lines are drawn top to
// bottom with a Helvetica font; a page with no lines gets an empty content
// stream unless NoContents is set, in which case /Contents is omitted.
// UnknownFilter marks the content stream with a filter no reader supports.
type Page struct {
	Lines         []string
	NoContents    bool
	UnknownFilter bool
}

// TextPage returns a page holding the given lines.
func TextPage(lines ...string) Page {
	return Page{Lines: lines}
}

// BlankPage returns a page with an empty content stream.
func BlankPage() Page {
	return Page{}
}

// UnreadablePage returns a page whose content stream cannot be decoded.
func UnreadablePage(lines ...string) Page {
	return Page{Lines: lines, UnknownFilter: true}
}

// Build renders pages into a PDF 1.4 file with a classic xref table.
func Build(pages ...Page) []byte {
	return build(pageRefs(pages), len(pages), pages)
}

// BuildCyclic is Build with the page tree root also listing itself as its
// last kid.
func BuildCyclic(pages ...Page) []byte {
	return build(append(pageRefs(pages), "2 0 R"), len(pages), pages)
}

// BuildWithCount is Build with /Count set to count regardless of how many
// pages the tree really holds.
func BuildWithCount(count int, pages ...Page) []byte {
	return build(pageRefs(pages), count, pages)
}

func pageRefs(pages []Page) []string {
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	return kids
}

func build(kids []string, count int, pages []Page) []byte {
	// Object layout: 1 catalog, 2 page tree, 3 font, then a page object
	// followed by its content stream for every page.
	objects := make([]string, 0, 3+2*len(pages))

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), count),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, p := range pages {
		contentsRef := ""
		if !p.NoContents {
			contentsRef = fmt.Sprintf(" /Contents %d 0 R", 5+2*i)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>%s >>", contentsRef),
			contentStream(p.Lines, p.UnknownFilter),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

// BuildBase64 is Build followed by standard base64 encoding.
func BuildBase64(pages ...Page) string {
	return base64.StdEncoding.EncodeToString(Build(pages...))
}

func contentStream(lines []string, unknownFilter bool) string {
	var content strings.Builder
	if len(lines) > 0 {
		content.WriteString("BT\n/F1 12 Tf\n14 TL\n72 720 Td\n")
		for i, line := range lines {
			if i > 0 {
				content.WriteString("T*\n")
			}
			fmt.Fprintf(&content, "(%s) Tj\n", escape(line))
		}
		content.WriteString("ET")
	}

	filter := ""
	if unknownFilter {
		filter = " /Filter /NoSuchDecode"
	}
	return fmt.Sprintf("<< /Length %d%s >>\nstream\n%s\nendstream", content.Len(), filter, content.String())
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
