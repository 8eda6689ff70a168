package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	// binarySampleSize is the number of bytes sampled for binary detection
	binarySampleSize = 1000
	// binaryThreshold is the share of control bytes that marks data as binary
	binaryThreshold = 0.3
)

// PageTextSource turns a binary document into the text items of each page.
type PageTextSource interface {
	Pages(ctx context.Context, data []byte) ([][]string, error)
}

// PdfToText reads pages with poppler's pdftotext, which ends every page with
// a form feed.
type PdfToText struct {
	// Binary is the executable to run. Empty means "pdftotext" on PATH.
	Binary string
}

func (p PdfToText) Pages(ctx context.Context, data []byte) ([][]string, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pdftotext"
	}

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	out, err := exec.CommandContext(ctx, bin, "-enc", "UTF-8", tmp.Name(), "-").Output()
	if err != nil {
		return nil, fmt.Errorf("PDF extraction requires '%s' (install poppler-utils): %w", bin, err)
	}

	raw := strings.Split(string(out), "\f")
	if len(raw) > 0 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}
	pages := make([][]string, 0, len(raw))
	for _, page := range raw {
		pages = append(pages, lineItems(page))
	}
	return pages, nil
}

// lineItems splits a page into its non-blank lines.
func lineItems(page string) []string {
	var items []string
	for _, line := range strings.Split(page, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

// IsBinaryData reports whether content looks like a binary document rather
// than plain text.
func IsBinaryData(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	if strings.HasPrefix(string(content[:min(len(content), 5)]), "%PDF-") {
		return true
	}
	// zip container, e.g. docx
	if len(content) >= 2 && content[0] == 'P' && content[1] == 'K' {
		return true
	}

	sampleSize := min(binarySampleSize, len(content))
	nonPrintable := 0
	for _, ch := range content[:sampleSize] {
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(sampleSize) > binaryThreshold
}
