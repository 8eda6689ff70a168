package extractor

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"interview-assistant/internal/interview"
)

var (
	namePattern  = regexp.MustCompile(`^[A-Z][a-z]+\s[A-Z][a-z]+`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+`)
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// ExtractText joins each page's items with single spaces and ends every
// page with a newline.
func ExtractText(pages [][]string) string {
	var b strings.Builder
	for _, items := range pages {
		b.WriteString(strings.Join(items, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// ParseDetails picks a leading two-word name and the first email and phone
// number out of text. Fields that are not found stay empty.
func ParseDetails(text string) interview.CandidateDetails {
	return interview.CandidateDetails{
		Name:  namePattern.FindString(text),
		Email: emailPattern.FindString(text),
		Phone: phonePattern.FindString(text),
	}
}

// Service pre-fills candidate details from an uploaded document.
type Service struct {
	source PageTextSource
	logger *zap.Logger
}

func New(source PageTextSource, logger *zap.Logger) *Service {
	if source == nil {
		source = PdfToText{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, logger: logger}
}

// Extract never fails: on any error it logs and returns empty details.
func (s *Service) Extract(ctx context.Context, data []byte) interview.CandidateDetails {
	var pages [][]string
	if IsBinaryData(data) {
		var err error
		pages, err = s.source.Pages(ctx, data)
		if err != nil {
			s.logger.Warn("document extraction failed", zap.Int("bytes", len(data)), zap.Error(err))
			return interview.CandidateDetails{}
		}
	} else {
		pages = [][]string{lineItems(string(data))}
	}

	if err := ctx.Err(); err != nil {
		s.logger.Warn("document extraction cancelled", zap.Error(err))
		return interview.CandidateDetails{}
	}

	details := ParseDetails(ExtractText(pages))
	s.logger.Info("document details extracted",
		zap.Int("pages", len(pages)),
		zap.Bool("name", details.Name != ""),
		zap.Bool("email", details.Email != ""),
		zap.Bool("phone", details.Phone != ""))
	return details
}
