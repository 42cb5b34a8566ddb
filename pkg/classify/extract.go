package classify

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"casesearch/pkg/models"
)

// minPDFTextChars below this floor a PDF is treated as a scanned judgment
// with no text layer — the page has images, not a font-backed text stream.
const minPDFTextChars = 200

var htmlTagRE = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</\1>|<[^>]+>`)
var htmlWhitespaceRE = regexp.MustCompile(`\s+`)

// ExtractDetail sniffs a fetched detail body's real content type and routes
// it to the matching extractor, producing the DetailArtifact the
// proposition gate reads evidence windows from.
func ExtractDetail(body []byte, declaredContentType string) *models.DetailArtifact {
	mime := mimetype.Detect(body)

	switch {
	case mime.Is("application/pdf") || strings.Contains(declaredContentType, "application/pdf"):
		return extractPDF(body)
	case mime.Is("text/html") || strings.Contains(declaredContentType, "text/html"):
		return extractHTML(body)
	default:
		return extractPlainText(string(body))
	}
}

func extractHTML(body []byte) *models.DetailArtifact {
	text := stripHTML(string(body))
	return buildArtifact(models.DetailSourceHTML, text, nil)
}

func stripHTML(html string) string {
	stripped := htmlTagRE.ReplaceAllString(html, " ")
	stripped = htmlWhitespaceRE.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(stripped)
}

func extractPDF(body []byte) *models.DetailArtifact {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return minimalArtifact([]string{"pdf_open_failed: " + err.Error()})
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return minimalArtifact([]string{"pdf_text_extraction_failed: " + err.Error()})
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return minimalArtifact([]string{"pdf_text_read_failed: " + err.Error()})
	}
	text := strings.TrimSpace(buf.String())

	if len(text) < minPDFTextChars {
		// Scanned judgment with no text layer. Full OCR rendering is out of
		// scope here (DESIGN.md) so a minimal artifact stands in.
		warnings := []string{"pdf_below_text_floor"}
		artifact := minimalArtifact(warnings)
		artifact.SourceKind = models.DetailSourcePDFOCR
		return artifact
	}

	return buildArtifact(models.DetailSourcePDFText, text, nil)
}

func extractPlainText(text string) *models.DetailArtifact {
	return buildArtifact(models.DetailSourceHTML, text, []string{"unrecognised_content_type_treated_as_text"})
}

func buildArtifact(kind models.DetailSourceKind, text string, warnings []string) *models.DetailArtifact {
	sentences := splitSentences(text)
	return &models.DetailArtifact{
		SourceKind:         kind,
		EvidenceWindows:    evidenceWindows(sentences),
		BodyExcerpt:        bodyExcerpt(sentences),
		ExtractionWarnings: warnings,
	}
}

// minimalArtifact is the fallback used when extraction fails outright —
// the verifier still records a detail attempt, just with no evidence.
func minimalArtifact(warnings []string) *models.DetailArtifact {
	return &models.DetailArtifact{
		ExtractionWarnings: warnings,
	}
}
