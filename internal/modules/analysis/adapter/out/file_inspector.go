package out

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"rsc.io/pdf"

	"resumedash/internal/modules/analysis/domain"
	analysisout "resumedash/internal/modules/analysis/port/out"
	apperrors "resumedash/internal/platform/errors"
	"resumedash/internal/platform/logging"
)

// LocalFileInspector is the drop target for files on disk. A file is
// rejected by name before it is read, and by content before it is previewed.
type LocalFileInspector struct {
	logger *slog.Logger
}

func NewLocalFileInspector(logger *slog.Logger) analysisout.FileInspector {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LocalFileInspector{logger: logger}
}

func (i *LocalFileInspector) Inspect(_ context.Context, path string) (domain.ResumeFile, error) {
	name := filepath.Base(path)
	if _, ok := domain.MimeTypeFor(name); !ok {
		i.logger.Debug("analysis.intake.rejected", "file", name, "accepted", domain.AcceptedExtensions())
		return domain.ResumeFile{}, &apperrors.UnsupportedFileTypeError{Name: name, MimeType: mime.TypeByExtension(filepath.Ext(name))}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ResumeFile{}, fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
		}
		return domain.ResumeFile{}, fmt.Errorf("stat resume: %w", err)
	}
	if info.IsDir() {
		return domain.ResumeFile{}, fmt.Errorf("%w: %s is a directory", apperrors.ErrInvalidInput, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ResumeFile{}, fmt.Errorf("read resume: %w", err)
	}
	mimeType, ok := domain.Classify(name, content)
	if !ok {
		return domain.ResumeFile{}, &apperrors.UnsupportedFileTypeError{Name: name, MimeType: mimeType}
	}

	preview, err := buildPreview(mimeType, content)
	if err != nil {
		i.logger.Debug("analysis.intake.preview_failed", "file", name, "error", err)
	}
	return domain.ResumeFile{
		Name:     name,
		Path:     path,
		MimeType: mimeType,
		Size:     info.Size(),
		Content:  content,
		Preview:  preview,
	}, nil
}

// buildPreview is best effort: a file the parsers choke on is still
// uploaded, the backend has the final say.
func buildPreview(mimeType string, content []byte) (preview domain.Preview, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("preview panicked: %v", r)
		}
	}()
	switch mimeType {
	case domain.MimePDF:
		return pdfPreview(content)
	case domain.MimeDOCX:
		return docxPreview(content)
	}
	return domain.Preview{}, nil
}

func pdfPreview(content []byte) (domain.Preview, error) {
	doc, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return domain.Preview{}, fmt.Errorf("open pdf: %w", err)
	}
	preview := domain.Preview{Pages: doc.NumPage()}

	// rsc.io/pdf returns glyph runs; ledongthuc/pdf reassembles words.
	textDoc, err := lpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return preview, fmt.Errorf("read pdf text: %w", err)
	}
	for n := 1; n <= textDoc.NumPage(); n++ {
		page := textDoc.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return preview, fmt.Errorf("pdf page %d text: %w", n, err)
		}
		preview.Words += len(strings.Fields(text))
	}
	return preview, nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func docxPreview(content []byte) (domain.Preview, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return domain.Preview{}, fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	body := doc.Editable().GetContent()
	body = docxParagraphEnd.ReplaceAllString(body, "\n")
	body = xmlTag.ReplaceAllString(body, "")
	return domain.Preview{Words: len(strings.Fields(body))}, nil
}
