package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	pdf "github.com/ledongthuc/pdf"

	"github.com/Dheolarh/SkoolMeBackend/internal/clients/gcp"
	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
)

// DocumentExtractService pulls text out of document uploads. PDFs are read
// natively first; pages without a text layer fall back to Vision OCR, which is
// also the path for plain images.
type DocumentExtractService interface {
	ExtractFile(ctx context.Context, path string) (string, error)
}

type documentExtractService struct {
	log          *logger.Logger
	vision       gcp.Vision
	pdftoppmPath string
	ocrTimeout   time.Duration
}

func NewDocumentExtractService(log *logger.Logger, vision gcp.Vision) DocumentExtractService {
	return &documentExtractService{
		log:          log.With("service", "DocumentExtractService"),
		vision:       vision,
		pdftoppmPath: "pdftoppm",
		ocrTimeout:   5 * time.Minute,
	}
}

func (s *documentExtractService) ExtractFile(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return s.extractPDF(ctx, path)
	case ".docx":
		return extractDOCX(path)
	case ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read txt: %w", err)
		}
		return string(b), nil
	case ".png", ".jpg", ".jpeg", ".bmp":
		return s.extractImage(ctx, path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

func (s *documentExtractService) extractImage(ctx context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	text, err := s.vision.DetectDocumentText(ctx, b)
	if err != nil {
		return "", fmt.Errorf("image ocr: %w", err)
	}
	return text, nil
}

func (s *documentExtractService) extractPDF(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	if !isPDF(data) {
		return "", fmt.Errorf("file claims pdf but missing %%PDF header: %s", filepath.Base(path))
	}

	text, err := pdfTextLayer(data)
	if err != nil {
		s.log.Warn("PDF text layer read failed, falling back to OCR", "path", path, "error", err)
		text = ""
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	// Scanned PDF: rasterize pages and OCR each one.
	return s.ocrPDFPages(ctx, path)
}

func pdfTextLayer(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

// ocrPDFPages renders the PDF to page images with pdftoppm and runs each page
// through Vision document text detection.
func (s *documentExtractService) ocrPDFPages(ctx context.Context, path string) (string, error) {
	ctx2, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()

	outDir, err := os.MkdirTemp("", "skoolme-pdf-*")
	if err != nil {
		return "", fmt.Errorf("mkdtemp: %w", err)
	}
	defer os.RemoveAll(outDir)

	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx2, s.pdftoppmPath, "-png", "-r", "200", path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(out)))
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("read render dir: %w", err)
	}
	pages := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".png") {
			pages = append(pages, filepath.Join(outDir, e.Name()))
		}
	}
	sort.Strings(pages)

	var text strings.Builder
	for _, p := range pages {
		img, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("read page image: %w", err)
		}
		pageText, err := s.vision.DetectDocumentText(ctx2, img)
		if err != nil {
			return "", fmt.Errorf("pdf page ocr: %w", err)
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

// extractDOCX walks word/document.xml collecting run text, one line per
// paragraph.
func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("docx open: %w", err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx missing word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("docx document.xml: %w", err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				var v string
				_ = dec.DecodeElement(&v, &el)
				out.WriteString(v)
			}
		case xml.EndElement:
			if el.Name.Local == "p" {
				out.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
