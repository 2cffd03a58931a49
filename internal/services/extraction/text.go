// Package extraction turns uploaded invoice documents into typed fields: text
// acquisition via pdftotext/tesseract, then best-effort pattern probes.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUnreadable means the document could not be parsed or carried no
// extractable text. Callers are expected to fall back to an all-defaults
// record rather than fail the upload.
var ErrUnreadable = errors.New("document unreadable")

// SourceKind declares how the uploaded document should be read.
type SourceKind string

const (
	SourcePDF   SourceKind = "pdf"
	SourceImage SourceKind = "image"
)

// KindForFilename picks a source kind from the file extension.
func KindForFilename(filename string) SourceKind {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return SourcePDF
	}
	return SourceImage
}

type Config struct {
	Pdftotext     string // binary name or absolute path; if empty -> "pdftotext"
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
}

type Service struct {
	cfg    Config
	runner Runner
}

func NewService(cfg Config) *Service {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	return &Service{cfg: cfg, runner: execRunner{}}
}

// Acquire returns the raw text of the document at path. Any failure is
// reported as ErrUnreadable; there is no retry.
func (s *Service) Acquire(ctx context.Context, path string, kind SourceKind) (string, error) {
	switch kind {
	case SourcePDF:
		return s.pdfToText(ctx, path)
	case SourceImage:
		return s.imageToText(ctx, path)
	default:
		return "", fmt.Errorf("%w: unknown source kind %q", ErrUnreadable, kind)
	}
}

func (s *Service) pdfToText(ctx context.Context, path string) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, _, err := s.runner.Run(ctx, s.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v", ErrUnreadable, err)
	}
	// pdftotext separates pages with form feeds; join them with newlines.
	text := strings.ReplaceAll(string(out), "\f", "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no extractable text layer", ErrUnreadable)
	}
	return text, nil
}

func (s *Service) imageToText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: open image: %v", ErrUnreadable, err)
	}

	ocrPath := path
	if enhanced, cleanup, err := s.enhanceImage(path); err != nil {
		// Enhancement is an optimization; OCR the original if it fails.
		log.Println("image enhancement failed, using original:", err)
	} else {
		ocrPath = enhanced
		defer cleanup()
	}

	// tesseract <file> stdout -l <lang>
	out, _, err := s.runner.Run(ctx, s.cfg.Tesseract, ocrPath, "stdout", "-l", s.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %v", ErrUnreadable, err)
	}
	return string(out), nil
}

// enhanceImage writes a preprocessed copy of the image that OCRs better than
// the raw scan: grayscale, higher contrast, sharpened.
func (s *Service) enhanceImage(path string) (string, func(), error) {
	src, err := imaging.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)

	tmp, err := os.CreateTemp("", "ap-ocr-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("create temp image: %w", err)
	}
	tmp.Close()

	if err := imaging.Save(img, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("save enhanced image: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	return tmp.Name(), cleanup, nil
}
