// Package upload validates files submitted by students before anything is
// stored or recorded.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	octetStream = "application/octet-stream"
)

var (
	ErrMissingFile = errors.New("no file provided")
	ErrInvalidType = errors.New("invalid file type")
	ErrTooLarge    = errors.New("file too large")
	ErrUnreadable  = errors.New("file unreadable")
)

// Rejection carries the client-facing message for a refused upload.
type Rejection struct {
	Reason  error
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func (r *Rejection) Unwrap() error { return r.Reason }

type Policy struct {
	MaxBytes int64
	Allowed  []string
	// Label names the allowed formats in rejection messages.
	Label string
	// Readable requires PDF and DOCX content to parse.
	Readable bool
}

var (
	DocumentPolicy = Policy{
		MaxBytes: 10 << 20,
		Allowed:  []string{MIMEPDF, MIMEJPEG, MIMEPNG, MIMEDOC, MIMEDOCX},
		Label:    "PDF, JPG, PNG, DOC, or DOCX",
	}
	ResumePolicy = Policy{
		MaxBytes: 5 << 20,
		Allowed:  []string{MIMEPDF, MIMEDOC, MIMEDOCX},
		Label:    "PDF, DOC, or DOCX",
		Readable: true,
	}
)

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// CheckSize lets callers refuse oversized parts before reading them.
func (p Policy) CheckSize(n int64) error {
	if p.MaxBytes > 0 && n > p.MaxBytes {
		return &Rejection{
			Reason:  ErrTooLarge,
			Message: fmt.Sprintf("File size too large. Maximum size is %dMB.", p.MaxBytes>>20),
		}
	}
	return nil
}

// Validate resolves the file's content type and applies the policy. The
// declared type wins; content is sniffed only when nothing useful was declared.
func (p Policy) Validate(f File) (File, error) {
	if len(f.Data) == 0 {
		return File{}, &Rejection{Reason: ErrMissingFile, Message: "No file provided"}
	}
	if err := p.CheckSize(int64(len(f.Data))); err != nil {
		return File{}, err
	}

	ct := normalizeContentType(f.ContentType)
	if ct == "" || ct == octetStream {
		ct = p.sniff(f.Data)
	}
	if !p.allows(ct) {
		return File{}, p.invalidType()
	}
	f.ContentType = ct

	if p.Readable {
		if err := readable(ct, f.Data); err != nil {
			return File{}, &Rejection{
				Reason:  fmt.Errorf("%w: %v", ErrUnreadable, err),
				Message: fmt.Sprintf("File could not be read. Please upload a valid %s file.", p.Label),
			}
		}
	}

	f.Name = SanitizeName(f.Name)
	return f, nil
}

func (p Policy) invalidType() error {
	return &Rejection{
		Reason:  ErrInvalidType,
		Message: fmt.Sprintf("Invalid file type. Please upload %s files only.", p.Label),
	}
}

func (p Policy) allows(ct string) bool {
	for _, a := range p.Allowed {
		if a == ct {
			return true
		}
	}
	return false
}

func (p Policy) sniff(data []byte) string {
	detected := mimetype.Detect(data)
	for _, a := range p.Allowed {
		if detected.Is(a) {
			return a
		}
	}
	return normalizeContentType(detected.String())
}

func normalizeContentType(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(ct)
	}
	return mt
}

func readable(ct string, data []byte) (err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse %s: %v", ct, r)
		}
	}()

	switch ct {
	case MIMEPDF:
		r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return err
		}
		if r.NumPage() == 0 {
			return errors.New("pdf has no pages")
		}
		return nil
	case MIMEDOCX:
		doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return err
		}
		return doc.Close()
	default:
		return nil
	}
}

// SanitizeName keeps the base name and replaces characters that are awkward
// in object keys and URLs.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
