package domain

import (
	"bytes"
	"path/filepath"
	"strings"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var acceptedExtensions = map[string]string{
	".pdf":  MimePDF,
	".docx": MimeDOCX,
}

// headerWindow is how far into a file the signature may start. PDF readers
// tolerate leading junk before "%PDF-".
const headerWindow = 1024

var magic = map[string][]byte{
	MimePDF:  []byte("%PDF-"),
	MimeDOCX: []byte("PK\x03\x04"),
}

// AcceptedExtensions lists the extensions the drop target offers.
func AcceptedExtensions() []string {
	return []string{".pdf", ".docx"}
}

type Preview struct {
	Pages int
	Words int
}

type ResumeFile struct {
	Name     string
	Path     string
	MimeType string
	Size     int64
	Content  []byte
	Preview  Preview
}

func Accepted(mimeType string) bool {
	return mimeType == MimePDF || mimeType == MimeDOCX
}

// MimeTypeFor maps a file name to an accepted MIME type by extension.
func MimeTypeFor(name string) (string, bool) {
	mimeType, ok := acceptedExtensions[strings.ToLower(filepath.Ext(name))]
	return mimeType, ok
}

// Classify resolves the MIME type of a candidate upload. The extension picks
// the type and the leading bytes must agree with it.
func Classify(name string, head []byte) (string, bool) {
	mimeType, ok := MimeTypeFor(name)
	if !ok {
		return "", false
	}
	if mimeType == MimeDOCX {
		return mimeType, bytes.HasPrefix(head, magic[mimeType])
	}
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	return mimeType, bytes.Contains(head, magic[mimeType])
}
