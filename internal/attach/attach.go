// Package attach turns local files into attachment metadata. Files are not
// copied anywhere; the attachment points at the file where it lies.
package attach

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/tgienger/daybook/internal/models"
)

// ErrNotText is returned by ReadText for content it cannot read as text
var ErrNotText = errors.New("file is not plain text")

// Classify maps a detected MIME type onto an attachment type
func Classify(m *mimetype.MIME) models.AttachmentType {
	switch {
	case strings.HasPrefix(m.String(), "image/"):
		return models.AttachmentImage
	case m.Is("application/pdf"):
		return models.AttachmentPDF
	default:
		return models.AttachmentOther
	}
}

// FromFile describes the file at path as an attachment uploaded at now
func FromFile(path string, now time.Time) (models.Attachment, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return models.Attachment{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return models.Attachment{}, err
	}
	if info.IsDir() {
		return models.Attachment{}, fmt.Errorf("%s is a directory", path)
	}

	m, err := mimetype.DetectFile(abs)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to detect type of %s: %w", path, err)
	}

	return models.Attachment{
		ID:         "attachment_" + uuid.NewString(),
		Type:       Classify(m),
		URL:        (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
		Name:       filepath.Base(abs),
		Size:       info.Size(),
		UploadedAt: now,
	}, nil
}

// ReadText returns the contents of a text file. Anything mimetype does not
// place under text/* yields ErrNotText.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	m := mimetype.Detect(data)
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return string(data), nil
		}
	}
	return "", fmt.Errorf("%s: %w", path, ErrNotText)
}
