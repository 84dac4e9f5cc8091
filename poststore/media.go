package poststore

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

var allowedExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {},
	"mp4": {}, "webm": {},
	"mp3": {}, "wav": {},
}

// Attachment is an uploaded file as received from the client.
type Attachment struct {
	Filename string
	Content  io.Reader
}

// AllowedFile reports whether filename carries an accepted media extension.
func AllowedFile(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[i+1:])]
	return ok
}

// saveAttachment stores a into the upload directory and returns the name it
// was stored under. Unusable attachments yield an empty name and no error.
func (s *Store) saveAttachment(kind MediaKind, a Attachment) (string, error) {
	if a.Content == nil || a.Filename == "" || !AllowedFile(a.Filename) {
		return "", nil
	}
	name := SafeFilename(a.Filename)
	if !AllowedFile(name) {
		return "", nil
	}
	data, err := io.ReadAll(a.Content)
	if err != nil {
		return "", fmt.Errorf("read %s upload: %w", kind, err)
	}
	if len(data) == 0 {
		return "", nil
	}
	if kind == KindThumbnail {
		data = fitWidth(data, s.maxThumbnailWidth)
	}
	if err := writeFileAtomic(filepath.Join(s.uploadDir, name), data); err != nil {
		return "", writeErr("store "+string(kind), err)
	}
	return name, nil
}

// fitWidth downscales PNG and JPEG images wider than maxWidth, keeping their
// format. Anything it cannot decode is returned unchanged.
func fitWidth(data []byte, maxWidth int) []byte {
	if maxWidth <= 0 {
		return data
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= maxWidth || (format != "png" && format != "jpeg") {
		return data
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	newH := bounds.Dy() * maxWidth / bounds.Dx()
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if format == "png" {
		err = png.Encode(&buf, dst)
	} else {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return data
	}
	return buf.Bytes()
}

// stageFile writes data to a hidden temp file next to path and returns its name.
func stageFile(path string, data []byte) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return tmp, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := stageFile(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
