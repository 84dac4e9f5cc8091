package poststore

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// MediaKind names one of the attachment slots a post can carry.
type MediaKind string

const (
	KindThumbnail MediaKind = "thumbnail"
	KindVideo     MediaKind = "video"
	KindAudio     MediaKind = "audio"
)

// MediaKinds lists the attachment slots in sidecar order.
var MediaKinds = []MediaKind{KindThumbnail, KindVideo, KindAudio}

// Media references uploaded files by name. An empty field means the post
// has no attachment of that kind.
type Media struct {
	Thumbnail string
	Video     string
	Audio     string
}

// Get returns the filename stored for kind.
func (m Media) Get(kind MediaKind) string {
	switch kind {
	case KindThumbnail:
		return m.Thumbnail
	case KindVideo:
		return m.Video
	case KindAudio:
		return m.Audio
	}
	return ""
}

func (m *Media) set(kind MediaKind, filename string) {
	switch kind {
	case KindThumbnail:
		m.Thumbnail = filename
	case KindVideo:
		m.Video = filename
	case KindAudio:
		m.Audio = filename
	}
}

// Empty reports whether m references no files.
func (m Media) Empty() bool {
	return m.Thumbnail == "" && m.Video == "" && m.Audio == ""
}

// MarshalText encodes m as sidecar lines, one key:value per attachment.
func (m Media) MarshalText() ([]byte, error) {
	var b bytes.Buffer
	for _, kind := range MediaKinds {
		v := m.Get(kind)
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(kind))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.Bytes(), nil
}

// UnmarshalText decodes sidecar lines into m.
func (m *Media) UnmarshalText(text []byte) error {
	parsed, err := ParseMetadata(bytes.NewReader(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMetadata reads a sidecar. Unknown keys are ignored and the first
// occurrence of a key wins. A bare line without a key is an old-style
// sidecar that only ever held a thumbnail name.
func ParseMetadata(r io.Reader) (Media, error) {
	var m Media
	seen := make(map[MediaKind]bool, len(MediaKinds))
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			if !seen[KindThumbnail] {
				m.Thumbnail = line
				seen[KindThumbnail] = true
			}
			continue
		}
		kind := MediaKind(strings.TrimSpace(key))
		if !isMediaKind(kind) || seen[kind] {
			continue
		}
		m.set(kind, strings.TrimSpace(value))
		seen[kind] = true
	}
	if err := sc.Err(); err != nil {
		return Media{}, err
	}
	return m, nil
}

func isMediaKind(kind MediaKind) bool {
	for _, k := range MediaKinds {
		if k == kind {
			return true
		}
	}
	return false
}
