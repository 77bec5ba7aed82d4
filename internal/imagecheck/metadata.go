package imagecheck

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// maxTextChunk caps decompressed PNG text to keep hostile files cheap
const maxTextChunk = 64 << 10

// metadata is what the local heuristic knows about an image
type metadata struct {
	Width, Height int
	Format        string // png, jpeg, gif, webp

	HasEXIF  bool
	Make     string
	Model    string
	HasGPS   bool
	Software string

	// PNGText holds the lowercased keywords and values of tEXt, zTXt and
	// iTXt chunks
	PNGText string
}

func inspect(data []byte) (metadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return metadata{}, fmt.Errorf("decode image: %w", err)
	}
	meta := metadata{Width: cfg.Width, Height: cfg.Height, Format: format}

	exifSource := data
	if format == "png" {
		var exifChunk []byte
		meta.PNGText, exifChunk = pngChunks(data)
		exifSource = exifChunk
	}
	if len(exifSource) > 0 {
		if x, err := exif.Decode(bytes.NewReader(exifSource)); err == nil {
			meta.HasEXIF = true
			meta.Make = tagString(x, exif.Make)
			meta.Model = tagString(x, exif.Model)
			meta.Software = tagString(x, exif.Software)
			_, gpsErr := x.Get(exif.GPSInfoIFDPointer)
			meta.HasGPS = gpsErr == nil
		}
	}
	return meta, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// pngChunks walks the chunk list and returns the text metadata and the raw
// eXIf payload, if any. Malformed trailing data ends the walk silently.
func pngChunks(data []byte) (text string, exifData []byte) {
	if !bytes.HasPrefix(data, pngSignature) {
		return "", nil
	}

	var b strings.Builder
	rest := data[len(pngSignature):]
	for len(rest) >= 12 {
		length := binary.BigEndian.Uint32(rest[:4])
		kind := string(rest[4:8])
		if uint64(length)+12 > uint64(len(rest)) {
			break
		}
		body := rest[8 : 8+length]
		rest = rest[12+length:]

		switch kind {
		case "tEXt":
			key, val, _ := bytes.Cut(body, []byte{0})
			writeText(&b, key, val)
		case "zTXt":
			key, val, ok := bytes.Cut(body, []byte{0})
			if ok && len(val) > 0 {
				writeText(&b, key, inflate(val[1:]))
			}
		case "iTXt":
			key, val, ok := bytes.Cut(body, []byte{0})
			if !ok || len(val) < 2 {
				continue
			}
			compressed := val[0] == 1
			// skip language tag and translated keyword
			val = val[2:]
			for range 2 {
				if _, after, found := bytes.Cut(val, []byte{0}); found {
					val = after
				}
			}
			if compressed {
				val = inflate(val)
			}
			writeText(&b, key, val)
		case "eXIf":
			exifData = body
		case "IEND":
			return b.String(), exifData
		}
	}
	return b.String(), exifData
}

func writeText(b *strings.Builder, key, val []byte) {
	b.WriteString(strings.ToLower(string(key)))
	b.WriteString("=")
	b.WriteString(strings.ToLower(string(val)))
	b.WriteString("\n")
}

func inflate(data []byte) []byte {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	defer func() { _ = r.Close() }()
	out, _ := io.ReadAll(io.LimitReader(r, maxTextChunk))
	return out
}
