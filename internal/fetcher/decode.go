package fetcher

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// decompress unpacks a response body. The portal's compression framing is
// not perfectly consistent, so the container format is sniffed from the
// stream itself instead of trusting the Content-Encoding header: gzip
// wrapping, zlib wrapping and raw deflate are all accepted.
func decompress(body []byte, contentEncoding string) ([]byte, error) {
	if len(body) == 0 {
		return body, nil
	}

	switch {
	case len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b:
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case body[0] == 0x78:
		r, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case strings.Contains(contentEncoding, "gzip") || strings.Contains(contentEncoding, "deflate"):
		r := flate.NewReader(bytes.NewReader(body))
		defer r.Close()
		return io.ReadAll(r)
	default:
		// uncompressed after all
		return body, nil
	}
}

// decodeText turns response bytes into UTF-8 text. The portal declares a
// Latin-1 charset but hand-authored borough pages occasionally contain
// Windows-1252 bytes, so the decoders are tried in that order and the first
// one that decodes without substitutions wins. The last decoder's lossy
// result is kept as the final fallback, so an encoding mismatch can never
// abort the pipeline.
func decodeText(raw []byte) string {
	decoders := []*charmap.Charmap{
		charmap.ISO8859_1,
		charmap.Windows1252,
	}

	var lossy string
	for _, cm := range decoders {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		text := string(decoded)
		if !strings.ContainsRune(text, '�') {
			return text
		}
		lossy = text
	}
	if lossy == "" {
		lossy = strings.ToValidUTF8(string(raw), "�")
	}
	return lossy
}
