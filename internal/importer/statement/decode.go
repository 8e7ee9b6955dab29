package statement

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeUTF8 wraps r in a reader producing UTF-8. A BOM wins; otherwise valid
// UTF-8 passes through, then chardet is consulted, and anything it cannot place
// is read as Windows-1252, which is what most bank portals emit.
func DecodeUTF8(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(head, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if validUTF8Prefix(head) {
		return br, nil
	}

	if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		switch res.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		case "ISO-8859-15":
			return transform.NewReader(br, charmap.ISO8859_15.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// validUTF8Prefix ignores a multi-byte rune cut off by the sniff window.
func validUTF8Prefix(b []byte) bool {
	if utf8.Valid(b) {
		return true
	}

	for cut := 1; cut < utf8.UTFMax && cut <= len(b); cut++ {
		if utf8.Valid(b[:len(b)-cut]) && !utf8.FullRune(b[len(b)-cut:]) {
			return true
		}
	}

	return false
}
