package transfer

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ErrUnknownEncoding is returned when text is neither UTF-8/UTF-16 nor a
// legacy Japanese encoding.
var ErrUnknownEncoding = errors.New("text is not UTF-8, UTF-16, Shift_JIS, or EUC-JP")

// DecodeText turns file contents into a string. A UTF-8 BOM is dropped and a
// UTF-16 BOM selects UTF-16. Input that is not valid UTF-8 is tried as
// Shift_JIS and EUC-JP.
func DecodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case utf8.Valid(data):
		return string(data), nil
	}

	// EUC-JP kana bytes are also valid Shift_JIS half-width katakana, so a
	// clean decode alone does not identify the encoding.
	best, bestScore := "", -1
	for _, enc := range []encoding.Encoding{japanese.ShiftJIS, japanese.EUCJP} {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		text := string(out)
		score := halfwidthKatakana(text)
		if bestScore < 0 || score < bestScore {
			best, bestScore = text, score
		}
	}
	if bestScore < 0 {
		return "", ErrUnknownEncoding
	}
	return best, nil
}

func halfwidthKatakana(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0xFF61 && r <= 0xFF9F {
			n++
		}
	}
	return n
}
