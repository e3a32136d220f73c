package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// DecodeText returns payload as UTF-8 with any BOM stripped. Payloads that
// are not valid UTF-8 are decoded as Windows-1252, which some upstream
// export tools still emit.
func DecodeText(payload []byte) ([]byte, error) {
	payload = bytes.TrimPrefix(payload, byteOrderMark)
	if utf8.Valid(payload) {
		return payload, nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(payload)
	if err != nil {
		return nil, fmt.Errorf("decode windows-1252: %w", err)
	}
	return decoded, nil
}
