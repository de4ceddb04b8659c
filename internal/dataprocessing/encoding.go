package dataprocessing

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// canonicalEncoding normalizes an encoding name to the form used in reports
func canonicalEncoding(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latin1", "latin-1", "iso-8859-1":
		return "latin1"
	case "windows-1252", "cp1252":
		return "windows-1252"
	case "utf-8", "utf8":
		return "utf-8"
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// decodeBytes converts data in the named encoding to a UTF-8 string.
// UTF-8 input is validated strictly and a leading byte-order mark removed.
func decodeBytes(name string, data []byte) (string, error) {
	switch canonicalEncoding(name) {
	case "latin1":
		out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "windows-1252":
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "utf-8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid UTF-8 byte sequence at offset %d", invalidUTF8Offset(data))
		}
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return "", fmt.Errorf("unsupported encoding %q", name)
}

// encodingOrder returns the encodings to try for data. A UTF-8 byte-order
// mark promotes utf-8 to the front.
func encodingOrder(configured []string, data []byte) []string {
	order := make([]string, 0, len(configured)+1)
	if bytes.HasPrefix(data, utf8BOM) {
		order = append(order, "utf-8")
	}
	for _, name := range configured {
		name = canonicalEncoding(name)
		if len(order) > 0 && order[0] == "utf-8" && name == "utf-8" {
			continue
		}
		order = append(order, name)
	}
	return order
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
