package Transformer

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func Latin1ToUtf8(s string) string {
	decoder := charmap.ISO8859_1.NewDecoder()
	utf8String, _, err := transform.String(decoder, s)
	if err != nil {
		return s
	}
	return utf8String
}

func Utf8ToLatin1(input string) []byte {
	encoder := charmap.ISO8859_1.NewEncoder()
	var output bytes.Buffer
	writer := transform.NewWriter(&output, encoder)

	if _, err := writer.Write([]byte(input)); err != nil {
		return nil
	}
	if err := writer.Close(); err != nil {
		return nil
	}

	return output.Bytes()
}
