package source

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

var encryptKey = []byte("/Encrypt")

// hasEncryptDict reports whether the file at path carries an /Encrypt entry.
// It is consulted when the reader refuses a file, to tell files that need a
// password apart from damaged ones. Trailers and cross-reference stream
// dictionaries are never compressed, so a plain byte scan finds the key.
func hasEncryptDict(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return containsKey(f, encryptKey)
}

// containsKey scans r for key, keeping an overlap between chunks so a key
// split across two reads is still found.
func containsKey(r io.Reader, key []byte) bool {
	br := bufio.NewReaderSize(r, 64*1024)
	buf := make([]byte, 64*1024)
	var carry []byte
	for {
		n, err := br.Read(buf)
		if n > 0 {
			chunk := append(carry, buf[:n]...)
			if bytes.Contains(chunk, key) {
				return true
			}
			keep := min(len(key)-1, len(chunk))
			carry = append(carry[:0:0], chunk[len(chunk)-keep:]...)
		}
		if err != nil {
			return false
		}
	}
}
