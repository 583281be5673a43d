package validator

import (
	"bytes"

	"github.com/ledongthuc/pdf"
)

// PageCount returns the number of pages in data, or 0 when the document
// cannot be read.
func PageCount(data []byte) (n int) {
	defer func() {
		// the parser panics on some malformed inputs
		if recover() != nil {
			n = 0
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return r.NumPage()
}
