package export

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/document"
)

// Read deserializes a document in format from r.
func Read(r io.Reader, format Format, opts codec.Options) (*document.Document, []error, error) {
	src, err := NewSource(r, format)
	if err != nil {
		return nil, nil, err
	}
	return codec.Deserialize(src, opts)
}

// ReadFile deserializes the document at path, choosing the format from the
// file extension. As with codec.Deserialize, a *document.ValidationError
// comes back together with the document.
func ReadFile(path string, opts codec.Options) (*document.Document, []error, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, nil, fmt.Errorf("%s: unrecognized file extension", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc, warnings, err := Read(f, format, opts)
	if err != nil {
		var ve *document.ValidationError
		if !errors.As(err, &ve) {
			doc = nil
		}
		return doc, warnings, fmt.Errorf("%s: %w", path, err)
	}
	return doc, warnings, nil
}
