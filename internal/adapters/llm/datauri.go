package llm

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// decodeDataURI splits a data:<mime>;base64,<payload> URI back into its
// MIME type and raw bytes.
func decodeDataURI(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}

	mimeType, encoding, ok := strings.Cut(header, ";")
	if !ok || encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported data URI encoding %q", header)
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data URI payload: %w", err)
	}
	return mimeType, data, nil
}
