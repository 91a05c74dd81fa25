package requestutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-logr/logr"
	"github.com/mholt/archives"
)

var ContentTypesGzip = []string{
	"application/gzip",
	"application/x-gzip",
}

// ToJSON decodes the response body into v, transparently decompressing
// gzip payloads that the transport did not already unwrap.
func ToJSON(v any) requests.ResponseHandler {
	return func(response *http.Response) error {
		log := logr.FromContextOrDiscard(response.Request.Context())
		var stream io.Reader = response.Body

		// if it's a gzip response, decompress it
		if isGzipped(response.Header.Get("Content-Type")) {
			log.V(8).Info("decompressing gzip response")
			dec, err := archives.Gz{}.OpenReader(response.Body)
			if err != nil {
				return fmt.Errorf("decompressing: %w", err)
			}
			defer dec.Close()
			stream = dec
		}

		if err := json.NewDecoder(stream).Decode(v); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}
}

func isGzipped(s string) bool {
	return mimetype.EqualsAny(s, ContentTypesGzip...)
}
