package lambdagraphql

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// acceptsGzip reports whether the response should be gzip compressed:
// compression must be enabled and the client must have offered gzip.
func (h *Handler[U, C]) acceptsGzip(requestHeaders map[string]string) bool {
	if !h.opt.GzipCompression {
		return false
	}
	return acceptEncodingHasGzip(header(requestHeaders, headerAcceptEncoding))
}

// acceptEncodingHasGzip scans a comma-separated Accept-Encoding value for
// gzip, ignoring quality parameters: "br, gzip;q=0.8" offers gzip.
func acceptEncodingHasGzip(value string) bool {
	if value == "" {
		return false
	}
	for _, part := range strings.Split(value, ",") {
		encoding := part
		if i := strings.IndexByte(encoding, ';'); i >= 0 {
			encoding = encoding[:i]
		}
		if strings.EqualFold(strings.TrimSpace(encoding), "gzip") {
			return true
		}
	}
	return false
}

// gzipBody compresses body and base64-encodes it for a proxy response
// with IsBase64Encoded set.
func gzipBody(body string) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(body)); err != nil {
		return "", errors.Wrap(err, "gzip body")
	}
	if err := zw.Close(); err != nil {
		return "", errors.Wrap(err, "gzip body")
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
