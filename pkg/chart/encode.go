package chart

import "encoding/base64"

const dataURIPrefix = "data:image/png;base64,"

// EncodeBase64 encodes PNG bytes for inline embedding.
func EncodeBase64(png []byte) string {
	if len(png) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(png)
}

// DataURI wraps PNG bytes in a data URI usable as an img src.
func DataURI(png []byte) string {
	encoded := EncodeBase64(png)
	if encoded == "" {
		return ""
	}
	return dataURIPrefix + encoded
}
