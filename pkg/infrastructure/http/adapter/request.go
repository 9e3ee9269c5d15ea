package adapter

import (
	"errors"
	"mime"
	"net/http"
)

// MaxFormMemory bounds the multipart parts held in memory; larger parts spill to disk.
const MaxFormMemory = 10 << 20

// IsJSONRequest reports whether the body is declared as JSON. Anything else is
// treated as a form post.
func IsJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// ParseForm fills r.PostForm from urlencoded and multipart bodies alike.
func ParseForm(r *http.Request) error {
	err := r.ParseMultipartForm(MaxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}
