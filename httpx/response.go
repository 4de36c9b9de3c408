package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// ResponseBuffer holds a response back so the caller can inspect it
// before deciding whether to forward it.
type ResponseBuffer interface {
	http.ResponseWriter
	Status() int
	DecodeJSON(v any) error
	Flush(w http.ResponseWriter) error
}

type responseBuffer struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func NewResponseBuffer() ResponseBuffer {
	return &responseBuffer{}
}

// Status defaults to 200 once something was written, like net/http.
func (resp *responseBuffer) Status() int {
	if resp.status == 0 && resp.body.Len() > 0 {
		return http.StatusOK
	}
	return resp.status
}

func (resp *responseBuffer) Header() http.Header {
	if resp.header == nil {
		resp.header = http.Header{}
	}
	return resp.header
}

func (resp *responseBuffer) DecodeJSON(v any) error {
	return json.Unmarshal(resp.body.Bytes(), v)
}

func (resp *responseBuffer) Write(body []byte) (int, error) {
	return resp.body.Write(body)
}

func (resp *responseBuffer) WriteHeader(statusCode int) {
	if resp.status == 0 {
		resp.status = statusCode
	}
}

func (resp *responseBuffer) Flush(w http.ResponseWriter) error {
	header := w.Header()
	for key, value := range resp.header {
		header[key] = value
	}
	if status := resp.Status(); status != 0 {
		w.WriteHeader(status)
	}
	_, err := w.Write(resp.body.Bytes())
	return err
}
