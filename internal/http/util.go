package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// pathID extracts the numeric id segment after prefix, e.g.
// pathID("/api/users/42/status", "/api/users/") -> 42, "status".
// Returns ok=false when the segment is missing or not numeric.
func pathID(path, prefix string) (id int64, rest string, ok bool) {
	tail := strings.TrimPrefix(path, prefix)
	if tail == path || tail == "" {
		return 0, "", false
	}
	seg := tail
	if i := strings.IndexByte(tail, '/'); i >= 0 {
		seg = tail[:i]
		rest = strings.Trim(tail[i+1:], "/")
	}
	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, rest, true
}

// pageParams reads ?page= and ?size= with sane bounds.
func pageParams(r *http.Request) (page, size int) {
	page = parseInt(r.URL.Query().Get("page"), 1)
	size = parseInt(r.URL.Query().Get("size"), 50)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 500 {
		size = 50
	}
	return page, size
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, Fail("Método não permitido."))
}
