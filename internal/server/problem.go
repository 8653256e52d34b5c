package server

import (
	"encoding/json"
	"net/http"
)

const problemBase = "https://comparenet.io/problems/"

// Problem types for RFC 7807 Problem Details responses.
const (
	ProblemTypeNotFound    = problemBase + "not-found"
	ProblemTypeBadRequest  = problemBase + "bad-request"
	ProblemTypeValidation  = problemBase + "validation"
	ProblemTypeInternal    = problemBase + "internal-error"
	ProblemTypeRateLimited = problemBase + "rate-limited"
)

// Problem is an RFC 7807 Problem Details body. Fields is an extension member
// naming each invalid input.
type Problem struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// problemKind is the fixed part of a problem: type URI, title and status.
type problemKind struct {
	typ    string
	title  string
	status int
}

var (
	kindNotFound    = problemKind{ProblemTypeNotFound, "Not Found", http.StatusNotFound}
	kindBadRequest  = problemKind{ProblemTypeBadRequest, "Bad Request", http.StatusBadRequest}
	kindValidation  = problemKind{ProblemTypeValidation, "Validation Failed", http.StatusBadRequest}
	kindInternal    = problemKind{ProblemTypeInternal, "Internal Server Error", http.StatusInternalServerError}
	kindRateLimited = problemKind{ProblemTypeRateLimited, "Too Many Requests", http.StatusTooManyRequests}
)

func (k problemKind) write(w http.ResponseWriter, detail, instance string, fields map[string]string) {
	WriteProblem(w, Problem{
		Type:     k.typ,
		Title:    k.title,
		Status:   k.status,
		Detail:   detail,
		Instance: instance,
		Fields:   fields,
	})
}

// WriteProblem writes p as application/problem+json with p.Status.
func WriteProblem(w http.ResponseWriter, p Problem) {
	writeBody(w, "application/problem+json", p.Status, p)
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	writeBody(w, "application/json", status, v)
}

func writeBody(w http.ResponseWriter, contentType string, status int, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NotFound writes a 404 problem response.
func NotFound(w http.ResponseWriter, detail, instance string) {
	kindNotFound.write(w, detail, instance, nil)
}

// BadRequest writes a 400 problem response.
func BadRequest(w http.ResponseWriter, detail, instance string) {
	kindBadRequest.write(w, detail, instance, nil)
}

// ValidationFailed writes a 400 problem response listing invalid fields.
func ValidationFailed(w http.ResponseWriter, fields map[string]string, instance string) {
	kindValidation.write(w, "one or more fields are invalid", instance, fields)
}

// InternalError writes a 500 problem response. detail is shown to clients,
// so keep error internals in the log.
func InternalError(w http.ResponseWriter, detail, instance string) {
	kindInternal.write(w, detail, instance, nil)
}

// RateLimited writes a 429 problem response.
func RateLimited(w http.ResponseWriter, detail, instance string) {
	kindRateLimited.write(w, detail, instance, nil)
}
