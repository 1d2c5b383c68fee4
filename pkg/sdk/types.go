package sdk

// Error kinds carried in ErrorDetail.Kind.
const (
	KindValidation        = "validation"
	KindNotFound          = "not_found"
	KindUnavailable       = "unavailable"
	KindAlreadyPublished  = "already_published"
	KindConflict          = "conflict"
	KindInvalidTransition = "invalid_transition"
	KindInternal          = "internal"
)

// ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Kind        string            `json:"kind"`
	Message     string            `json:"message"`
	Fields      map[string]string `json:"fields,omitempty"`
	PublishedID string            `json:"publishedId,omitempty"`
	Expected    int               `json:"expected,omitempty"`
	Actual      int               `json:"actual,omitempty"`
}

// IngestRequest is the body of POST /api/ingest.
type IngestRequest struct {
	MeetingID string `json:"meetingId"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status     string `json:"status"`
	DataSource string `json:"dataSource"`
}
