package sdk

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// ErrorDetailFor maps a domain error to the HTTP status and body the server
// sends for it. ErrorFromResponse is its inverse.
func ErrorDetailFor(err error) (int, ErrorDetail) {
	var (
		ve  *story.ValidationError
		nfe *story.NotFoundError
		ape *story.AlreadyPublishedError
		ce  *story.ConflictError
		ue  *story.UnavailableError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorDetail{Kind: KindValidation, Message: err.Error(), Fields: ve.Fields}
	case errors.As(err, &nfe):
		return http.StatusNotFound, ErrorDetail{Kind: KindNotFound, Message: err.Error()}
	case errors.As(err, &ape):
		return http.StatusConflict, ErrorDetail{Kind: KindAlreadyPublished, Message: err.Error(), PublishedID: ape.PublishedID}
	case errors.As(err, &ce):
		return http.StatusConflict, ErrorDetail{Kind: KindConflict, Message: err.Error(), Expected: ce.Expected, Actual: ce.Actual}
	case errors.Is(err, story.ErrInvalidTransition):
		return http.StatusConflict, ErrorDetail{Kind: KindInvalidTransition, Message: err.Error()}
	case errors.As(err, &ue):
		msg := ue.Message
		if msg == "" && ue.Err != nil {
			msg = ue.Err.Error()
		}
		return http.StatusServiceUnavailable, ErrorDetail{Kind: KindUnavailable, Message: msg}
	case errors.Is(err, story.ErrValidation):
		return http.StatusBadRequest, ErrorDetail{Kind: KindValidation, Message: err.Error()}
	case errors.Is(err, story.ErrNotFound):
		return http.StatusNotFound, ErrorDetail{Kind: KindNotFound, Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorDetail{Kind: KindInternal, Message: err.Error()}
	}
}

// ErrorFromResponse rebuilds the domain error for a failed response. id is
// the story the request was about, if any.
func ErrorFromResponse(op, id string, status int, d ErrorDetail) error {
	switch {
	case status == http.StatusBadRequest || d.Kind == KindValidation:
		fields := d.Fields
		if len(fields) == 0 {
			fields = map[string]string{"request": d.Message}
		}
		return &story.ValidationError{Fields: fields}
	case status == http.StatusNotFound:
		return &story.NotFoundError{ID: id}
	case status == http.StatusConflict && d.Kind == KindAlreadyPublished:
		return &story.AlreadyPublishedError{ID: id, PublishedID: d.PublishedID}
	case status == http.StatusConflict && d.Kind == KindConflict:
		return &story.ConflictError{ID: id, Expected: d.Expected, Actual: d.Actual}
	case status == http.StatusConflict:
		return fmt.Errorf("%s: %w: %s", op, story.ErrInvalidTransition, d.Message)
	}

	msg := d.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &story.UnavailableError{Op: op, Message: fmt.Sprintf("%d %s", status, msg)}
}
