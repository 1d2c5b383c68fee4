// Package transcript defines the meeting transcript consumed by ingestion.
package transcript

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// MinMeetingIDLength is the shortest meeting identifier ingestion accepts.
const MinMeetingIDLength = 8

// Participant is a meeting attendee.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Segment is one speaker turn. Segments are kept in chronological order.
type Segment struct {
	ID            string `json:"id"`
	ParticipantID string `json:"participantId"`
	Text          string `json:"text"`
	Timestamp     string `json:"timestamp"`
}

// Transcript is the annotated text of a meeting.
type Transcript struct {
	ID           string        `json:"id"`
	MeetingID    string        `json:"meetingId"`
	MeetingTitle string        `json:"meetingTitle"`
	DateTime     time.Time     `json:"dateTime"`
	Participants []Participant `json:"participants"`
	Segments     []Segment     `json:"segments"`
}

// ValidateMeetingID checks the minimum length of a meeting identifier.
func ValidateMeetingID(meetingID string) error {
	if len([]rune(meetingID)) < MinMeetingIDLength {
		return story.NewValidationError("meetingId",
			fmt.Sprintf("must be at least %d characters", MinMeetingIDLength))
	}
	return nil
}

// Validate checks that participant ids are unique and that every segment
// references a participant.
func (t *Transcript) Validate() error {
	fields := map[string]string{}
	if t.MeetingID == "" {
		fields["meetingId"] = "is required"
	}

	seen := make(map[string]bool, len(t.Participants))
	for _, p := range t.Participants {
		if seen[p.ID] {
			fields["participants"] = fmt.Sprintf("duplicate participant id %q", p.ID)
			break
		}
		seen[p.ID] = true
	}

	for i, seg := range t.Segments {
		if !seen[seg.ParticipantID] {
			fields["segments"] = fmt.Sprintf("segment %d references unknown participant %q", i, seg.ParticipantID)
			break
		}
	}

	if len(fields) > 0 {
		return &story.ValidationError{Fields: fields}
	}
	return nil
}

// Speaker returns the name of the participant who spoke seg, or the raw
// participant id when it is unknown.
func (t *Transcript) Speaker(seg Segment) string {
	for _, p := range t.Participants {
		if p.ID == seg.ParticipantID {
			return p.Name
		}
	}
	return seg.ParticipantID
}

// Sample returns the transcript used when no backend is configured.
func Sample(meetingID string, now time.Time) *Transcript {
	return &Transcript{
		ID:           "123456",
		MeetingID:    meetingID,
		MeetingTitle: "Sprint Planning Meeting",
		DateTime:     now.UTC(),
		Participants: []Participant{
			{ID: "user1", Name: "John Smith"},
			{ID: "user2", Name: "Jane Doe"},
			{ID: "user3", Name: "Bob Johnson"},
		},
		Segments: []Segment{
			{
				ID:            "seg1",
				ParticipantID: "user1",
				Text:          "We need to prioritize the mobile authentication feature for the next sprint.",
				Timestamp:     "00:01:15",
			},
			{
				ID:            "seg2",
				ParticipantID: "user2",
				Text:          "I agree, users have been asking for the ability to sign in with their Microsoft accounts.",
				Timestamp:     "00:01:42",
			},
			{
				ID:            "seg3",
				ParticipantID: "user3",
				Text:          "How complex do we think this will be? We need to consider the auth flow and security implications.",
				Timestamp:     "00:02:10",
			},
		},
	}
}
