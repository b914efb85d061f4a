package models

// Complaint event kinds published on the complaints events channel.
const (
	EventComplaintCreated  = "created"
	EventComplaintFeedback = "feedback"
)

// ComplaintEvent is the payload published over Redis Pub/Sub whenever the
// complaints collection changes. Open feeds re-run their query on receipt;
// the payload itself only identifies what changed.
type ComplaintEvent struct {
	Kind        string `json:"kind"`
	ComplaintID string `json:"complaint_id"`
	Department  string `json:"department"`
}
