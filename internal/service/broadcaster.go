package service

// Broadcaster pushes live events to creators watching a form (avoids import cycle)
type Broadcaster interface {
	BroadcastToForm(formID string, msgType string, payload interface{})
	DisconnectForm(formID string)
}

// Live event types
const (
	EventResponseSubmitted = "response_submitted"
	EventFormUpdated       = "form_updated"
	EventFormDeleted       = "form_deleted"
)

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToForm(string, string, interface{}) {}
func (noopBroadcaster) DisconnectForm(string)                       {}
