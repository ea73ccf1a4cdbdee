package domain

// Severity tones a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a single-use message carried across a navigation.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Transition is a navigation instruction, optionally carrying a notification
// for the destination view.
type Transition struct {
	Route        string
	Notification *Notification
}

// Success builds a success notification.
func Success(message string) Notification {
	return Notification{Message: message, Severity: SeveritySuccess}
}

// Failure builds an error notification.
func Failure(message string) Notification {
	return Notification{Message: message, Severity: SeverityError}
}

// To navigates to route carrying n.
func To(route string, n Notification) Transition {
	return Transition{Route: route, Notification: &n}
}
