package domain

type NotificationLevel string

func (l NotificationLevel) String() string {
	return string(l)
}

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a transient message shown to the user (snackbar)
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}
