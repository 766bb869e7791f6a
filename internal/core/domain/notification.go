package domain

type Notification struct {
	ID               int64  `json:"id"`
	Message          string `json:"message"`
	DateNotification string `json:"dateNotification"`
	Read             bool   `json:"read"`
}

// Адресат websocket-топика /topic/notifications/{donor|hospital}/{id}
type NotificationRecipientType string

const (
	NotificationRecipientDonor    NotificationRecipientType = "donor"
	NotificationRecipientHospital NotificationRecipientType = "hospital"
)
