package audit

import "time"

// Category classifies audit events for retention and routing.
type Category string

const (
	// CategoryCompliance covers events that remove or rewrite contact data.
	CategoryCompliance Category = "compliance"
	// CategoryOperations covers routine additions and edits.
	CategoryOperations Category = "operations"
)

// Event is emitted by the contacts service to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  Category
	Timestamp time.Time
	ContactID string
	Contact   string
	Action    string
	Detail    string
	RequestID string
}

type Action string

const (
	EventContactCreated  Action = "contact_created"
	EventContactDeleted  Action = "contact_deleted"
	EventContactImported Action = "contact_imported"
	EventPhoneAdded      Action = "phone_added"
	EventPhoneEdited     Action = "phone_edited"
	EventPhoneRemoved    Action = "phone_removed"
	EventBirthdaySet     Action = "birthday_set"
)

// CategoryOf returns the category an action is filed under.
func CategoryOf(action string) Category {
	switch Action(action) {
	case EventContactDeleted, EventPhoneRemoved:
		return CategoryCompliance
	default:
		return CategoryOperations
	}
}
