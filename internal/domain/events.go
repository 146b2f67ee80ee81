package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCollectionLoaded    EventType = "CollectionLoaded"
	EventCollectionFailed    EventType = "CollectionFailed"
	EventSubmissionCompleted EventType = "SubmissionCompleted"
	EventItemDeleted         EventType = "ItemDeleted"
	EventSessionChanged      EventType = "SessionChanged"
	EventSessionExpired      EventType = "SessionExpired"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
	EventError               EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CollectionLoadedEvent is emitted after a screen refetched its collection
type CollectionLoadedEvent struct {
	Screen string
	Count  int
}

func (e CollectionLoadedEvent) Type() EventType { return EventCollectionLoaded }

// CollectionFailedEvent is emitted when a refetch fails
type CollectionFailedEvent struct {
	Screen string
	Err    error
}

func (e CollectionFailedEvent) Type() EventType { return EventCollectionFailed }

// SubmissionCompletedEvent is emitted when a form submission settles
type SubmissionCompletedEvent struct {
	Screen   string
	EntityID string
	Outcome  string
	Message  string
}

func (e SubmissionCompletedEvent) Type() EventType { return EventSubmissionCompleted }

// ItemDeletedEvent is emitted after a successful delete
type ItemDeletedEvent struct {
	Screen string
	ID     string
}

func (e ItemDeletedEvent) Type() EventType { return EventItemDeleted }

// SessionChangedEvent is emitted on login and logout
type SessionChangedEvent struct {
	LoggedIn bool
	Email    string
}

func (e SessionChangedEvent) Type() EventType { return EventSessionChanged }

// SessionExpiredEvent is emitted when the backend rejects the token
type SessionExpiredEvent struct {
	Screen string
}

func (e SessionExpiredEvent) Type() EventType { return EventSessionExpired }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	BaseURL string
	Screens []string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
