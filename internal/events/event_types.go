package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOperatorRegistered      EventType = "operator_registered"
	EventStaffRegistered         EventType = "staff_registered"
	EventActivationCodeIssued    EventType = "activation_code_issued"
	EventPasswordResetRequested  EventType = "password_reset_requested"
	EventAccountActivated        EventType = "account_activated"
	EventStaffPasswordChanged    EventType = "staff_password_changed"
	EventOperatorPasswordChanged EventType = "operator_password_changed"
)

// Event represents a domain event emitted by the lifecycle services. Email
// identifies the affected account.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CodeIssuedPayload carries the rendered message body for the external
// notifier alongside delivery metadata.
type CodeIssuedPayload struct {
	Subject                 string  `json:"subject"`
	Body                    string  `json:"body"`
	TaxIdentificationNumber *string `json:"tax_identification_number,omitempty"`
}

// StaffRegisteredPayload describes a new staff membership.
type StaffRegisteredPayload struct {
	TaxIdentificationNumber *string `json:"tax_identification_number,omitempty"`
	CompanyRole             string  `json:"company_role"`
}

// AccountActivatedPayload reports the activation outcome.
type AccountActivatedPayload struct {
	PasswordSet bool `json:"password_set"`
}
