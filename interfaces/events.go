package interfaces

// EventName identifies the type of a registry event.
type EventName string

// Event names, preserved exactly for external observers that subscribe to or
// replay the log.
const (
	EventCertificateIssued    EventName = "CertificateIssued"
	EventCertificateRevoked   EventName = "CertificateRevoked"
	EventIssuerAuthorized     EventName = "IssuerAuthorized"
	EventIssuerRevoked        EventName = "IssuerRevoked"
	EventOwnershipTransferred EventName = "OwnershipTransferred"
)

// Event is a structured record emitted by every state-mutating registry
// operation. Concrete payload types carry the indexed key fields.
type Event interface {
	Name() EventName
}

// CertificateIssuedEvent is emitted once per successful issuance.
type CertificateIssuedEvent struct {
	CertificateID      CertificateID `json:"certificate_id"`
	RecipientName      string        `json:"recipient_name"`
	CourseName         string        `json:"course_name"`
	IssuingInstitution string        `json:"issuing_institution"`
	IssueDate          int64         `json:"issue_date"`
}

func (CertificateIssuedEvent) Name() EventName { return EventCertificateIssued }

// CertificateRevokedEvent is emitted when a certificate transitions to
// invalid. The transition is one-way; no corresponding un-revoke event
// exists.
type CertificateRevokedEvent struct {
	CertificateID CertificateID `json:"certificate_id"`
}

func (CertificateRevokedEvent) Name() EventName { return EventCertificateRevoked }

// IssuerAuthorizedEvent is emitted when the owner authorizes an issuer.
type IssuerAuthorizedEvent struct {
	Issuer Identity `json:"issuer"`
}

func (IssuerAuthorizedEvent) Name() EventName { return EventIssuerAuthorized }

// IssuerRevokedEvent is emitted when the owner deactivates an issuer.
type IssuerRevokedEvent struct {
	Issuer Identity `json:"issuer"`
}

func (IssuerRevokedEvent) Name() EventName { return EventIssuerRevoked }

// OwnershipTransferredEvent is emitted when the owner identity is replaced.
type OwnershipTransferredEvent struct {
	OldOwner Identity `json:"old_owner"`
	NewOwner Identity `json:"new_owner"`
}

func (OwnershipTransferredEvent) Name() EventName { return EventOwnershipTransferred }
