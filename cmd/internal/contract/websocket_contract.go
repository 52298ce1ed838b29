package contract

type EventType string

const (
	EventPing EventType = "ping"

	EventConnectionKill EventType = "CONNECTION_KILL"
	EventSessionExpired EventType = "SESSION_EXPIRED"
	EventAck            EventType = "ACK"

	EventCompanyCreated      EventType = "COMPANY_CREATED"
	EventCompanyUpdated      EventType = "COMPANY_UPDATED"
	EventCompanyDeleted      EventType = "COMPANY_DELETED"
	EventCompanyScoreUpdated EventType = "COMPANY_SCORE_UPDATED"
)

// IncomingSocketMessage is used for messages we receive from the users.
type IncomingSocketMessage struct {
	Type EventType `json:"type"`
}

// OutgoingSocketMessage is what we send to the Client
type OutgoingSocketMessage struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// KillCode tells the client why the server closed its connection.
type KillCode int

const (
	KillCodeAccountDeleted KillCode = 4001
	KillCodeSessionExpired KillCode = 4002
	KillCodeStale          KillCode = 4003
)
