package events

import "bizdirectory/cmd/internal/contract"

type SocketEvent interface {
	GetType() contract.EventType
}

type Ack struct{}

func (*Ack) GetType() contract.EventType {
	return contract.EventAck
}

type ConnectionKill struct {
	Code   contract.KillCode `json:"code"`
	Reason *string           `json:"reason,omitempty"`
}

func (e *ConnectionKill) GetType() contract.EventType {
	return contract.EventConnectionKill
}

type SessionExpired struct{}

func (*SessionExpired) GetType() contract.EventType {
	return contract.EventSessionExpired
}

// CompanyCreated carries the new company so map clients can place it
// without refetching.
type CompanyCreated struct {
	*contract.CompanyResponse
}

func (e *CompanyCreated) GetType() contract.EventType {
	return contract.EventCompanyCreated
}

type CompanyUpdated struct {
	*contract.CompanyResponse
}

func (e *CompanyUpdated) GetType() contract.EventType {
	return contract.EventCompanyUpdated
}

type CompanyDeleted struct {
	CompanyID int `json:"id"`
}

func (e *CompanyDeleted) GetType() contract.EventType {
	return contract.EventCompanyDeleted
}

type CompanyScoreUpdated struct {
	CompanyID int     `json:"id"`
	Score     float64 `json:"score"`
}

func (e *CompanyScoreUpdated) GetType() contract.EventType {
	return contract.EventCompanyScoreUpdated
}
