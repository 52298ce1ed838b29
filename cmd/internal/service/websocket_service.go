package service

import (
	"context"
	"time"

	"bizdirectory/cmd/internal/contract"
	"bizdirectory/cmd/internal/domain/entity"
	"bizdirectory/cmd/internal/domain/events"
	"bizdirectory/cmd/internal/infrastructure/aws/websocket"
	"bizdirectory/cmd/internal/metrics"
	"bizdirectory/cmd/internal/utils"
	"bizdirectory/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// killGracePeriod lets the kill message reach the client before the
// connection is dropped.
const killGracePeriod = 200 * time.Millisecond

type WebSocketService struct {
	ConnRepo ConnectionRepository
	Gateway  websocket.GatewayClient
}

func NewWebSocketService(repo ConnectionRepository, gateway websocket.GatewayClient) *WebSocketService {
	return &WebSocketService{
		ConnRepo: repo,
		Gateway:  gateway,
	}
}

func (s *WebSocketService) RegisterConnection(userID string, connectionID string, exp int64) apierror.ErrorResponse {
	now := utils.NowUTC()
	conn := &entity.Connection{
		ConnectionID:    connectionID,
		UserID:          userID,
		ExpiresAt:       exp * 1000, // "exp" is stored in seconds, our app uses millis
		LastHeartbeatAt: now,        // Avoid users getting disconnected immediately
		CreatedAt:       now,
	}

	if err := s.ConnRepo.Save(conn); err != nil {
		log.Errorf("failed to save connection: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *WebSocketService) RemoveConnection(connectionID string) {
	// We don't return error here because if it fails, it's not the client's fault
	if err := s.ConnRepo.Delete(connectionID); err != nil {
		log.Warnf("failed to remove connection %s: %v", connectionID, err)
	}
}

func (s *WebSocketService) HandleMessage(msg *contract.IncomingSocketMessage, connID string) {
	switch msg.Type {
	case contract.EventPing:
		s.handlePing(connID)
	}
}

// TerminateUserConnections sends a "poison pill" message and then disconnects
func (s *WebSocketService) TerminateUserConnections(ctx context.Context, userID string, ck *events.ConnectionKill) {
	conns, err := s.ConnRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch connections for user %s: %v", userID, err)
		return
	}

	for _, connID := range conns {
		s.DispatchToConnection(ctx, connID, ck)
	}

	time.Sleep(killGracePeriod)
	for _, connID := range conns {
		s.dropConnection(ctx, connID)
	}
}

func (s *WebSocketService) DispatchToConnection(ctx context.Context, connID string, evt events.SocketEvent) {
	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}
	_ = s.Gateway.PostToConnection(ctx, connID, envelope)
}

// Broadcast sends an event to ALL connected users.
// This iterates through every active connection in the DB.
func (s *WebSocketService) Broadcast(ctx context.Context, evt events.SocketEvent) {
	conns, err := s.ConnRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch all connections for broadcast: %v", err)
		return
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}

	for _, connID := range conns {
		// We ignore errors here so one stale connection doesn't block others
		_ = s.Gateway.PostToConnection(ctx, connID, envelope)
	}
	metrics.EventBroadcast(string(evt.GetType()))
}

// SweepStale closes the connections whose token expired or that stopped
// sending heartbeats. It returns how many were closed.
func (s *WebSocketService) SweepStale(ctx context.Context) int {
	now := utils.NowUTC()
	hbLimit := now - entity.HeartbeatPeriodMillis - entity.HeartbeatToleranceMillis

	conns, err := s.ConnRepo.FindStale(now, hbLimit)
	if err != nil {
		log.Errorf("failed to fetch stale connections: %v", err)
		return 0
	}

	for _, conn := range conns {
		// Tell the client so it knows NOT to try reconnecting with the same token
		if conn.ExpiresAt < now {
			s.DispatchToConnection(ctx, conn.ConnectionID, &events.SessionExpired{})
		}
		s.dropConnection(ctx, conn.ConnectionID)
	}
	return len(conns)
}

func (s *WebSocketService) dropConnection(ctx context.Context, connID string) {
	_ = s.Gateway.DeleteConnection(ctx, connID)
	s.RemoveConnection(connID)
}

func (s *WebSocketService) handlePing(connID string) {
	now := utils.NowUTC()
	err := s.ConnRepo.UpdateHeartbeat(connID, now)
	if err != nil {
		log.Errorf("failed to update heartbeat: %v", err)
		return
	}

	go s.DispatchToConnection(context.Background(), connID, &events.Ack{})
}
