package service

import (
	"context"

	"bizdirectory/cmd/internal/domain/events"
	"bizdirectory/cmd/internal/domain/sqlite/repository"
)

// EventBroadcaster pushes directory events to every open client connection.
// Services accept a nil broadcaster, events are then dropped.
type EventBroadcaster interface {
	Broadcast(ctx context.Context, evt events.SocketEvent)
}

func dispatch(b EventBroadcaster, evt events.SocketEvent) {
	if b == nil {
		return
	}
	go b.Broadcast(context.Background(), evt)
}

func dispatchScoreChanges(b EventBroadcaster, changes []*repository.ScoreChange) {
	for _, change := range changes {
		dispatch(b, &events.CompanyScoreUpdated{
			CompanyID: change.CompanyID,
			Score:     change.Score,
		})
	}
}
