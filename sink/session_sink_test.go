package sink

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"neon-arena/domain"
	"neon-arena/domain/event"
	"neon-arena/mocks"
)

func TestSessionSink_PersistsLifecycleSnapshots(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repository := mocks.NewMockISessionRepository(ctrl)
	s := NewSessionSink(repository, slog.Default())

	snapshot := domain.Snapshot{GameID: "session-1", Status: domain.StatusActive}

	// Every lifecycle event carrying a snapshot is mirrored to storage
	repository.EXPECT().Update(snapshot).Return(nil).Times(3)

	req.NoError(s.Consume(context.Background(), event.SessionStarted{ID: "session-1", Snapshot: snapshot}))
	req.NoError(s.Consume(context.Background(), event.StateBroadcast{ID: "session-1", Snapshot: snapshot}))
	req.NoError(s.Consume(context.Background(), event.SessionEnded{ID: "session-1", Snapshot: snapshot}))
}

func TestSessionSink_IgnoresAddressedEvents(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Addressed snapshots and rejections never touch the repository
	repository := mocks.NewMockISessionRepository(ctrl)
	s := NewSessionSink(repository, slog.Default())

	req.NoError(s.Consume(context.Background(), event.StateSnapshot{ID: "session-1", To: 1}))
	req.NoError(s.Consume(context.Background(), event.CommandRejected{ID: "session-1", To: 1}))
}
