package realtime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/playroom-games/playroom/internal/model"
	"github.com/playroom-games/playroom/internal/realtime"
	"github.com/playroom-games/playroom/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	manager *realtime.HubManager
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.manager = realtime.NewHubManager(testutil.NopLogger())
}

func (s *HubSuite) subscribe(roomID model.RoomID, playerID model.PlayerID) *realtime.Subscriber {
	hub := s.manager.GetOrCreateHub(roomID)
	sub := realtime.NewSubscriber(hub, playerID)
	hub.Register(sub)
	s.Require().Eventually(func() bool {
		return hub.SubscriberCount() > 0
	}, time.Second, time.Millisecond)
	return sub
}

func (s *HubSuite) receive(sub *realtime.Subscriber) realtime.Message {
	select {
	case data, ok := <-sub.Send():
		s.Require().True(ok, "send channel closed")
		var msg realtime.Message
		s.Require().NoError(json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		s.Require().FailNow("timed out waiting for message")
		return realtime.Message{}
	}
}

func (s *HubSuite) TestPublishReachesAllSubscribers() {
	sub1 := s.subscribe("ABC123", "conn-1")
	sub2 := s.subscribe("ABC123", "conn-2")

	s.manager.Publish("ABC123", realtime.Message{Type: model.EventScoreUpdate})

	s.Equal(model.EventScoreUpdate, s.receive(sub1).Type)
	s.Equal(model.EventScoreUpdate, s.receive(sub2).Type)
}

func (s *HubSuite) TestPublishIsScopedToRoom() {
	sub1 := s.subscribe("ABC123", "conn-1")
	sub2 := s.subscribe("XYZ789", "conn-2")

	s.manager.Publish("ABC123", realtime.Message{Type: model.EventRoundUpdated})

	s.Equal(model.EventRoundUpdated, s.receive(sub1).Type)
	select {
	case data := <-sub2.Send():
		s.Failf("unexpected message", "got %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *HubSuite) TestSendToTargetsOnePlayer() {
	target := s.subscribe("ABC123", "conn-1")
	other := s.subscribe("ABC123", "conn-2")

	s.manager.SendTo("ABC123", "conn-1", realtime.Message{
		Type:    model.EventError,
		Payload: model.ErrorPayload{Message: "Room not found"},
	})

	msg := s.receive(target)
	s.Equal(model.EventError, msg.Type)

	select {
	case data := <-other.Send():
		s.Failf("error leaked to other subscriber", "got %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *HubSuite) TestPublishToUnknownRoomIsNoOp() {
	s.NotPanics(func() {
		s.manager.Publish("NOPE00", realtime.Message{Type: model.EventScoreUpdate})
	})
}

func (s *HubSuite) TestUnregisterClosesSendChannel() {
	hub := s.manager.GetOrCreateHub("ABC123")
	sub := s.subscribe("ABC123", "conn-1")

	hub.Unregister(sub)

	s.Require().Eventually(func() bool {
		select {
		case _, ok := <-sub.Send():
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func (s *HubSuite) TestCloseRoomDisconnectsSubscribers() {
	sub := s.subscribe("ABC123", "conn-1")

	s.manager.CloseRoom("ABC123")

	s.Require().Eventually(func() bool {
		select {
		case _, ok := <-sub.Send():
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	s.Nil(s.manager.GetHub("ABC123"))
}

func (s *HubSuite) TestCloseRoomTwiceIsSafe() {
	s.subscribe("ABC123", "conn-1")
	s.manager.CloseRoom("ABC123")
	s.NotPanics(func() { s.manager.CloseRoom("ABC123") })
}
