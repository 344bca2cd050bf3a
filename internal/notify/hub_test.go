package notify

import (
	"clientbook/internal/types"
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
)

type HubTestSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubTestSuite(t *testing.T) {
	suite.Run(t, new(HubTestSuite))
}

func (s *HubTestSuite) SetupTest() {
	s.hub = NewHub()
}

func (s *HubTestSuite) TestDeliversInSubscriptionOrder() {
	var got []string
	s.hub.Subscribe(func(c types.Change) { got = append(got, "first:"+c.ID) })
	s.hub.Subscribe(func(c types.Change) { got = append(got, "second:"+c.ID) })

	s.hub.Notify(types.Change{Op: types.OpCreate, ID: "c1"})
	s.Equal([]string{"first:c1", "second:c1"}, got)
}

func (s *HubTestSuite) TestUnsubscribe() {
	calls := 0
	unsubscribe := s.hub.Subscribe(func(types.Change) { calls++ })
	s.hub.Notify(types.Change{Op: types.OpDelete})
	unsubscribe()
	unsubscribe()
	s.hub.Notify(types.Change{Op: types.OpDelete})
	s.Equal(1, calls)
	s.Zero(s.hub.Len())
}

func (s *HubTestSuite) TestPanickingSubscriberDoesNotStopOthers() {
	delivered := false
	s.hub.Subscribe(func(types.Change) { panic("boom") })
	s.hub.Subscribe(func(types.Change) { delivered = true })
	s.NotPanics(func() { s.hub.Notify(types.Change{Op: types.OpUpdate}) })
	s.True(delivered)
}

func (s *HubTestSuite) TestSubscriberMayUnsubscribeDuringDelivery() {
	var unsubscribe func()
	calls := 0
	unsubscribe = s.hub.Subscribe(func(types.Change) {
		calls++
		unsubscribe()
	})
	s.hub.Notify(types.Change{Op: types.OpCreate})
	s.hub.Notify(types.Change{Op: types.OpCreate})
	s.Equal(1, calls)
}

type recordingPublisher struct {
	arn      string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) PublishRaw(ctx context.Context, arn string, payload []byte) error {
	p.arn = arn
	p.payloads = append(p.payloads, payload)
	return p.err
}

func (s *HubTestSuite) TestForwardTo() {
	pub := &recordingPublisher{}
	unsubscribe := ForwardTo(s.hub, pub, "arn:aws:sns:us-east-1:000000000000:clients")
	defer unsubscribe()

	s.hub.Notify(types.Change{Op: types.OpCreate, ID: "c42", At: 1700000000})
	s.Equal("arn:aws:sns:us-east-1:000000000000:clients", pub.arn)
	s.Require().Len(pub.payloads, 1)

	var change types.Change
	s.Require().NoError(json.Unmarshal(pub.payloads[0], &change))
	s.Equal(types.Change{Op: types.OpCreate, ID: "c42", At: 1700000000}, change)
}

func (s *HubTestSuite) TestForwardFailureIsSwallowed() {
	pub := &recordingPublisher{err: errors.New("sns down")}
	ForwardTo(s.hub, pub, "arn")
	s.NotPanics(func() { s.hub.Notify(types.Change{Op: types.OpDelete, ID: "x"}) })
	s.Len(pub.payloads, 1)
}
