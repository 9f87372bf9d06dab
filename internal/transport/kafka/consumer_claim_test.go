package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"delivery-allocation/internal/service/checkin"
	testlog "delivery-allocation/internal/testutil"
)

type fakeSession struct {
	ctx context.Context

	mu     sync.Mutex
	marked int
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(*sarama.ConsumerMessage, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked++
}

func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "" }
func (s *fakeSession) GenerationID() int32                      { return 0 }

func (s *fakeSession) MarkedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marked
}

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (c fakeClaim) Topic() string              { return "t" }
func (c fakeClaim) Partition() int32           { return 0 }
func (c fakeClaim) InitialOffset() int64       { return 0 }
func (c fakeClaim) HighWaterMarkOffset() int64 { return 0 }
func (c fakeClaim) Messages() <-chan *sarama.ConsumerMessage {
	return c.ch
}

func claimOf(values ...[]byte) fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(values))
	for i, v := range values {
		ch <- &sarama.ConsumerMessage{Value: v, Offset: int64(i)}
	}
	close(ch)
	return fakeClaim{ch: ch}
}

func encode(t *testing.T, dto EventDTO) []byte {
	t.Helper()
	b, err := json.Marshal(dto)
	require.NoError(t, err)
	return b
}

func TestConsumeClaim_BadJSON_Skips(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, checkin.Event) error {
			t.Fatal("handler must not be called")
			return nil
		},
	}
	h := &groupHandler{c: c}

	sess := &fakeSession{ctx: context.Background()}
	err := h.ConsumeClaim(sess, claimOf([]byte("not-json")))
	require.NoError(t, err)
	require.Equal(t, 1, sess.MarkedCount())
	require.True(t, rec.Has("kafka bad json"))
}

func TestConsumeClaim_EmptyAgentID_Skips(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	calls := 0
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, checkin.Event) error {
			calls++
			return nil
		},
	}
	h := &groupHandler{c: c}

	sess := &fakeSession{ctx: context.Background()}
	err := h.ConsumeClaim(sess, claimOf(encode(t, EventDTO{Type: "check_in", AgentID: "   "})))
	require.NoError(t, err)
	require.Equal(t, 1, sess.MarkedCount())
	require.Equal(t, 0, calls)
	require.True(t, rec.Has("kafka empty agent_id"))
}

func TestConsumeClaim_PermanentError_SkipsButMarks(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, checkin.Event) error {
			return Permanent(errors.New("bad payload"))
		},
	}
	h := &groupHandler{c: c}

	sess := &fakeSession{ctx: context.Background()}
	dto := EventDTO{Type: "check_in", AgentID: "a1", OccurredAt: time.Now().UTC()}
	err := h.ConsumeClaim(sess, claimOf(encode(t, dto)))
	require.NoError(t, err)
	require.Equal(t, 1, sess.MarkedCount())
	require.True(t, rec.Has("kafka handle failed, skipping message"))
}

func TestConsumeClaim_TransientError_StopsWithoutMarking(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	sentinel := errors.New("db down")
	calls := 0
	c := &Consumer{
		logger: rec.Logger(),
		handler: func(context.Context, checkin.Event) error {
			calls++
			return sentinel
		},
	}
	h := &groupHandler{c: c}

	sess := &fakeSession{ctx: context.Background()}
	first := encode(t, EventDTO{Type: "check_in", AgentID: "a1"})
	second := encode(t, EventDTO{Type: "check_in", AgentID: "a2"})

	err := h.ConsumeClaim(sess, claimOf(first, second))
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 1, calls)
	require.Equal(t, 0, sess.MarkedCount())
	require.True(t, rec.Has("kafka handle failed, will retry"))
}

func TestConsumeClaim_Success_Marks(t *testing.T) {
	t.Parallel()

	var got []checkin.Event
	c := &Consumer{
		logger: testlog.New().Logger(),
		handler: func(_ context.Context, ev checkin.Event) error {
			got = append(got, ev)
			return nil
		},
	}
	h := &groupHandler{c: c}

	sess := &fakeSession{ctx: context.Background()}
	err := h.ConsumeClaim(sess, claimOf(
		encode(t, EventDTO{Type: "check_in", AgentID: "a1"}),
		encode(t, EventDTO{Type: "CHECK_OUT", AgentID: "a2"}),
	))
	require.NoError(t, err)
	require.Equal(t, 2, sess.MarkedCount())
	require.Len(t, got, 2)
	require.Equal(t, checkin.TypeCheckIn, got[0].Type)
	require.Equal(t, checkin.TypeCheckOut, got[1].Type)
	require.Equal(t, "a2", got[1].AgentID)
}

