package service

import (
    "context"
    "encoding/json"
    "errors"
    "testing"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/config"
    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
    q "github.com/TeamCluster/Nareum-Portal-Schedule/internal/queue"
)

type fakeChannel struct {
    declared   []string
    published  []amqp.Publishing
    keys       []string
    publishErr error
    closed     int
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
    f.declared = append(f.declared, name)
    return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
    if f.publishErr != nil {
        return f.publishErr
    }
    f.keys = append(f.keys, key)
    f.published = append(f.published, msg)
    return nil
}

func (f *fakeChannel) Close() error { f.closed++; return nil }

func newTestPublisher(chans ...*fakeChannel) (*Publisher, *int) {
    dials := 0
    p := NewPublisher(config.QueueConfig{URL: "amqp://test", Queue: "reservation.confirmed"}, time.UTC)
    p.dial = func(string) (channel, func() error, error) {
        if dials >= len(chans) {
            return nil, nil, errors.New("broker down")
        }
        ch := chans[dials]
        dials++
        return ch, func() error { return nil }, nil
    }
    return p, &dials
}

func TestPublisher_NotifyConfirmed(t *testing.T) {
    ch := &fakeChannel{}
    p, dials := newTestPublisher(ch)

    f := model.Facility{ID: 2, Name: "Meeting Room", Type: "meeting"}
    start := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
    r := model.Reservation{ID: 5, FacilityID: 2, ApplicantName: "Lee", StartTime: start, EndTime: start.Add(time.Hour)}

    require.NoError(t, p.NotifyConfirmed(context.Background(), f, r))
    require.NoError(t, p.NotifyConfirmed(context.Background(), f, r))

    assert.Equal(t, 1, *dials, "channel is reused")
    assert.Equal(t, []string{"reservation.confirmed"}, ch.declared)
    require.Len(t, ch.published, 2)
    assert.Equal(t, "reservation.confirmed", ch.keys[0])
    assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

    var ev q.ReservationConfirmedEvent
    require.NoError(t, json.Unmarshal(ch.published[0].Body, &ev))
    assert.Equal(t, uint64(5), ev.ReservationID)
    assert.Equal(t, "Meeting Room", ev.FacilityName)
}

func TestPublisher_RedialsAfterFailure(t *testing.T) {
    broken := &fakeChannel{publishErr: errors.New("channel closed")}
    healthy := &fakeChannel{}
    p, dials := newTestPublisher(broken, healthy)

    ev := q.ReservationConfirmedEvent{ReservationID: 1}
    assert.Error(t, p.Publish(context.Background(), ev))
    assert.Equal(t, 1, broken.closed)

    require.NoError(t, p.Publish(context.Background(), ev))
    assert.Equal(t, 2, *dials)
    assert.Len(t, healthy.published, 1)
    require.NoError(t, p.Close())
}

func TestPublisher_DialError(t *testing.T) {
    p, _ := newTestPublisher()
    assert.Error(t, p.Publish(context.Background(), q.ReservationConfirmedEvent{ReservationID: 1}))
}
