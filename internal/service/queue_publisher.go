// Package service holds adapters that connect the booking core to
// outside systems.
package service

import (
    "context"
    "encoding/json"
    "errors"
    "log"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/config"
    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/model"
    q "github.com/TeamCluster/Nareum-Portal-Schedule/internal/queue"
)

// publishTimeout bounds how long a committed request waits on the broker.
const publishTimeout = 3 * time.Second

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
    QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
    PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
    Close() error
}

// Publisher sends ReservationConfirmedEvent messages to RabbitMQ.  It
// keeps one channel open and re-dials after a failure.  It implements
// booking.Notifier.
type Publisher struct {
    cfg  config.QueueConfig
    loc  *time.Location
    dial func(url string) (channel, func() error, error)

    mu      sync.Mutex
    ch      channel
    closeFn func() error
}

// NewPublisher returns a Publisher for cfg.  Event times are rendered
// in loc.  No connection is made until the first publish.
func NewPublisher(cfg config.QueueConfig, loc *time.Location) *Publisher {
    return &Publisher{cfg: cfg, loc: loc, dial: dialAMQP}
}

func dialAMQP(url string) (channel, func() error, error) {
    conn, err := amqp.Dial(url)
    if err != nil {
        return nil, nil, err
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, nil, err
    }
    return ch, conn.Close, nil
}

// NotifyConfirmed publishes the confirmation event of r.  Errors are
// logged and returned; the caller decides whether to ignore them.
func (p *Publisher) NotifyConfirmed(ctx context.Context, f model.Facility, r model.Reservation) error {
    return p.Publish(ctx, q.NewReservationConfirmedEvent(f, r, p.loc))
}

// Publish sends event as a persistent JSON message to the configured
// queue through the default exchange.
func (p *Publisher) Publish(ctx context.Context, event q.ReservationConfirmedEvent) error {
    body, err := json.Marshal(event)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }
    ctx, cancel := context.WithTimeout(ctx, publishTimeout)
    defer cancel()

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channelLocked()
    if err != nil {
        log.Printf("rabbitmq: connect failed: %v", err)
        return err
    }
    err = ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    })
    if err != nil {
        log.Printf("rabbitmq: publish reservation %d failed: %v", event.ReservationID, err)
        p.resetLocked()
        return err
    }
    return nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    return p.resetLocked()
}

func (p *Publisher) channelLocked() (channel, error) {
    if p.ch != nil {
        return p.ch, nil
    }
    ch, closeFn, err := p.dial(p.cfg.URL)
    if err != nil {
        return nil, err
    }
    if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        if closeFn != nil {
            _ = closeFn()
        }
        return nil, err
    }
    p.ch, p.closeFn = ch, closeFn
    return ch, nil
}

func (p *Publisher) resetLocked() error {
    var errs []error
    if p.ch != nil {
        errs = append(errs, p.ch.Close())
    }
    if p.closeFn != nil {
        errs = append(errs, p.closeFn())
    }
    p.ch, p.closeFn = nil, nil
    return errors.Join(errs...)
}
