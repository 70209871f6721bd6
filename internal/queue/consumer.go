package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/TeamCluster/Nareum-Portal-Schedule/internal/config"
)

// LogFileName is the file the consumer appends to inside cfg.LogDir.
const LogFileName = "reservation.log"

// Consumer reads reservation.confirmed messages and appends one line per
// reservation to <LogDir>/reservation.log.
type Consumer struct {
    cfg config.QueueConfig
}

// NewConsumer returns a Consumer for cfg.
func NewConsumer(cfg config.QueueConfig) *Consumer { return &Consumer{cfg: cfg} }

// Run connects to RabbitMQ, declares the durable queue and consumes
// until ctx is cancelled.  Lost connections are re-dialled with
// exponential backoff capped at 30s.  Messages that cannot be handled
// are rejected without requeue so the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.cfg.URL)
        if err != nil {
            log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("reservation-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.ConsumeWithContext(ctx, c.cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := c.handleMessage(d.Body); err != nil {
            log.Printf("reservation-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func (c *Consumer) handleMessage(body []byte) error {
    var ev ReservationConfirmedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.ReservationID == 0 {
        return errors.New("event without reservation_id")
    }
    if err := os.MkdirAll(c.cfg.LogDir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", c.cfg.LogDir, err)
    }
    f, err := os.OpenFile(filepath.Join(c.cfg.LogDir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func formatLine(ev ReservationConfirmedEvent) string {
    return fmt.Sprintf("[%s] Reservation confirmed | reservation_id=%d | facility_id=%d | facility=%q | applicant=%q | date=%s | time=%s-%s | participants=%d | equipment=[%s]\n",
        ev.ConfirmedAt, ev.ReservationID, ev.FacilityID, ev.FacilityName, ev.ApplicantName, ev.Date,
        clockOf(ev.StartsAt), clockOf(ev.EndsAt), ev.Participants, strings.Join(ev.Equipment, ","))
}

// clockOf returns the HH:MM part of an RFC3339 timestamp, or s unchanged.
func clockOf(s string) string {
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return s
    }
    return t.Format("15:04")
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
