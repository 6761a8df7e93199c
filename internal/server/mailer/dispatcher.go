package mailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/logging"
)

const defaultSendTimeout = 30 * time.Second

// Dispatcher queues messages and delivers them with a fixed pool of workers.
// Submission never blocks: when the queue is full or the dispatcher is
// stopped the message is dropped and the drop is logged.
type Dispatcher struct {
	sender      Sender
	logger      logging.Logger
	queue       chan Message
	workers     int
	sendTimeout time.Duration
	validFor    string

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, logger logging.Logger, queueSize, workers int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		sender:      sender,
		logger:      logger.With("module", "mailer"),
		queue:       make(chan Message, queueSize),
		workers:     workers,
		sendTimeout: defaultSendTimeout,
		validFor:    "24 hours",
	}
}

// WithLinkValidity sets the human readable link lifetime printed in
// verification mails.
func (d *Dispatcher) WithLinkValidity(ttl time.Duration) *Dispatcher {
	d.validFor = describeTTL(ttl)
	return d
}

func describeTTL(ttl time.Duration) string {
	switch {
	case ttl == time.Hour:
		return "1 hour"
	case ttl > time.Hour && ttl%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(ttl/time.Hour))
	case ttl > time.Minute && ttl%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(ttl/time.Minute))
	default:
		return ttl.String()
	}
}

// Start launches the workers. Sends already in flight are allowed to finish
// after ctx is cancelled; call Stop to drain the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.work(context.WithoutCancel(ctx))
		}()
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	for msg := range d.queue {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		if err := d.sender.Send(sendCtx, msg); err != nil {
			d.logger.Error(ctx, "mail delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
		} else {
			d.logger.Debug(ctx, "mail delivered", "to", msg.To, "subject", msg.Subject)
		}
		cancel()
	}
}

// Submit enqueues msg without blocking and reports whether it was accepted.
func (d *Dispatcher) Submit(ctx context.Context, msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.logger.Warn(ctx, "mail dropped: dispatcher stopped", "to", msg.To)
		return false
	}

	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn(ctx, "mail dropped: queue full", "to", msg.To)
		return false
	}
}

// NotifyVerification renders and enqueues the verification mail for email.
func (d *Dispatcher) NotifyVerification(ctx context.Context, email, link string) {
	msg, err := VerificationMessage(email, link, d.validFor)
	if err != nil {
		d.logger.Error(ctx, "verification mail not sent", "to", email, "error", err)
		return
	}
	d.Submit(ctx, msg)
}

// Stop rejects new messages, lets the workers drain the queue and waits
// for them to exit. It is safe to call more than once.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
