// Package session owns the active partition cursor. Requests are issued
// from the UI goroutine without blocking; fetches run on worker goroutines
// and only the most recently issued request may update the cursor.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kerr"

	"github.com/atomicstack/kafka2i/internal/clipboard"
	kerrors "github.com/atomicstack/kafka2i/internal/errors"
	"github.com/atomicstack/kafka2i/internal/kafka"
	"github.com/atomicstack/kafka2i/internal/logging/events"
	"github.com/atomicstack/kafka2i/internal/state"
)

// Formatter renders a message into the text placed on the clipboard.
type Formatter func(kafka.Message) string

// Options configures a Controller.
type Options struct {
	Cluster   kafka.Cluster
	Store     *state.Store
	Clipboard clipboard.Copier
	Format    Formatter
	// Timeout bounds a single request. Zero leaves it to the cluster.
	Timeout time.Duration
}

type requestKind int

const (
	requestSeek requestKind = iota
	requestStep
	requestEdge
)

type request struct {
	kind      requestKind
	seq       uint64
	topic     string
	partition int32
	pos       kafka.Position
	from      int64
	dir       kafka.Direction
}

type result struct {
	msg kafka.Message
	err error
}

// Controller is the session controller for a single UI.
type Controller struct {
	cluster kafka.Cluster
	store   *state.Store
	copier  clipboard.Copier
	format  Formatter
	timeout time.Duration

	// copyMu orders clipboard writes; it is taken before mu.
	copyMu sync.Mutex

	mu       sync.Mutex
	cursor   Cursor
	seq      uint64
	version  uint64
	inflight context.CancelFunc
	closed   bool

	ctx     context.Context
	stop    context.CancelFunc
	updates chan Cursor
	wg      sync.WaitGroup
}

// New creates a controller with nothing selected.
func New(opts Options) *Controller {
	copier := opts.Clipboard
	if copier == nil {
		copier = clipboard.Nop
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Controller{
		cluster: opts.Cluster,
		store:   opts.Store,
		copier:  copier,
		format:  opts.Format,
		timeout: opts.Timeout,
		ctx:     ctx,
		stop:    stop,
		updates: make(chan Cursor, 1),
	}
}

// Updates delivers published cursors. Only the newest unread cursor is
// retained; it is closed by Close.
func (c *Controller) Updates() <-chan Cursor {
	return c.updates
}

// Cursor returns the latest published cursor.
func (c *Controller) Cursor() Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// SelectPartition makes topic/partition active with a fresh cursor. Any
// in-flight request is abandoned. No fetch is issued.
func (c *Controller) SelectPartition(topic string, partition int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.abandonLocked()
	c.seq++
	c.cursor = Cursor{Topic: topic, Partition: partition, Selected: true, Seq: c.seq}
	events.Session.Select(c.cursor.Name(), c.seq)
	c.publishLocked()
}

// Seek loads the message at pos.
func (c *Controller) Seek(pos kafka.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.readyLocked() {
		return
	}
	c.issueLocked(request{kind: requestSeek, pos: pos}, pos, true)
}

// Navigate loads the message adjacent to the current one. With no offset
// loaded yet, Next loads the first message and Previous the last.
func (c *Controller) Navigate(dir kafka.Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.readyLocked() {
		return
	}
	if from, ok := c.cursor.base(); ok {
		c.issueLocked(request{kind: requestStep, from: from, dir: dir}, kafka.AtOffset(dir.Step(from)), true)
		return
	}
	c.issueLocked(request{kind: requestEdge, dir: dir}, kafka.Position{}, false)
}

// Close abandons in-flight work, waits for workers and closes Updates.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.abandonLocked()
	c.stop()
	c.mu.Unlock()

	c.wg.Wait()
	close(c.updates)
}

func (c *Controller) readyLocked() bool {
	if c.closed {
		return false
	}
	if !c.cursor.Selected {
		c.cursor.Err = kerrors.NoPartitionSelected()
		c.publishLocked()
		return false
	}
	return true
}

func (c *Controller) issueLocked(req request, target kafka.Position, known bool) {
	c.abandonLocked()
	c.seq++
	req.seq = c.seq
	req.topic = c.cursor.Topic
	req.partition = c.cursor.Partition

	c.cursor.Seq = c.seq
	c.cursor.Pending = true
	c.cursor.Target = target
	c.cursor.TargetKnown = known
	events.Session.Request(c.cursor.Name(), describe(req), req.seq)
	c.publishLocked()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.timeout)
	} else {
		ctx, cancel = context.WithCancel(c.ctx)
	}
	c.inflight = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		res := c.run(ctx, req)
		c.complete(req, res)
	}()
}

// abandonLocked cancels the in-flight request. Its result is still checked
// against the sequence number on arrival.
func (c *Controller) abandonLocked() {
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
}

// publishLocked replaces any unread cursor with the current one.
func (c *Controller) publishLocked() {
	c.version++
	c.cursor.Version = c.version
	select {
	case <-c.updates:
	default:
	}
	c.updates <- c.cursor
}

func (c *Controller) complete(req request, res result) {
	c.mu.Lock()
	if c.closed || req.seq != c.seq || !c.cursor.Is(req.topic, req.partition) {
		current := c.seq
		c.mu.Unlock()
		events.Session.Superseded(kafka.PartitionName(req.topic, req.partition), req.seq, current)
		return
	}
	c.inflight = nil

	if res.err != nil {
		c.cursor.Pending = false
		c.cursor.TargetKnown = false
		c.cursor.Err = res.err
		c.publishLocked()
		c.mu.Unlock()
		events.Session.Failed(c.cursorName(req), req.seq, res.err)
		slog.Debug("session request failed", "partition", c.cursorName(req), "request", describe(req), "err", res.err)
		return
	}

	msg := res.msg
	c.cursor = Cursor{
		Topic:     req.topic,
		Partition: req.partition,
		Selected:  true,
		Offset:    msg.Offset,
		HasOffset: true,
		Message:   &msg,
		Seq:       req.seq,
	}
	c.publishLocked()
	c.mu.Unlock()
	events.Session.Loaded(c.cursorName(req), msg.Offset, req.seq)

	c.copy(req, msg)
}

func (c *Controller) cursorName(req request) string {
	return kafka.PartitionName(req.topic, req.partition)
}

// copy hands the display text to the clipboard once the cursor shows the
// message. A request superseded before its copy runs is skipped so the
// clipboard never goes back to an older message. Failures are only logged.
func (c *Controller) copy(req request, msg kafka.Message) {
	if c.format == nil {
		return
	}
	c.copyMu.Lock()
	defer c.copyMu.Unlock()
	c.mu.Lock()
	latest := req.seq == c.seq
	c.mu.Unlock()
	if !latest {
		slog.Debug("skip clipboard copy of superseded message", "partition", c.cursorName(req), "offset", msg.Offset, "request", req.seq)
		return
	}
	if err := c.copier.Copy(c.format(msg)); err != nil {
		slog.Warn("copy message to clipboard", "offset", msg.Offset, "err", err)
	}
}

func (c *Controller) run(ctx context.Context, req request) result {
	switch req.kind {
	case requestSeek:
		if req.pos.Kind == kafka.PositionTimestamp {
			return c.seekTimestamp(ctx, req)
		}
		return c.seekOffset(ctx, req, req.pos.Value, func() (kafka.Message, error) {
			return c.cluster.AssignAndFetch(ctx, req.topic, req.partition, req.pos)
		})
	case requestStep:
		target := req.dir.Step(req.from)
		return c.seekOffset(ctx, req, target, func() (kafka.Message, error) {
			return c.cluster.FetchAdjacent(ctx, req.topic, req.partition, req.from, req.dir)
		})
	default:
		return c.seekEdge(ctx, req)
	}
}

func (c *Controller) seekOffset(ctx context.Context, req request, target int64, fetch func() (kafka.Message, error)) result {
	wm, err := c.validate(ctx, req, target)
	if err != nil {
		return result{err: err}
	}
	msg, err := fetch()
	if err != nil {
		return result{err: classify(req, target, wm, err)}
	}
	return result{msg: msg}
}

func (c *Controller) seekTimestamp(ctx context.Context, req request) result {
	wm, ok := c.cached(req)
	if !ok || wm.Empty() {
		live, err := c.cluster.Watermarks(ctx, req.topic, req.partition)
		if err != nil {
			return result{err: classify(req, 0, wm, err)}
		}
		wm = live
	}
	if wm.Empty() {
		return result{err: kerrors.OffsetOutOfRange(wm.Low, wm.Low, wm.High)}
	}
	msg, err := c.cluster.AssignAndFetch(ctx, req.topic, req.partition, req.pos)
	if err != nil {
		return result{err: classify(req, 0, wm, err)}
	}
	return result{msg: msg}
}

func (c *Controller) seekEdge(ctx context.Context, req request) result {
	wm, err := c.cluster.Watermarks(ctx, req.topic, req.partition)
	if err != nil {
		return result{err: classify(req, 0, kafka.Watermarks{}, err)}
	}
	if wm.Empty() {
		return result{err: kerrors.OffsetOutOfRange(wm.Low, wm.Low, wm.High)}
	}
	target := wm.Low
	if req.dir == kafka.Previous {
		target = wm.High - 1
	}
	msg, err := c.cluster.AssignAndFetch(ctx, req.topic, req.partition, kafka.AtOffset(target))
	if err != nil {
		return result{err: classify(req, target, wm, err)}
	}
	return result{msg: msg}
}

// validate checks target against the cached watermarks. A target at or past
// the cached high watermark is re-checked live since the log may have grown.
func (c *Controller) validate(ctx context.Context, req request, target int64) (kafka.Watermarks, error) {
	wm, ok := c.cached(req)
	if ok && target < wm.Low && !wm.Empty() {
		return wm, kerrors.OffsetOutOfRange(target, wm.Low, wm.High)
	}
	if !ok || target >= wm.High || wm.Empty() {
		live, err := c.cluster.Watermarks(ctx, req.topic, req.partition)
		if err != nil {
			return wm, classify(req, target, wm, err)
		}
		wm = live
	}
	if !wm.Contains(target) {
		return wm, kerrors.OffsetOutOfRange(target, wm.Low, wm.High)
	}
	return wm, nil
}

func (c *Controller) cached(req request) (kafka.Watermarks, bool) {
	if c.store == nil {
		return kafka.Watermarks{}, false
	}
	p, ok := c.store.Snapshot().Partition(req.topic, req.partition)
	if !ok {
		return kafka.Watermarks{}, false
	}
	return p.Watermarks(), true
}

// classify maps a cluster failure onto the session error taxonomy.
func classify(req request, target int64, wm kafka.Watermarks, err error) error {
	var typed *kerrors.Error
	switch {
	case errors.As(err, &typed):
		return err
	case errors.Is(err, kafka.ErrNoMessageAtTimestamp):
		return kerrors.NoMessageAtTimestamp(req.pos.Value)
	case errors.Is(err, kerr.OffsetOutOfRange):
		return kerrors.OffsetOutOfRange(target, wm.Low, wm.High)
	case errors.Is(err, kerr.UnknownTopicOrPartition),
		errors.Is(err, kerr.NotLeaderForPartition),
		errors.Is(err, kafka.ErrPartitionNotFound):
		return kerrors.AssignmentFailed(req.topic, req.partition, err)
	default:
		return kerrors.ConnectionFailed("session.Fetch", err)
	}
}

func describe(req request) string {
	switch req.kind {
	case requestSeek:
		return req.pos.String()
	case requestStep:
		return req.dir.String() + " from " + kafka.AtOffset(req.from).String()
	default:
		return req.dir.String() + " edge"
	}
}
