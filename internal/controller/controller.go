// Package controller wires the segment lookup and recommendation flows to a view.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	apperrors "customer-insights/internal/common/errors"
	"customer-insights/internal/common/logger"
	"customer-insights/internal/common/metrics"
	recommendation "customer-insights/internal/flows/recommendation"
	segmentlookup "customer-insights/internal/flows/segment-lookup"
	"customer-insights/internal/view"
)

// Flow is the shape shared by both flow handlers.
type Flow interface {
	Handle(ctx context.Context, v view.View, input string) error
}

var (
	_ Flow = (*segmentlookup.Handler)(nil)
	_ Flow = (*recommendation.Handler)(nil)
)

const (
	OutcomeSuccess   = "success"
	OutcomeNotFound  = "not_found"
	OutcomeFailed    = "failed"
	OutcomeMalformed = "malformed"
	OutcomePanic     = "panic"
	OutcomeIgnored   = "ignored"
)

// Controller owns one view and dispatches user actions to the two flows.
// Each control runs at most one flow at a time; the two controls are independent.
type Controller struct {
	segment   Flow
	recommend Flow
	view      view.View
	logger    logger.Logger

	segmentBusy   atomic.Bool
	recommendBusy atomic.Bool
}

func New(segment, recommend Flow, v view.View, log logger.Logger) *Controller {
	return &Controller{
		segment:   segment,
		recommend: recommend,
		view:      v,
		logger:    log,
	}
}

// LookupSegment runs the segment flow on the calling goroutine.
func (c *Controller) LookupSegment(ctx context.Context, customerID string) error {
	if !c.claim(segmentlookup.TaskType, &c.segmentBusy) {
		return ErrControlBusy
	}
	return c.run(ctx, segmentlookup.TaskType, c.segment, &c.segmentBusy, customerID)
}

// Recommend runs the recommendation flow on the calling goroutine.
func (c *Controller) Recommend(ctx context.Context, productName string) error {
	if !c.claim(recommendation.TaskType, &c.recommendBusy) {
		return ErrControlBusy
	}
	return c.run(ctx, recommendation.TaskType, c.recommend, &c.recommendBusy, productName)
}

// OnSegmentClick schedules the segment flow and returns immediately.
// The returned channel closes once the outcome has been rendered. When the
// control is still busy the click is ignored: the channel is already closed
// and the error is ErrControlBusy.
func (c *Controller) OnSegmentClick(ctx context.Context, customerID string) (<-chan struct{}, error) {
	return c.dispatch(ctx, segmentlookup.TaskType, c.segment, &c.segmentBusy, customerID)
}

// OnRecommendClick schedules the recommendation flow and returns immediately.
func (c *Controller) OnRecommendClick(ctx context.Context, productName string) (<-chan struct{}, error) {
	return c.dispatch(ctx, recommendation.TaskType, c.recommend, &c.recommendBusy, productName)
}

// dispatch claims the control before the goroutine starts, so a click that
// follows immediately sees it busy.
func (c *Controller) dispatch(ctx context.Context, flow string, f Flow, busy *atomic.Bool, input string) (<-chan struct{}, error) {
	done := make(chan struct{})
	if !c.claim(flow, busy) {
		close(done)
		return done, ErrControlBusy
	}

	go func() {
		defer close(done)
		_ = c.run(ctx, flow, f, busy, input)
	}()
	return done, nil
}

// ErrControlBusy is returned when a click lands on a control whose flow is still running.
var ErrControlBusy = errors.New("control is busy")

// RenderPanicError reports a view that panicked while a flow was rendering.
type RenderPanicError struct {
	Flow  string
	Value interface{}
}

func (e *RenderPanicError) Error() string {
	return fmt.Sprintf("%s: render panic: %v", e.Flow, e.Value)
}

func (c *Controller) claim(flow string, busy *atomic.Bool) bool {
	if busy.CompareAndSwap(false, true) {
		return true
	}
	metrics.ClicksIgnored.WithLabelValues(flow).Inc()
	c.logger.Debug("click ignored, control busy", map[string]interface{}{"flow": flow})
	return false
}

// run executes a claimed flow and releases the control when it returns.
func (c *Controller) run(ctx context.Context, flow string, f Flow, busy *atomic.Bool, input string) (err error) {
	defer busy.Store(false)

	start := time.Now()
	metrics.FlowsActive.WithLabelValues(flow).Inc()

	defer func() {
		metrics.FlowsActive.WithLabelValues(flow).Dec()

		outcome := OutcomePanic
		if r := recover(); r != nil {
			c.logger.Error("flow panicked while rendering", map[string]interface{}{
				"flow":  flow,
				"panic": fmt.Sprint(r),
			})
			err = &RenderPanicError{Flow: flow, Value: r}
		} else {
			outcome = outcomeOf(err)
		}

		if outcome == OutcomeIgnored {
			return
		}
		metrics.FlowsCompleted.WithLabelValues(flow, outcome).Inc()
		metrics.FlowDuration.WithLabelValues(flow).Observe(time.Since(start).Seconds())
	}()

	return f.Handle(ctx, c.view, input)
}

func outcomeOf(err error) string {
	switch apperrors.GetErrorCode(err) {
	case "":
		return OutcomeSuccess
	case apperrors.ErrCodeEmptyInput:
		return OutcomeIgnored
	case apperrors.ErrCodeNotFound:
		return OutcomeNotFound
	case apperrors.ErrCodeMalformedPayload:
		return OutcomeMalformed
	}
	return OutcomeFailed
}
