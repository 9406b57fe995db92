package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/operator/actions"
	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/storage"
)

// WriterSource opens a write transaction. *storage.Storage is the production
// source.
type WriterSource interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

// Operator is the worker that processes items from the queue.
type Operator struct {
	source WriterSource
	queue  chan ActionItem
	log    logrus.FieldLogger
}

func NewOperator(source WriterSource, queue chan ActionItem, log logrus.FieldLogger) *Operator {
	return &Operator{
		source: source,
		queue:  queue,
		log:    log,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	// the caller already gave up, nothing should be written on its behalf
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	writer, err := o.source.Write(item.ctx)
	if err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			o.log.WithError(rbErr).WithField("action", fmt.Sprintf("%T", item.action)).Error("Operator.Rollback.failed")
		}
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = writer.Commit(); err != nil {
		item.response <- ActionItemResponse{err: fmt.Errorf("commit: %w", err)}
		return
	}

	item.response <- ActionItemResponse{}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
