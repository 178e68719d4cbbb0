package notification

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Worker はキューからタスクを取り続けてDispatcherへ渡す。
// タスク単位の失敗はログに残して次へ進む。
type Worker struct {
	source     Source
	dispatcher *Dispatcher
	logger     zerolog.Logger
}

func NewWorker(source Source, dispatcher *Dispatcher, logger zerolog.Logger) *Worker {
	return &Worker{source: source, dispatcher: dispatcher, logger: logger}
}

// Run はctxがキャンセルされるまでブロックする。
func (w *Worker) Run(ctx context.Context) error {
	for {
		task, err := w.source.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			w.logger.Error().Err(err).Msg("failed to fetch notification task")
			continue
		}

		if err := w.dispatcher.Handle(ctx, task); err != nil {
			w.logger.Error().
				Err(err).
				Str("kind", string(task.Kind)).
				Int64("order_id", task.OrderID).
				Msg("notification task failed")
		}
	}
}
