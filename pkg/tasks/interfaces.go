package tasks

import "github.com/hibiken/asynq"

// TaskEnqueuer puts sync tasks on the queue. *asynq.Client implements it;
// tests use test.MockTaskEnqueuer.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
