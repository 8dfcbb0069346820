package worker

import "time"

// Config holds the configuration for a queue worker.
type Config struct {
	QueueName     string        `env:"QUEUE_NAME" envDefault:"relay:tasks"`
	MaxConcurrent int           `env:"QUEUE_MAX_CONCURRENT" envDefault:"10"`
	PopBackoff    time.Duration `env:"QUEUE_POP_BACKOFF" envDefault:"5s"`
	LoopBackoff   time.Duration `env:"QUEUE_LOOP_BACKOFF" envDefault:"1s"`
}
