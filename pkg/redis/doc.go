// Package redis provides connection management for the Redis instance that
// backs the task queue: env-driven configuration, connection with retry, and
// a readiness probe for the ops HTTP surface.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
