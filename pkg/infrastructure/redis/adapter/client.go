package adapter

import (
	"github.com/redis/go-redis/v9"
)

// Options are the connection settings shared by the stream transport and the route cache.
type Options struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(opts Options) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}
