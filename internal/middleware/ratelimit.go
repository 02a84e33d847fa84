package middleware

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/chefchat/chefchat/internal/request"
)

const defaultRate = "10-M"

// RateLimit returns rate limiting middleware backed by Redis, keyed by
// client IP. rate uses the limiter format, e.g. "10-M" for 10 per minute.
func RateLimit(redisClient *redis.Client, rate string) (func(http.Handler) http.Handler, error) {
	parsed, err := parseRate(rate)
	if err != nil {
		return nil, err
	}
	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		return nil, err
	}
	return buildHandler(limiter.New(store, parsed)), nil
}

// MemoryRateLimit returns rate limiting middleware with in-process counters,
// used when the key-value backend is not Redis
func MemoryRateLimit(rate string) (func(http.Handler) http.Handler, error) {
	parsed, err := parseRate(rate)
	if err != nil {
		return nil, err
	}
	return buildHandler(limiter.New(memorystore.NewStore(), parsed)), nil
}

func parseRate(rate string) (limiter.Rate, error) {
	if rate == "" {
		rate = defaultRate
	}
	return limiter.NewRateFromFormatted(rate)
}

func buildHandler(instance *limiter.Limiter) func(http.Handler) http.Handler {
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler
}
