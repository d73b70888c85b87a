package pmapi

import (
	"context"
	"net/url"
	"strconv"

	"pmadmin/console/internal/apiclient"
)

// Requester is the API client surface the services call through.
type Requester interface {
	Get(ctx context.Context, endpoint string) (*apiclient.Envelope, error)
	Post(ctx context.Context, endpoint string, body any) (*apiclient.Envelope, error)
	Put(ctx context.Context, endpoint string, body any) (*apiclient.Envelope, error)
	Patch(ctx context.Context, endpoint string, body any) (*apiclient.Envelope, error)
	Delete(ctx context.Context, endpoint string) (*apiclient.Envelope, error)
}

func get[T any](ctx context.Context, c Requester, endpoint string) (T, error) {
	env, err := c.Get(ctx, endpoint)
	if err != nil {
		var zero T
		return zero, err
	}
	return apiclient.Decode[T](env)
}

func withQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value *int) {
	if value != nil {
		q.Set(key, strconv.Itoa(*value))
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
