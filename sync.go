package llmclient

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

type AsyncResponse struct {
	Response *ChatCompletion
	Error    error
}

// All sends all requests concurrently and waits for all of them to complete.
// Responses are returned in the order of the requests; a failed request does
// not affect the others.
func All(ctx context.Context, completions *Completions, reqs ...ChatCompletionRequest) []AsyncResponse {
	var wg sync.WaitGroup

	responses := make([]AsyncResponse, len(reqs))

	for idx, req := range reqs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			resp, err := completions.Create(ctx, req)
			if err != nil {
				responses[idx] = AsyncResponse{Error: err}
				return
			}

			responses[idx] = AsyncResponse{Response: resp}
		}()
	}

	wg.Wait()

	return responses
}

// Race sends all requests concurrently and returns the first successful
// response, cancelling the others. It only fails if all requests failed.
func Race(ctx context.Context, completions *Completions, reqs ...ChatCompletionRequest) (*ChatCompletion, error) {
	if len(reqs) == 0 {
		return nil, errors.New("no request to race")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := make(chan AsyncResponse, len(reqs))

	for _, req := range reqs {
		go func() {
			resp, err := completions.Create(ctx, req)
			if err != nil {
				c <- AsyncResponse{Error: err}
				return
			}

			c <- AsyncResponse{Response: resp}
		}()
	}

	var errs error

	for range reqs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case value := <-c:
			if value.Error == nil {
				return value.Response, nil
			}

			errs = errors.CombineErrors(errs, value.Error)
		}
	}

	return nil, errors.Wrap(errs, "all requests failed")
}
