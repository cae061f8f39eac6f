package llm

import (
	"context"
	"sync"
)

// fakeGenerator records requests and replays a canned answer
type fakeGenerator struct {
	mu       sync.Mutex
	response *ContentResponse
	err      error
	requests []*ContentRequest
}

func (g *fakeGenerator) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, request)
	if g.err != nil {
		return nil, g.err
	}
	return g.response, nil
}

func (g *fakeGenerator) lastRequest() *ContentRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return nil
	}
	return g.requests[len(g.requests)-1]
}
