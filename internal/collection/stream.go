package collection

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

// StreamSource reads a table's change feed from the server's NDJSON sync
// endpoint. It satisfies the same Source contract the in-process broker does,
// so a store works identically against either.
type StreamSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewStreamSource builds a source against GET <baseURL>/api/sync. The client
// must not carry a global timeout; the feed is long lived.
func NewStreamSource(baseURL string, client *http.Client, logger *zap.Logger) *StreamSource {
	if client == nil {
		client = &http.Client{}
	}
	return &StreamSource{baseURL: baseURL, client: client, logger: logger}
}

// Subscribe opens the feed for one table. The channel closes when the server
// ends the stream or cancel is called.
func (s *StreamSource) Subscribe(ctx context.Context, table string) (<-chan syncstream.ChangeEvent, func(), error) {
	if !syncstream.KnownTable(table) {
		return nil, nil, fmt.Errorf("collection: unknown table %q", table)
	}

	endpoint := s.baseURL + "/api/sync?table=" + url.QueryEscape(table)
	ctx, cancelCtx := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancelCtx()
		return nil, nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		cancelCtx()
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancelCtx()
		return nil, nil, fmt.Errorf("collection: sync stream returned status %d", resp.StatusCode)
	}

	events := make(chan syncstream.ChangeEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var event syncstream.ChangeEvent
			if err := json.Unmarshal(line, &event); err != nil {
				s.logger.Warn("collection: dropping malformed change event",
					zap.String("table", table), zap.Error(err))
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		cancelCtx()
	}
	return events, cancel, nil
}
