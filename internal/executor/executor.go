// Package executor sends one synthesized request and reports what came back.
// Transport failures are data, not errors: they land in the result so batch
// runs keep going.
package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reqsynth/internal/assembler"
	"reqsynth/internal/logger"
	"reqsynth/internal/model"
)

// maxBodySize caps how much of a response body is retained.
const maxBodySize = 2 * 1024 * 1024

// Run executes the request with the given timeout. Descriptors still
// carrying the host placeholder cannot be sent and fail immediately.
func Run(ctx context.Context, req *model.RequestDescriptor, timeout time.Duration) model.RequestResult {
	if strings.Contains(req.URL, assembler.HostPlaceholder) {
		return model.RequestResult{
			Err: fmt.Sprintf("URL %s still contains the host placeholder; no target to send to", req.URL),
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, string(req.Verb), req.URL, body)
	if err != nil {
		return model.RequestResult{Err: fmt.Sprintf("invalid request: %v", err)}
	}
	for _, h := range req.Headers {
		httpReq.Header.Set(h.Name, h.Value)
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		logger.Debug("[EXECUTOR] %s %s failed: %v", req.Verb, req.URL, err)
		return model.RequestResult{
			DurationMS: elapsed.Milliseconds(),
			Err:        err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	result := model.RequestResult{
		Status:       resp.StatusCode,
		StatusText:   resp.Status,
		Body:         string(respBody),
		DurationMS:   elapsed.Milliseconds(),
		ResponseSize: len(respBody),
	}
	if readErr != nil {
		result.Err = fmt.Sprintf("response body truncated: %v", readErr)
	}

	logger.Debug("[EXECUTOR] %s %s -> %d in %dms", req.Verb, req.URL, result.Status, result.DurationMS)
	return result
}
