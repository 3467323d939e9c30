package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultRequestTimeout = 30 * time.Second
	// DefaultTimeout bounds one advisor call, fallback included.
	DefaultTimeout = 8 * time.Second
)

// postJSON sends body with the fiber HTTP client and decodes the answer into out.
func postJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	timeout := defaultRequestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}

	a := fiber.Post(url)
	for k, v := range headers {
		a.Set(k, v)
	}
	a.JSON(body)
	a.Timeout(timeout)

	code, _, errs := a.Struct(out)
	if len(errs) > 0 {
		return fmt.Errorf("llm request: %w", errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("llm request: unexpected status %d", code)
	}
	return nil
}

// Unavailable is used when no provider is configured; every call fails and
// the fallback answers.
type Unavailable struct{}

func (Unavailable) Complete(context.Context, string) (string, error) {
	return "", errors.New("llm: no provider configured")
}
