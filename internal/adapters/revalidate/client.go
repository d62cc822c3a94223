// Package revalidate notifies the storefront that catalog content changed
// so it can rebuild the affected pages.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/sync/errgroup"

	"github.com/shopmill/admin-api/config"
	"github.com/shopmill/admin-api/internal/ports"
)

// Ensure compile-time conformance to the port.
var _ ports.Revalidator = (*Client)(nil)

// secretHeader carries the shared secret the storefront checks before rebuilding.
const secretHeader = "x-revalidate-secret"

// maxConcurrentRequests caps the fan-out when a mutation touches many paths.
const maxConcurrentRequests = 4

// AckEvaluator abstracts JMESPath operations for testability.
type AckEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements AckEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	Config     config.RevalidateConfig
	HTTPClient *http.Client // Optional: defaults to a client bounded by Config.Timeout
	Evaluator  AckEvaluator // Optional: defaults to the go-jmespath implementation
	Logger     *slog.Logger // Optional: structured logger
}

// Client posts revalidation requests to the storefront. Each path gets its
// own request; the storefront response is evaluated against the configured
// acknowledgement expression and must yield true.
type Client struct {
	cfg    config.RevalidateConfig
	http   *http.Client
	jems   AckEvaluator
	logger *slog.Logger
}

// NewClient constructs a revalidation client.
func NewClient(opts ClientOptions) (*Client, error) {
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	if err := jems.Validate(opts.Config.AckExpr); err != nil {
		return nil, fmt.Errorf("invalid ack expression: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Config.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:    opts.Config,
		http:   httpClient,
		jems:   jems,
		logger: logger.With("component", "revalidate_client"),
	}, nil
}

// Revalidate asks the storefront to rebuild the given paths. Paths are
// dispatched concurrently; the first failure cancels the remaining requests.
// When revalidation is disabled this is a no-op.
func (c *Client) Revalidate(ctx context.Context, paths []string) error {
	if !c.cfg.Enabled || len(paths) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRequests)
	for _, path := range paths {
		g.Go(func() error {
			return c.revalidatePath(gctx, path)
		})
	}
	return g.Wait()
}

// Async dispatches revalidation in the background. Catalog mutations must not
// fail because the storefront is unreachable, so failures are only logged.
// The parent request context may already be done when the goroutine runs,
// hence the detached timeout context.
func (c *Client) Async(paths []string) {
	if !c.cfg.Enabled || len(paths) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout*time.Duration(len(paths)))
		defer cancel()

		if err := c.Revalidate(ctx, paths); err != nil {
			c.logger.WarnContext(ctx, "storefront revalidation failed",
				"paths", paths, "err", err)
			return
		}
		c.logger.DebugContext(ctx, "storefront revalidated", "paths", paths)
	}()
}

func (c *Client) revalidatePath(ctx context.Context, path string) error {
	body, err := json.Marshal(map[string]string{"path": path})
	if err != nil {
		return fmt.Errorf("marshal revalidate body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build revalidate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Secret != "" {
		req.Header.Set(secretHeader, c.cfg.Secret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("revalidate %s: %w", path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close revalidate response body", "err", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revalidate %s: unexpected status %d", path, resp.StatusCode)
	}

	return c.checkAck(path, resp.Body)
}

// checkAck evaluates the acknowledgement expression against the response
// body. An empty expression accepts any 2xx response.
func (c *Client) checkAck(path string, body io.Reader) error {
	expr := strings.TrimSpace(c.cfg.AckExpr)
	if expr == "" {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return fmt.Errorf("read revalidate response: %w", err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("revalidate %s: invalid response JSON: %w", path, err)
	}

	res, err := c.jems.Evaluate(expr, data)
	if err != nil {
		return fmt.Errorf("evaluate ack expression: %w", err)
	}
	if ack, ok := res.(bool); !ok || !ack {
		return fmt.Errorf("revalidate %s: storefront did not acknowledge", path)
	}
	return nil
}
