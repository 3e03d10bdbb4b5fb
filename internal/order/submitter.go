package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/beehouse-checkout/internal/resilience"
)

// ErrRejected is returned when the order endpoint refuses the submission.
var ErrRejected = errors.New("order: submission rejected")

// Receipt describes the order created for a submission.
type Receipt struct {
	SubmissionID string `json:"submissionId"`
	OrderID      int64  `json:"orderId,omitempty"`
	Location     string `json:"location,omitempty"`
	InvoicePath  string `json:"invoicePath,omitempty"`
}

// Submitter creates an order from a payload.
type Submitter interface {
	Submit(ctx context.Context, p Payload) (Receipt, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, p Payload) (Receipt, error)

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, p Payload) (Receipt, error) {
	return f(ctx, p)
}

// FormSubmitter posts the storefront order form and reads the confirmation redirect.
type FormSubmitter struct {
	Endpoint  string
	UserAgent string
	HTTP      resilience.HTTPClient
}

// NewFormSubmitter posts to endpoint without following redirects. Submissions are
// sent once; the idempotency header lets the endpoint reject replays.
func NewFormSubmitter(endpoint string, timeout time.Duration, transport http.RoundTripper) (*FormSubmitter, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("order endpoint %q must be an absolute http(s) url", endpoint)
	}
	return &FormSubmitter{
		Endpoint:  u.String(),
		UserAgent: "beehouse-checkout/1.0",
		HTTP: resilience.HTTPClient{
			Client: &http.Client{
				Transport: transport,
				CheckRedirect: func(*http.Request, []*http.Request) error {
					return http.ErrUseLastResponse
				},
			},
			Upstream:    "order-endpoint",
			Timeout:     timeout,
			MaxAttempts: 1,
		},
	}, nil
}

// Submit posts p and returns the created order reference.
func (s *FormSubmitter) Submit(ctx context.Context, p Payload) (Receipt, error) {
	ctx, span := otel.Tracer("order.FormSubmitter").Start(ctx, "FormSubmitter.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.submission_id", p.SubmissionID),
		attribute.String("order.delivery_type", string(p.DeliveryMode)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(p.Form().Encode()))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("X-Idempotency-Key", p.SubmissionID)

	resp, err := s.HTTP.Do(ctx, req)
	if err != nil {
		span.RecordError(err)
		return Receipt{}, fmt.Errorf("submit order: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		return Receipt{}, fmt.Errorf("%w: %s", ErrRejected, resp.Status)
	}
	receipt := Receipt{SubmissionID: p.SubmissionID}
	if loc, err := resp.Location(); err == nil {
		receipt.Location = loc.String()
		if id, ok := OrderIDFromPath(loc.Path); ok {
			receipt.OrderID = id
			receipt.InvoicePath = InvoicePath(id)
		}
	}
	return receipt, nil
}

// OrderIDFromPath reads the trailing numeric segment of a confirmation path
// such as /orders/confirmation/42/.
func OrderIDFromPath(p string) (int64, bool) {
	base := path.Base(strings.TrimRight(p, "/"))
	id, err := strconv.ParseInt(base, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// InvoicePath is the staff print view of an order.
func InvoicePath(id int64) string {
	return "/orders/print/" + strconv.FormatInt(id, 10) + "/"
}
