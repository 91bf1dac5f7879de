// Package viacep queries the public ViaCEP address service.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rodrigoasouza93/cep-form/internal/dto"
	"github.com/rodrigoasouza93/cep-form/internal/vo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL = "https://viacep.com.br/ws"

// ErrTransport covers every failure to obtain a decodable payload:
// network errors, unexpected status codes and malformed bodies.
var ErrTransport = errors.New("viacep: transport failure")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result carries the decoded payload together with the body exactly as
// ViaCEP sent it.
type Result struct {
	Location dto.LocationResponse
	Raw      []byte
}

type Client struct {
	baseURL    string
	httpClient HTTPClient
	tracer     trace.Tracer
}

func NewClient(baseURL string, httpClient HTTPClient, tracer trace.Tracer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if tracer == nil {
		tracer = otel.Tracer("viacep")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tracer:     tracer,
	}
}

// Lookup fetches the address for cep. A payload flagged with "erro" is a
// successful result; callers inspect Location.Error.
func (c *Client) Lookup(ctx context.Context, cep *vo.Cep) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "GET-LOCATION")
	defer span.End()
	span.SetAttributes(attribute.String("cep", cep.Value()))

	locationURL := c.baseURL + "/" + url.PathEscape(cep.Value()) + "/json/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locationURL, nil)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("%w: creating request: %v", ErrTransport, err))
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("%w: %v", ErrTransport, err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(span, fmt.Errorf("%w: unexpected status %d", ErrTransport, resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(span, fmt.Errorf("%w: reading body: %v", ErrTransport, err))
	}

	// Only a JSON object is a payload; null would decode into an empty address.
	var location *dto.LocationResponse
	if err := json.Unmarshal(raw, &location); err != nil {
		return nil, c.fail(span, fmt.Errorf("%w: decoding location: %v", ErrTransport, err))
	}
	if location == nil {
		return nil, c.fail(span, fmt.Errorf("%w: empty location payload", ErrTransport))
	}
	span.SetAttributes(attribute.Bool("viacep.erro", bool(location.Error)))

	return &Result{Location: *location, Raw: raw}, nil
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
