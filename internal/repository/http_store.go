package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// HTTPStore talks to a json-server style REST service:
// GET/POST /{resource}, PUT/DELETE /{resource}/{id}.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
}

type HTTPStoreOption func(*HTTPStore)

func WithHTTPClient(client *http.Client) HTTPStoreOption {
	return func(s *HTTPStore) {
		s.client = client
	}
}

func NewHTTPStore(baseURL string, timeout time.Duration, opts ...HTTPStoreOption) *HTTPStore {
	s := &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("github.com/Domenick1991/cinema/internal/repository"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPStore) List(ctx context.Context, resource string) ([]json.RawMessage, error) {
	body, err := s.do(ctx, http.MethodGet, "/"+resource, nil)
	if err != nil {
		return nil, err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", resource, err)
	}
	return docs, nil
}

func (s *HTTPStore) Create(ctx context.Context, resource string, doc json.RawMessage) (json.RawMessage, error) {
	return s.do(ctx, http.MethodPost, "/"+resource, doc)
}

func (s *HTTPStore) Update(ctx context.Context, resource, id string, doc json.RawMessage) (json.RawMessage, error) {
	return s.do(ctx, http.MethodPut, "/"+resource+"/"+url.PathEscape(id), doc)
}

func (s *HTTPStore) Delete(ctx context.Context, resource, id string) error {
	_, err := s.do(ctx, http.MethodDelete, "/"+resource+"/"+url.PathEscape(id), nil)
	return err
}

// Ping checks that the service answers at all; any HTTP response counts.
func (s *HTTPStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ping data service: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

func (s *HTTPStore) do(ctx context.Context, method, path string, payload []byte) (json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		span.SetStatus(codes.Error, "not found")
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		span.SetStatus(codes.Error, statusErr.Error())
		return nil, statusErr
	}
	return body, nil
}

var _ DocumentStore = (*HTTPStore)(nil)
