package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// setupTracing installs a global tracer provider that writes finished spans as JSON to
// dest: "stderr", or a file path. An empty dest leaves tracing off.
// The returned func flushes pending spans and releases the destination.
func setupTracing(dest string) (func(context.Context) error, error) {
	if dest == "" {
		return func(context.Context) error { return nil }, nil
	}

	var (
		w       io.Writer = os.Stderr
		release           = func() error { return nil }
	)
	if dest != "stderr" {
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		w, release = f, f.Close
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "ojcontest"))),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), release())
	}, nil
}
