// Package mocks provides a no-op tracer for tests that do not assert on spans.
package mocks

import (
	"context"
	"realty/infras/otel"
)

type noopOtel struct{}

type noopScope struct{}

func NewOtel() otel.Otel { return noopOtel{} }

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, noopScope{}
}

func (noopScope) AddEvent(string) {}
func (noopScope) End() {}
func (noopScope) SetAttribute(string, any) {}
func (noopScope) SetAttributes(map[string]any) {}
func (noopScope) TraceError(error) {}
func (noopScope) TraceIfError(error) {}
