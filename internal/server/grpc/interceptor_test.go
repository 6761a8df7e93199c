package grpc

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingLogger struct {
	mu   sync.Mutex
	args [][]any
}

func (r *recordingLogger) Debug(_ context.Context, _ string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.args = append(r.args, args)
}
func (r *recordingLogger) Info(context.Context, string, ...any)  {}
func (r *recordingLogger) Warn(context.Context, string, ...any)  {}
func (r *recordingLogger) Error(context.Context, string, ...any) {}
func (r *recordingLogger) With(...any) logging.Logger            { return r }

func TestLoggingInterceptor_PassesThroughAndLogsCode(t *testing.T) {
	log := &recordingLogger{}
	s := &GRPCServer{logger: log}
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("unexpected result: %v, %v", resp, err)
	}

	_, err = s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound, got %v", err)
	}

	_, err = s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, errors.New("plain")
	})
	if status.Code(err) != codes.Unknown {
		t.Fatalf("want Unknown, got %v", err)
	}

	if len(log.args) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(log.args))
	}
	if got := log.args[1][3]; got != "NotFound" {
		t.Fatalf("expected code NotFound in log, got %v", got)
	}
}
