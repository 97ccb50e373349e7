package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

func TestClassifyConnectionLossRetryable(t *testing.T) {
	for _, err := range []error{nats.ErrNoServers, nats.ErrTimeout, nats.ErrConnectionClosed, nats.ErrDisconnected} {
		class := classifyNATSError(err)
		if !class.Retryable || !class.RecordFailure {
			t.Fatalf("expected %v retryable and recorded, got %+v", err, class)
		}
	}
}

func TestClassifyContextCancelNotRecorded(t *testing.T) {
	class := classifyNATSError(context.Canceled)
	if class.Retryable || class.RecordFailure {
		t.Fatalf("canceled context must not count against the breaker, got %+v", class)
	}
}

func TestPublishErrorWrapsConnectivityAsTemporary(t *testing.T) {
	q := &Queue{}
	err := q.publishError(nats.ErrNoServers)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
}

func TestPublishErrorLeavesPermanentErrorsAlone(t *testing.T) {
	q := &Queue{}
	permanent := errors.New("bad subject")
	err := q.publishError(permanent)
	if !errors.Is(err, permanent) || domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("permanent error must pass through unwrapped, got %v", err)
	}
}

func TestPublishErrorDoesNotDoubleWrap(t *testing.T) {
	q := &Queue{}
	already := domain.WrapError(domain.ErrTemporary, "publish analysis request", nats.ErrTimeout)
	if err := q.publishError(already); err != already {
		t.Fatalf("expected passthrough, got %v", err)
	}
}
