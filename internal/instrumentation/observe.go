package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// ObserveGoogleAPI runs fn inside a google.<service>.<operation> span and
// records its outcome on m. The error returned by fn is passed through.
func ObserveGoogleAPI(ctx context.Context, m *Metrics, service, operation string, fn func(context.Context) error, attrs ...attribute.KeyValue) (err error) {
	ctx, span := StartGoogleAPISpan(ctx, service, operation, attrs...)
	start := time.Now()
	defer func() {
		status := StatusSuccess
		if err != nil {
			status = StatusError
		}
		m.RecordGoogleAPIOperation(ctx, service, operation, status, time.Since(start))
		EndSpan(span, err)
	}()

	return fn(ctx)
}
