package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)
	defer func() { _ = exporter.Shutdown(context.Background()) }()

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileExporter_WritesDispatchSpansAsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	h := NewMiddleware(tp.Tracer("test"))(handlerReturning(7, nil))
	for range 2 {
		_, err := h.Handle(context.Background(), testRequest)
		require.NoError(t, err)
	}
	require.NoError(t, tp.Shutdown(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var records []SpanRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, records, 2)

	rec := records[0]
	require.Equal(t, SpanDispatch, rec.Name)
	require.Equal(t, "OK", rec.Status)
	require.Len(t, rec.TraceID, 32)
	require.Equal(t, "+", rec.Attributes[AttrOperator])
	require.Equal(t, "req-1", rec.Attributes[AttrRequestID])
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "t.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "second shutdown is a no-op")

	err = exporter.ExportSpans(context.Background(), nil)
	require.NoError(t, err, "empty batch is ignored")
}
