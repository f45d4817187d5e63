package gmail

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/qwilo/internal/googletest"
	"github.com/teemow/qwilo/internal/instrumentation"
)

var meetingDate = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, opts ...Option) (*Client, *googletest.Server) {
	t.Helper()
	backend := googletest.NewServer(t)
	client, err := NewClientWithServiceOptions(context.Background(), "work", backend.ClientOptions(), opts...)
	require.NoError(t, err)
	return client, backend
}

func TestListMessages(t *testing.T) {
	client, backend := newTestClient(t)
	backend.AddMessage(googletest.NotesMessage("m1", `Notes: “Weekly sync” Mar 4, 2025`, meetingDate,
		"Notes are ready: https://docs.google.com/document/d/transcript1/edit"))
	backend.AddMessage(googletest.NotesMessage("m2", "Notes: Retro", meetingDate.AddDate(0, 0, 1), "No document yet"))

	messages, err := client.ListMessages(context.Background(), SearchOptions{StartDate: "03012025"})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "Weekly sync", messages[0].Topic())
	assert.Equal(t, meetingDate, messages[0].Date)
	assert.Equal(t, []string{"transcript1"}, messages[0].DocumentIDs())
	assert.Empty(t, messages[1].DocumentIDs())

	assert.Equal(t, []string{"subject:notes after:2025/02/28"}, backend.Queries())
}

func TestListMessages_Paging(t *testing.T) {
	client, backend := newTestClient(t)
	for i := range 5 {
		backend.AddMessage(googletest.NotesMessage(fmt.Sprintf("m%d", i), "Notes: Standup", meetingDate, ""))
	}

	messages, err := client.ListMessages(context.Background(), SearchOptions{MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "m2", messages[2].ID)
}

func TestListMessages_SkipsUnreadableMessages(t *testing.T) {
	client, backend := newTestClient(t)
	backend.AddMessage(googletest.NotesMessage("m1", "Notes: Standup", meetingDate, "ok"))
	broken := googletest.NotesMessage("m2", "Notes: Broken", meetingDate, "")
	broken.Payload.Parts[0].Body.Data = "!!not base64!!"
	backend.AddMessage(broken)

	messages, err := client.ListMessages(context.Background(), SearchOptions{})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "m1", messages[0].ID)
}

func TestListMessages_Errors(t *testing.T) {
	t.Run("invalid start date", func(t *testing.T) {
		client, backend := newTestClient(t)
		_, err := client.ListMessages(context.Background(), SearchOptions{StartDate: "2025-03-01"})
		require.Error(t, err)
		assert.Empty(t, backend.Queries())
	})

	t.Run("search denied", func(t *testing.T) {
		client, backend := newTestClient(t)
		backend.Fail(googletest.FailMessages)
		_, err := client.ListMessages(context.Background(), SearchOptions{Label: "Meetings"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list messages")
	})
}

func TestGetMessage_NotFound(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.GetMessage(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get message missing")
}

func TestClient_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	metrics, err := instrumentation.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"), false)
	require.NoError(t, err)

	client, backend := newTestClient(t, WithMetrics(metrics))
	backend.AddMessage(googletest.NotesMessage("m1", "Notes: Standup", meetingDate, ""))

	_, err = client.ListMessages(context.Background(), SearchOptions{})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	operations := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "google_api_operations_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				service, _ := dp.Attributes.Value("service")
				operation, _ := dp.Attributes.Value("operation")
				if service.AsString() == instrumentation.ServiceGmail {
					operations[operation.AsString()] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, map[string]int64{instrumentation.OperationList: 1, instrumentation.OperationGet: 1}, operations)
}

func TestNewMessage_HTMLFallback(t *testing.T) {
	msg, err := newMessage(&gmail.Message{
		Id: "m1",
		Payload: &gmail.MessagePart{
			MimeType: "text/html",
			Headers:  []*gmail.MessagePartHeader{{Name: "subject", Value: "Notes: Planning"}},
			Body: &gmail.MessagePartBody{
				Data: "PGEgaHJlZj0iaHR0cHM6Ly9kb2NzLmdvb2dsZS5jb20vZG9jdW1lbnQvZC9hYmMxMjMvZWRpdCI-R2VtaW5pPC9hPg",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Notes: Planning", msg.Subject)
	assert.Equal(t, `<a href="https://docs.google.com/document/d/abc123/edit">Gemini</a>`, msg.Body)
	assert.Equal(t, []string{"abc123"}, msg.DocumentIDs())
}
