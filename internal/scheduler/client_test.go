package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schedulerConfig struct {
	redisURL string
	queue    string
}

func (c schedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c schedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c schedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c schedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestScheduleAnalyticsReportEnqueues(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(schedulerConfig{redisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	err = client.ScheduleAnalyticsReport(context.Background(), AnalyticsReportPayload{
		BrokerID:  "0b6b3c1e-3f57-4d0c-9b7e-1f1c1b1c1b1c",
		Recipient: "owner@example.com",
	})
	require.NoError(t, err)

	pending, err := mr.List("asynq:{default}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestScheduleAnalyticsReportUsesConfiguredQueue(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(schedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "reports"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.ScheduleAnalyticsReport(context.Background(), AnalyticsReportPayload{Recipient: "a@example.com"}))

	pending, err := mr.List("asynq:{reports}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.False(t, mr.Exists("asynq:{default}:pending"))
}

func TestScheduleReportDeliveryEnqueues(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(schedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "reports"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.ScheduleReportDelivery(context.Background(), ReportDeliveryPayload{
		Recipient: "a@example.com",
		FileName:  "analytics-20260310-120000.pdf",
		Content:   []byte("%PDF-1.3"),
	}))

	pending, err := mr.List("asynq:{reports}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	_, err := NewClient(schedulerConfig{})
	assert.Error(t, err)
}

func TestNilClientRefusesToSchedule(t *testing.T) {
	var client *Client
	assert.Error(t, client.ScheduleAnalyticsReport(context.Background(), AnalyticsReportPayload{}))
	assert.Error(t, client.ScheduleReportDelivery(context.Background(), ReportDeliveryPayload{}))
	assert.NoError(t, client.Close())
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@cache.internal:6380/2", false)
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)
	assert.Nil(t, opt.TLSConfig)

	opt, err = redisClientOpt("rediss://cache.internal:6380", true)
	require.NoError(t, err)
	require.NotNil(t, opt.TLSConfig)
	assert.True(t, opt.TLSConfig.InsecureSkipVerify)

	_, err = redisClientOpt("://bad", false)
	assert.Error(t, err)
}

func TestReportPayloadRoundTrip(t *testing.T) {
	in := AnalyticsReportPayload{BrokerID: "b", Recipient: "r@example.com", TransactionSide: "BUY_SIDE"}
	task, err := NewAnalyticsReportTask(in)
	require.NoError(t, err)
	assert.Equal(t, TaskAnalyticsReportEmail, task.Type())

	out, err := ParseAnalyticsReportPayload(task)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
