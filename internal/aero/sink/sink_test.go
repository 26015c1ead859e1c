package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSink struct {
	sent   []map[string]any
	sendErr error
	closed bool
}

func (f *fakeSink) Send(ctx context.Context, record map[string]any) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, record)
	return nil
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

func TestFanoutSendsToEveryMember(t *testing.T) {
	a := &fakeSink{}
	b := &fakeSink{}
	fo := NewFanout([]Sink{a, b}, nil)

	rec := map[string]any{"msg_name": "ACARS"}
	require := assert.New(t)
	require.NoError(fo.Send(context.Background(), rec))
	require.Len(a.sent, 1)
	require.Len(b.sent, 1)
}

func TestFanoutContinuesAfterOneSinkFails(t *testing.T) {
	bad := &fakeSink{sendErr: errors.New("boom")}
	good := &fakeSink{}

	var failed []error
	fo := NewFanout([]Sink{bad, good}, func(s Sink, err error) {
		failed = append(failed, err)
	})

	err := fo.Send(context.Background(), map[string]any{"msg_name": "x"})
	assert.NoError(t, err, "Fanout.Send itself never fails")
	assert.Len(t, failed, 1)
	assert.Len(t, good.sent, 1)
}

func TestFanoutCloseClosesAllMembers(t *testing.T) {
	a := &fakeSink{}
	b := &fakeSink{}
	fo := NewFanout([]Sink{a, b}, nil)
	assert.NoError(t, fo.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
