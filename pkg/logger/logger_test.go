package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type memSink struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (s *memSink) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.docs = append(s.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	sink := &memSink{}
	h := newMongoHandler(sink, nil)
	log := slog.New(h).With("request_id", "abc123").WithGroup("fabric")

	log.Info("fabric created", "id", 4)
	log.Debug("ignored")
	h.Close()
	h.Close()

	require.Len(t, sink.docs, 1)
	doc := sink.docs[0]
	assert.Equal(t, "fabric created", doc.Msg)
	assert.Equal(t, "INFO", doc.Level)
	assert.Equal(t, "abc123", doc.RequestID)
	assert.EqualValues(t, 4, doc.Attrs["fabric.id"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	))
	log.Info("order composed", "lines", 2)

	assert.Contains(t, a.String(), "order composed")
	assert.Contains(t, b.String(), `"lines":2`)
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := InjectLogger(context.Background(), custom)
	assert.Same(t, custom, WithCtx(ctx))
}
