package cartmirror

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/freshcart-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	bodies [][]model.CartLine
	status int
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	var lines []model.CartLine
	_ = json.Unmarshal(body, &lines)

	r.mu.Lock()
	r.bodies = append(r.bodies, lines)
	status := r.status
	r.mu.Unlock()

	if req.Header.Get("Content-Type") != "application/json" {
		status = http.StatusUnsupportedMediaType
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
}

func (r *recorder) received() [][]model.CartLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]model.CartLine(nil), r.bodies...)
}

func TestNewClient_RejectsBadEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "example.com/api/cart", "ftp://example.com/cart"} {
		_, err := NewClient(endpoint, time.Second)
		assert.ErrorIs(t, err, ErrInvalidConfig, endpoint)
	}
}

func TestClient_PostStatusMapping(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	assert.NoError(t, client.Post(context.Background(), []byte(`[]`)))

	rec.status = http.StatusBadRequest
	assert.ErrorIs(t, client.Post(context.Background(), []byte(`[]`)), ErrRejected)

	rec.status = http.StatusBadGateway
	assert.ErrorIs(t, client.Post(context.Background(), []byte(`[]`)), ErrServerError)
}

func TestClient_PostNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, time.Second)
	require.NoError(t, err)
	assert.ErrorIs(t, client.Post(context.Background(), []byte(`[]`)), ErrNetworkError)
}

func TestAsyncPublisher_PostsInOrder(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	pub := NewAsyncPublisher(client, 8, time.Second)

	pub.Publish([]model.CartLine{{ID: "1", Price: 40, Quantity: 1}})
	pub.Publish([]model.CartLine{{ID: "1", Price: 40, Quantity: 2}})
	pub.Publish(nil)
	pub.Close()

	bodies := rec.received()
	require.Len(t, bodies, 3)
	assert.Equal(t, 1, bodies[0][0].Quantity)
	assert.Equal(t, 2, bodies[1][0].Quantity)
	assert.Empty(t, bodies[2])
	assert.Equal(t, Stats{Sent: 3}, pub.Stats())
}

func TestNew_ZeroTimeoutUsesDefault(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	pub, err := New(srv.URL, 0, 4)
	require.NoError(t, err)
	async, ok := pub.(*AsyncPublisher)
	require.True(t, ok)

	async.Publish([]model.CartLine{{ID: "3", Price: 60, Quantity: 1}})
	async.Close()

	assert.Equal(t, Stats{Sent: 1}, async.Stats())
	assert.Len(t, rec.received(), 1)
}

func TestAsyncPublisher_FailuresAreCountedNotReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	pub := NewAsyncPublisher(client, 4, time.Second)

	pub.Publish([]model.CartLine{{ID: "1", Quantity: 1}})
	pub.Close()

	assert.Equal(t, int64(1), pub.Stats().Failed)
}

func TestAsyncPublisher_NeverBlocksWhenEndpointStalls(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, err)
	pub := NewAsyncPublisher(client, 1, 5*time.Second)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			pub.Publish([]model.CartLine{{ID: "1", Quantity: i + 1}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a stalled endpoint")
	}
	assert.Positive(t, pub.Stats().Dropped)
}

func TestAsyncPublisher_PublishAfterCloseIsIgnored(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1/cart", time.Second)
	require.NoError(t, err)
	pub := NewAsyncPublisher(client, 1, time.Second)
	pub.Close()
	pub.Close()

	assert.NotPanics(t, func() {
		pub.Publish([]model.CartLine{{ID: "1", Quantity: 1}})
	})
}

func TestNew_EmptyEndpointIsNop(t *testing.T) {
	pub, err := New("", time.Second, 4)
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, pub)
	pub.Publish(nil)
	pub.Close()
}
