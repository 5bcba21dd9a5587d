package mdns

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/swatches/internal/logger"
)

type fakePublisher struct {
	mu         sync.Mutex
	name       string
	port       uint16
	txt        [][]byte
	publishErr error
	closed     int
}

func (f *fakePublisher) Publish(name string, port uint16, txt [][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name, f.port, f.txt = name, port, txt
	return f.publishErr
}

func (f *fakePublisher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
}

func newTestService(pubs ...*fakePublisher) *Service {
	s := NewService(logger.Discard())
	next := 0
	s.newPublisher = func() (publisher, error) {
		if next >= len(pubs) {
			return nil, errors.New("no publisher")
		}
		p := pubs[next]
		next++
		return p, nil
	}
	return s
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "_http._tcp", ServiceType)
	assert.Equal(t, "v1", APIVersion)
}

func TestAdvertisement_TXT(t *testing.T) {
	ad := Advertisement{Name: "Swatches", Port: 8080, Version: "1.0.0"}

	var txt []string
	for _, rec := range ad.TXT() {
		txt = append(txt, string(rec))
	}
	assert.Equal(t, []string{"path=/", "api=v1", "version=1.0.0"}, txt)
}

func TestAdvertisement_InstanceName(t *testing.T) {
	ad := Advertisement{Name: "Swatches"}
	assert.Contains(t, ad.instanceName(), "Swatches")
}

func TestServiceStart(t *testing.T) {
	pub := &fakePublisher{}
	service := newTestService(pub)

	require.NoError(t, service.Start(Advertisement{Name: "Swatches", Port: 8080, Version: "1.0.0"}))
	assert.True(t, service.Running())
	assert.Equal(t, uint16(8080), pub.port)
	assert.Contains(t, pub.name, "Swatches")
	assert.Len(t, pub.txt, 3)

	service.Stop()
	assert.False(t, service.Running())
	assert.Equal(t, 1, pub.closed)
}

func TestServiceStart_InvalidPort(t *testing.T) {
	service := newTestService(&fakePublisher{})

	err := service.Start(Advertisement{Name: "Swatches", Port: 0})
	require.Error(t, err)
	assert.False(t, service.Running())
}

func TestServiceStart_PublishFailureClosesPublisher(t *testing.T) {
	pub := &fakePublisher{publishErr: errors.New("collision")}
	service := newTestService(pub)

	err := service.Start(Advertisement{Name: "Swatches", Port: 8080})
	require.ErrorContains(t, err, "collision")
	assert.False(t, service.Running())
	assert.Equal(t, 1, pub.closed)
}

func TestServiceStart_ConnectFailure(t *testing.T) {
	service := newTestService()

	err := service.Start(Advertisement{Name: "Swatches", Port: 8080})
	require.ErrorContains(t, err, "connect to avahi")
	assert.False(t, service.Running())
}

func TestServiceStart_RestartReplacesAdvertisement(t *testing.T) {
	first, second := &fakePublisher{}, &fakePublisher{}
	service := newTestService(first, second)

	require.NoError(t, service.Start(Advertisement{Name: "Swatches", Port: 8080}))
	require.NoError(t, service.Start(Advertisement{Name: "Swatches", Port: 8081}))

	assert.Equal(t, 1, first.closed)
	assert.Equal(t, uint16(8081), second.port)
	service.Stop()
}

func TestServiceStop(t *testing.T) {
	t.Run("stop when not started is safe", func(t *testing.T) {
		service := NewService(logger.Discard())
		service.Stop()
		assert.False(t, service.Running())
	})

	t.Run("concurrent stop calls are safe", func(t *testing.T) {
		pub := &fakePublisher{}
		service := newTestService(pub)
		require.NoError(t, service.Start(Advertisement{Name: "Swatches", Port: 8080}))

		var wg sync.WaitGroup
		for range 10 {
			wg.Go(service.Stop)
		}
		wg.Wait()

		assert.False(t, service.Running())
		assert.Equal(t, 1, pub.closed)
	})
}

func TestServiceStart_Avahi(t *testing.T) {
	// Needs a system D-Bus with avahi-daemon; containers and CI usually lack it.
	service := NewService(logger.Discard())

	err := service.Start(Advertisement{Name: "Swatches test", Port: 8080, Version: "test"})
	if err != nil {
		t.Skipf("avahi not available: %v", err)
	}
	assert.True(t, service.Running())
	service.Stop()
}
