package geolocation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allergycanada/find-allergist/backend/internal/domain/providers"
)

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("key not found")
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

func TestGoogleGeocoder_Geocode(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "ca", r.URL.Query().Get("region"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Ottawa, ON K1A 0A6, Canada",
				"geometry": {"location": {"lat": 45.4215, "lng": -75.6972}}
			}]
		}`))
	}))
	defer server.Close()

	cache := newMemoryCache()
	geocoder := NewGoogleGeocoderWithOptions("test-key", "ca", cache, server.URL, server.Client())

	coords, err := geocoder.Geocode(context.Background(), "Ottawa ON K1A 0A6")
	require.NoError(t, err)
	assert.InDelta(t, 45.4215, coords.Latitude, 0.0001)
	assert.InDelta(t, -75.6972, coords.Longitude, 0.0001)

	// Second call is served from cache.
	_, err = geocoder.Geocode(context.Background(), "Ottawa ON K1A 0A6")
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestGoogleGeocoder_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	geocoder := NewGoogleGeocoderWithOptions("test-key", "ca", nil, server.URL, server.Client())

	_, err := geocoder.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, providers.ErrNoMatch)
}

func TestGoogleGeocoder_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	geocoder := NewGoogleGeocoderWithOptions("test-key", "ca", nil, server.URL, server.Client())

	_, err := geocoder.Geocode(context.Background(), "Ottawa")
	assert.ErrorIs(t, err, providers.ErrUnavailable)
}

func TestGoogleGeocoder_EmptyAddress(t *testing.T) {
	geocoder := NewGoogleGeocoderWithOptions("test-key", "ca", nil, "http://unused", nil)

	_, err := geocoder.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, providers.ErrNoMatch)
}

func TestMockGeocoder(t *testing.T) {
	geocoder := NewMockGeocoder()

	coords, err := geocoder.Geocode(context.Background(), "Toronto ON")
	require.NoError(t, err)
	assert.InDelta(t, 43.6532, coords.Latitude, 0.0001)

	coords, err = geocoder.Geocode(context.Background(), "k1a 0a6")
	require.NoError(t, err)
	assert.InDelta(t, 45.4215, coords.Latitude, 0.0001)

	_, err = geocoder.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, providers.ErrNoMatch)
}
