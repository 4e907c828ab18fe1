package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveit/shopping-service/internal/httpclient"
	"github.com/saveit/shopping-service/internal/httpclient/ratelimit"
)

func testHTTPClient() *httpclient.Client {
	// No retries so failure tests stay fast.
	return httpclient.New(ratelimit.Config{
		RequestsPerSecond: 1000,
		MaxRetries:        0,
		InitialBackoffMs:  1,
		MaxBackoffMs:      1,
	})
}

func TestSearchFlattensGroups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "groupsearch", r.URL.Query().Get("type"))
		assert.Equal(t, "paneer", r.URL.Query().Get("query"))
		assert.Equal(t, "12.9", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"data": [
				{"name": "Amul Paneer", "offer_price": 89, "platform": {"name": "Zepto"}},
				{"name": "Fresh Paneer", "offer_price": "95", "platform": {"name": "Blinkit"}}
			]},
			{"data": [
				{"name": "Malai Paneer", "offer_price": null, "mrp": 105, "platform": {"name": "Swiggy Instamart"}}
			]}
		]`))
	}))
	defer srv.Close()

	client := NewClient(testHTTPClient(), srv.URL, Location{Lat: "12.9", Lon: "77.6"}, nil)

	products := client.Search(context.Background(), "paneer")

	require.Len(t, products, 3)
	assert.Equal(t, "Amul Paneer", products[0].Name)
	assert.Equal(t, 89.0, products[0].BestPrice())
	// Quoted price strings parse too.
	assert.Equal(t, 95.0, products[1].BestPrice())
	// Null offer price falls back to MRP.
	assert.Equal(t, 105.0, products[2].BestPrice())
}

func TestSearchServerErrorYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testHTTPClient(), srv.URL, Location{Lat: "12.9", Lon: "77.6"}, nil)

	assert.Empty(t, client.Search(context.Background(), "paneer"))
}

func TestSearchMalformedBodyYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	client := NewClient(testHTTPClient(), srv.URL, Location{Lat: "12.9", Lon: "77.6"}, nil)

	assert.Empty(t, client.Search(context.Background(), "paneer"))
}

func TestSearchUnreachableHostYieldsEmpty(t *testing.T) {
	client := NewClient(testHTTPClient(), "http://127.0.0.1:1", Location{Lat: "12.9", Lon: "77.6"}, nil)

	assert.Empty(t, client.Search(context.Background(), "paneer"))
}

func TestRupeesUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Number", "89.5", 89.5},
		{"Quoted number", `"120"`, 120},
		{"Null", "null", 0},
		{"Empty string", `""`, 0},
		{"Garbage", `"₹95"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Rupees
			require.NoError(t, r.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.expected, float64(r))
		})
	}
}

func TestIsAvailableDefaultsTrue(t *testing.T) {
	assert.True(t, RawProduct{}.IsAvailable())

	f := false
	assert.False(t, RawProduct{Available: &f}.IsAvailable())
}
