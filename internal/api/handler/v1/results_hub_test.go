package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votaciones-campus/api/internal/domain"
)

func dialHub(t *testing.T, hub *ResultsHub, campaignID uint) *websocket.Conn {
	t.Helper()

	upgrader := newUpgrader([]string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Subscribe(conn, domain.CampaignResults{Campaign: domain.Campaign{ID: campaignID}})
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readResults(t *testing.T, conn *websocket.Conn) resultsMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg resultsMessage
	require.NoError(t, json.Unmarshal(data, &msg))

	return msg
}

func TestResultsHub_PublishReachesCampaignSubscribers(t *testing.T) {
	hub := NewResultsHub()
	go hub.Run()
	defer hub.Stop()

	conn := dialHub(t, hub, 5)

	initial := readResults(t, conn)
	assert.Equal(t, "results", initial.Type)
	assert.Equal(t, uint(5), initial.Results.ID)

	hub.Publish(domain.CampaignResults{Campaign: domain.Campaign{ID: 6}, TotalVotes: 9})
	hub.Publish(domain.CampaignResults{Campaign: domain.Campaign{ID: 5}, TotalVotes: 1})

	msg := readResults(t, conn)
	assert.Equal(t, uint(5), msg.Results.ID)
	assert.Equal(t, int64(1), msg.Results.TotalVotes)
}

func TestResultsHub_StopClosesSubscribers(t *testing.T) {
	hub := NewResultsHub()
	go hub.Run()

	conn := dialHub(t, hub, 5)
	readResults(t, conn)

	hub.Stop()
	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure), "got %v", err)

	// Publishing after Stop must not block.
	hub.Publish(domain.CampaignResults{Campaign: domain.Campaign{ID: 5}})
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	up := newUpgrader([]string{"https://votaciones.example.com"})

	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/live", nil)
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "https://votaciones.example.com")
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "http://api.example.com")
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, up.CheckOrigin(req))
}
