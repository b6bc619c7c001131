package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skeletal/internal/core/events/bus"
	"github.com/zeusync/skeletal/internal/core/instance"
	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/internal/demo"
)

func startServer(t *testing.T, maxClients int) (*Server, *instance.Instance) {
	t.Helper()
	data, err := demo.Rig()
	require.NoError(t, err)

	m := instance.NewManager(bus.New(), log.Nop(), instance.Options{})
	inst, err := m.Add(data, nil)
	require.NoError(t, err)
	require.NoError(t, demo.Direct(m, inst, 0))

	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.TickRate = 10 * time.Millisecond
	cfg.MaxClients = maxClients

	s, err := NewServer(m, cfg, log.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s, inst
}

func dial(t *testing.T, s *Server) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	return websocket.DefaultDialer.Dial("ws://"+s.Addr().String()+"/ws", nil)
}

func TestServer_Stream(t *testing.T) {
	s, inst := startServer(t, 4)

	conn, _, err := dial(t, s)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	t.Run("Frames", func(t *testing.T) {
		var last uint64
		for n := 0; n < 3; n++ {
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
			var frame Frame
			require.NoError(t, conn.ReadJSON(&frame))
			require.Greater(t, frame.Tick, last)
			last = frame.Tick

			require.Len(t, frame.Poses, 1)
			pose := frame.Poses[0]
			require.Equal(t, inst.ID, pose.ID)
			require.Equal(t, demo.Name, pose.Skeleton)
			require.NotEmpty(t, pose.Bones)
			require.NotZero(t, pose.Digest)
		}
	})

	t.Run("Records", func(t *testing.T) {
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			require.NoError(t, conn.SetReadDeadline(deadline))
			var frame Frame
			require.NoError(t, conn.ReadJSON(&frame))
			for _, r := range frame.Records {
				if r.Event == demo.EventFootstep {
					require.Equal(t, inst.ID, r.Instance)
					require.Equal(t, "event", r.Type)
					require.Equal(t, demo.AnimWalk, r.Animation)
					return
				}
			}
		}
		t.Fatal("no footstep record streamed")
	})

	t.Run("Stats", func(t *testing.T) {
		stats := s.GetStats()
		require.EqualValues(t, 1, stats.Clients)
		require.Equal(t, 1, stats.Instances)
		require.NotZero(t, stats.Ticks)
	})
}

func TestServer_MaxClients(t *testing.T) {
	s, _ := startServer(t, 1)

	first, _, err := dial(t, s)
	require.NoError(t, err)
	defer func() { _ = first.Close() }()

	_, resp, err := dial(t, s)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), ErrClientLimit.Error())
}

func TestServer_Snapshots(t *testing.T) {
	s, inst := startServer(t, 0)
	base := "http://" + s.Addr().String()

	resp, err := http.Get(base + "/snapshots/" + inst.ID)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap instance.PoseSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Equal(t, inst.ID, snap.ID)

	missing, err := http.Get(base + "/snapshots/nope")
	require.NoError(t, err)
	_ = missing.Body.Close()
	require.Equal(t, http.StatusNotFound, missing.StatusCode)

	all, err := http.Get(base + "/snapshots")
	require.NoError(t, err)
	defer func() { _ = all.Body.Close() }()
	var snaps []instance.PoseSnapshot
	require.NoError(t, json.NewDecoder(all.Body).Decode(&snaps))
	require.Len(t, snaps, 1)
}

func TestServer_Lifecycle(t *testing.T) {
	s, _ := startServer(t, 0)
	conn, _, err := dial(t, s)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.ErrorIs(t, s.Stop(ctx), ErrNotStarted)

	// The client is told the server is going away.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, _, err = conn.ReadMessage()
		if err != nil {
			break
		}
	}
	require.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())

	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Start(context.Background()), ErrClosed)

	_, err = NewServer(nil, Config{}, log.Nop())
	require.ErrorIs(t, err, ErrBadConfig)
}

func TestServer_JoinDuringStop(t *testing.T) {
	t.Run("After Stop", func(t *testing.T) {
		s, _ := startServer(t, 0)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, s.Stop(ctx))

		late := &client{id: "late", send: make(chan []byte, 1), done: make(chan struct{})}
		require.False(t, s.join(late))
		_, ok := s.clients.Load(late.id)
		require.False(t, ok)

		waited := make(chan struct{})
		go func() {
			s.workerGroup.Wait()
			close(waited)
		}()
		select {
		case <-waited:
		case <-time.After(time.Second):
			t.Fatal("worker group still has members after Stop")
		}
	})

	t.Run("Concurrent Dials", func(t *testing.T) {
		s, _ := startServer(t, 0)
		var wg sync.WaitGroup
		stop := make(chan struct{})
		for n := 0; n < 8; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
					}
					conn, _, err := websocket.DefaultDialer.Dial("ws://"+s.Addr().String()+"/ws", nil)
					if err != nil {
						continue
					}
					_ = conn.Close()
				}
			}()
		}
		time.Sleep(50 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, s.Stop(ctx))
		close(stop)
		wg.Wait()
	})
}
