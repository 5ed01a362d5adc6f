package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/feedback"
	"github.com/tomz197/reflex/internal/highscore"
	"github.com/tomz197/reflex/internal/loop"
	"github.com/tomz197/reflex/internal/tuning"
)

const (
	defaultHost          = "::"
	defaultPort          = "2222"
	defaultHostKeyPath   = "/app/keys/host_key"
	defaultHighScorePath = "/app/data/highscore.yaml"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal("loading .env", "err", err)
	}
	if config.GetEnvBool("REFLEX_DEBUG", false) {
		log.SetLevel(log.DebugLevel)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	scorePath := config.GetEnv("REFLEX_HIGHSCORE", defaultHighScorePath)
	tuningPath := config.GetEnv("REFLEX_TUNING", "")
	log.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "highscore", scorePath, "tuning", tuningPath)

	cfg, err := tuning.LoadOrDefault(tuningPath)
	if err != nil {
		log.Fatal("loading tuning", "err", err)
	}

	// Every connection plays its own session; only the best score is shared.
	g := &games{
		tuning: cfg,
		scores: highscore.NewStore(scorePath),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()

	<-done
	log.Info("Shutting down server...", "sessions", g.active())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown timed out, closing connections", "err", err)
		_ = s.Close()
	}
}

// games hands each SSH session its own host.
type games struct {
	tuning tuning.Config
	scores *highscore.Store

	mu       sync.Mutex
	sessions int
}

func (g *games) active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessions
}

func (g *games) track(delta int) {
	g.mu.Lock()
	g.sessions += delta
	g.mu.Unlock()
}

// middleware runs one session host for the lifetime of the connection.
func (g *games) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := log.With("session", uuid.NewString(), "user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		g.track(1)
		defer g.track(-1)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		cfg := g.tuning
		err := loop.Run(bufio.NewReader(sess), sess, loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			Renderer:     lipgloss.NewRenderer(sess),
			Logger:       logger,
			Tuning:       &cfg,
			HighScores:   g.scores,
			Haptics:      feedback.NewBell(sess),
			Username:     sess.User(),
			IdleTimeout:  true,
		})
		if err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
