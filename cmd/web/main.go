package main

import (
	_ "embed"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/highscore"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal("loading .env", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "2222")
	scorePath := config.GetEnv("REFLEX_HIGHSCORE", "")

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// The SSH server owns the file; read it fresh on every visit.
		best, err := highscore.NewStore(scorePath).Best()
		if err != nil {
			log.Warn("reading high score", "err", err)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page := strings.NewReplacer(
			"{{.SSHHost}}", sshHost,
			"{{.SSHPort}}", sshPort,
			"{{.Best}}", fmt.Sprint(best),
		).Replace(htmlPage)
		fmt.Fprint(w, page)
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("Starting web server", "addr", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("server error", "err", err)
	}
}
