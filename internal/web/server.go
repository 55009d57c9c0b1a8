package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"Emberveil/internal/game"
)

const (
	writeTimeout     = 5 * time.Second
	handshakeTimeout = 10 * time.Second
)

// clientFrame is one inbound JSON message. The first frame must be a login;
// every later frame is a command.
type clientFrame struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Server exposes the game over websockets. Outbound traffic is the same
// engine event stream the telnet adapter renders; here each event is one JSON
// frame.
type Server struct {
	sessions *game.Sessions
	accounts *game.AccountManager
	log      *slog.Logger

	upgrader websocket.Upgrader
}

func NewServer(sessions *game.Sessions, accounts *game.AccountManager, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		sessions: sessions,
		accounts: accounts,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the websocket endpoint.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		s.serve(conn)
	}
}

func (s *Server) serve(conn *websocket.Conn) {
	name, ok := s.handshake(conn)
	if !ok {
		return
	}

	p, err := s.sessions.Connect(name, s.accounts.IsAdmin(name))
	if err != nil {
		text := err.Error()
		if errors.Is(err, game.ErrAlreadyConnected) {
			text = "that character is already connected"
		}
		_ = s.writeEvent(conn, game.Failure(text))
		return
	}
	if err := s.accounts.RecordLogin(name, time.Now().UTC()); err != nil {
		s.log.Warn("record login", "player", name, "error", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-p.Output:
				if err := s.writeEvent(conn, ev); err != nil {
					return
				}
			case <-p.Done():
				// Flush whatever was buffered before retirement.
				for {
					select {
					case ev := <-p.Output:
						_ = s.writeEvent(conn, ev)
					default:
						return
					}
				}
			}
		}
	}()

	s.sessions.World().Send(p, game.Info("Welcome, "+p.Name+"!"))
	if view, viewErr := s.sessions.World().View(p); viewErr == nil {
		s.sessions.World().Send(p, game.Event{Kind: game.EventRoom, Text: view.Describe(p.Name)})
	}

	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}
		if frame.Type != "command" || frame.Text == "" {
			continue
		}
		if quit := s.sessions.SubmitCommand(p, frame.Text); quit {
			break
		}
	}

	s.sessions.Disconnect(p)
	<-done
}

// handshake reads the login frame and authenticates or registers the account.
func (s *Server) handshake(conn *websocket.Conn) (string, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var frame clientFrame
	if err := conn.ReadJSON(&frame); err != nil {
		return "", false
	}
	if frame.Type != "login" || frame.Name == "" || frame.Password == "" {
		s.closeWith(conn, "expected login frame")
		return "", false
	}
	if s.accounts.Exists(frame.Name) {
		if !s.accounts.Authenticate(frame.Name, frame.Password) {
			s.closeWith(conn, "authentication failed")
			return "", false
		}
		return frame.Name, true
	}
	if err := s.accounts.Register(frame.Name, frame.Password); err != nil {
		s.closeWith(conn, err.Error())
		return "", false
	}
	return frame.Name, true
}

func (s *Server) writeEvent(conn *websocket.Conn, ev game.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) closeWith(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

// ListenAndServe serves the websocket endpoint at /ws until the listener
// fails.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.Handler())
	s.log.Info("websocket server listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
