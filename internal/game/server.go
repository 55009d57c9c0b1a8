package game

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// TelnetServer accepts telnet connections and binds each one to a player
// session. All game behaviour flows through the Sessions coordinator, so the
// server is responsible only for the wire: login, output pumping, prompts.
type TelnetServer struct {
	Addr     string
	TLS      bool
	CertFile string
	KeyFile  string

	sessions *Sessions
	accounts *AccountManager
	log      *slog.Logger
}

func NewTelnetServer(addr string, sessions *Sessions, accounts *AccountManager, log *slog.Logger) *TelnetServer {
	if log == nil {
		log = slog.Default()
	}
	return &TelnetServer{Addr: addr, sessions: sessions, accounts: accounts, log: log}
}

var (
	netListenFunc         = net.Listen
	tlsListenFunc         = tls.Listen
	ensureCertificateFunc = ensureCertificate
)

const (
	postLoginAtmosphere = "Embers drift upward as the veil parts before you."
	postLoginPrompt     = "Type 'help' to learn the essentials or 'look' to take in your surroundings."
	logoffAtmosphere    = "The embers dim and the veil closes softly behind you."
)

func ensureCertificate(certFile, keyFile, addr string) (tls.Certificate, bool, error) {
	if cert, err := tls.LoadX509KeyPair(certFile, keyFile); err == nil {
		return cert, false, nil
	}

	if err := generateSelfSignedCert(certFile, keyFile, addr); err != nil {
		return tls.Certificate{}, false, err
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, false, err
	}
	return cert, true, nil
}

func generateSelfSignedCert(certFile, keyFile, addr string) error {
	if dir := filepath.Dir(certFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if dir := filepath.Dir(keyFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return err
	}

	now := time.Now()
	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(now.UnixNano()),
		Subject: pkix.Name{
			CommonName:   "Emberveil",
			Organization: []string{"Emberveil"},
		},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		tmpl.DNSNames = append(tmpl.DNSNames, "localhost")
		tmpl.IPAddresses = append(tmpl.IPAddresses, net.ParseIP("127.0.0.1"), net.ParseIP("::1"))
	} else if ip := net.ParseIP(host); ip != nil {
		tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
	} else {
		tmpl.DNSNames = append(tmpl.DNSNames, host)
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		return err
	}

	certOut, err := os.OpenFile(certFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: derBytes}); err != nil {
		_ = certOut.Close()
		return err
	}
	if err := certOut.Close(); err != nil {
		return err
	}

	keyOut, err := os.OpenFile(keyFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := pem.Encode(keyOut, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)}); err != nil {
		_ = keyOut.Close()
		return err
	}
	return keyOut.Close()
}

func (srv *TelnetServer) handleConn(conn net.Conn) {
	session := NewTelnetSession(conn)
	defer session.Close()
	username, isAdmin, err := login(session, srv.accounts)
	if err != nil {
		return
	}

	p, err := srv.sessions.Connect(username, isAdmin)
	if err != nil {
		if errors.Is(err, ErrAlreadyConnected) {
			_ = session.WriteString(Ansi(Style("\r\nThat character is already connected.\r\n", AnsiYellow)))
		} else {
			_ = session.WriteString(Ansi(Style("\r\n"+err.Error()+"\r\n", AnsiYellow)))
		}
		return
	}

	if err := srv.accounts.RecordLogin(username, time.Now().UTC()); err != nil {
		srv.log.Warn("record login", "player", username, "error", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-p.Output:
				_ = session.WriteEvent(ev)
			case <-p.Done():
				// Flush whatever was buffered before retirement.
				for {
					select {
					case ev := <-p.Output:
						_ = session.WriteEvent(ev)
					default:
						return
					}
				}
			}
		}
	}()

	deliver(p, Event{Kind: EventSystem, Text: postLoginAtmosphere})
	deliver(p, Info(fmt.Sprintf("Welcome, %s!", p.Name)))
	deliver(p, Event{Kind: EventSystem, Text: postLoginPrompt})
	if view, viewErr := srv.sessions.World().View(p); viewErr == nil {
		deliver(p, Event{Kind: EventRoom, Text: view.Describe(p.Name)})
	}

	_ = conn.SetReadDeadline(time.Time{})

	for {
		line, err := session.ReadLine()
		if err != nil {
			break
		}
		line = Trim(line)
		if line == "" {
			_ = session.WriteString(Prompt(p))
			continue
		}
		if quit := srv.sessions.SubmitCommand(p, line); quit {
			break
		}
		_ = session.WriteString(Prompt(p))
	}

	deliver(p, Event{Kind: EventSystem, Text: logoffAtmosphere})
	srv.sessions.Disconnect(p)
	<-done
}

// ListenAndServe accepts telnet connections until the listener fails.
func (srv *TelnetServer) ListenAndServe() error {
	var ln net.Listener
	var err error
	if srv.TLS {
		cert, created, certErr := ensureCertificateFunc(srv.CertFile, srv.KeyFile, srv.Addr)
		if certErr != nil {
			return certErr
		}
		if created {
			srv.log.Info("generated self-signed TLS certificate", "cert", srv.CertFile, "key", srv.KeyFile)
		}
		tlsConfig := &tls.Config{Certificates: []tls.Certificate{cert}}
		ln, err = tlsListenFunc("tcp", srv.Addr, tlsConfig)
	} else {
		ln, err = netListenFunc("tcp", srv.Addr)
	}
	if err != nil {
		return err
	}
	defer ln.Close()
	srv.log.Info("telnet server listening", "addr", ln.Addr().String(), "tls", srv.TLS)

	return srv.acceptConnections(ln, func(conn net.Conn) {
		go srv.handleConn(conn)
	})
}

const (
	acceptBackoffStart = 50 * time.Millisecond
	acceptBackoffMax   = time.Second
)

var acceptSleep = time.Sleep

func (srv *TelnetServer) acceptConnections(ln net.Listener, handle func(net.Conn)) error {
	backoff := acceptBackoffStart
	for {
		conn, err := ln.Accept()
		if err != nil {
			if isTemporaryAcceptError(err) {
				srv.log.Warn("temporary accept error", "error", err, "retry_in", backoff)
				acceptSleep(backoff)
				backoff *= 2
				if backoff > acceptBackoffMax {
					backoff = acceptBackoffMax
				}
				continue
			}
			return err
		}
		backoff = acceptBackoffStart
		handle(conn)
	}
}

func isTemporaryAcceptError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() || ne.Temporary() {
			return true
		}
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	return false
}
