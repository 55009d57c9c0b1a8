package game

import (
	"bufio"
	"bytes"
	"net"
	"strings"
	"sync"

	"golang.org/x/text/encoding/charmap"
)

const (
	telnetIAC  byte = 255
	telnetDONT byte = 254
	telnetDO   byte = 253
	telnetWONT byte = 252
	telnetWILL byte = 251
	telnetSB   byte = 250
	telnetSE   byte = 240
	telnetNOP  byte = 241
	telnetDM   byte = 242
	telnetBRK  byte = 243
	telnetIP   byte = 244
	telnetAO   byte = 245
	telnetAYT  byte = 246
	telnetEC   byte = 247
	telnetEL   byte = 248
	telnetGA   byte = 249
)

const (
	telnetOptEcho         byte = 1
	telnetOptSuppressGA   byte = 3
	telnetOptTerminalType byte = 24
	telnetOptWindowSize   byte = 31
	telnetOptLineMode     byte = 34
	telnetOptCharset      byte = 42
)

const (
	charsetRequest  byte = 1
	charsetAccepted byte = 2
	charsetRejected byte = 3
)

var (
	serverSupportedOptions = map[byte]bool{
		telnetOptSuppressGA: true,
		telnetOptCharset:    true,
	}
	clientSupportedOptions = map[byte]bool{
		telnetOptTerminalType: true,
		telnetOptWindowSize:   true,
		telnetOptCharset:      true,
	}
)

type TelnetSession struct {
	conn    net.Conn
	reader  *bufio.Reader
	mu      sync.Mutex
	width   int
	height  int
	term    string
	charset string
	cm      *charmap.Charmap
}

func NewTelnetSession(conn net.Conn) *TelnetSession {
	s := &TelnetSession{
		conn:   conn,
		reader: bufio.NewReader(conn),
		width:  80,
		height: 24,
	}
	s.performHandshake()
	return s
}

func (s *TelnetSession) performHandshake() {
	_ = s.writeCommand(telnetWILL, telnetOptSuppressGA)
	_ = s.writeCommand(telnetWONT, telnetOptEcho)
	_ = s.writeCommand(telnetDONT, telnetOptLineMode)
	_ = s.writeCommand(telnetDO, telnetOptTerminalType)
	_ = s.writeCommand(telnetDO, telnetOptWindowSize)
	_ = s.writeCommand(telnetWILL, telnetOptCharset)
}

func (s *TelnetSession) writeCommand(cmd, opt byte) error {
	return s.writeRaw([]byte{telnetIAC, cmd, opt})
}

func (s *TelnetSession) writeRaw(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Write(payload)
	return err
}

func (s *TelnetSession) WriteString(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := []byte(msg)
	if s.cm != nil {
		payload = encodeWithCharmap(s.cm, payload)
	}
	_, err := s.conn.Write(translateForTelnet(payload))
	return err
}

func translateForTelnet(msg []byte) []byte {
	var buf bytes.Buffer
	var prev byte
	for i := 0; i < len(msg); i++ {
		b := msg[i]
		switch b {
		case '\n':
			if prev != '\r' {
				buf.WriteByte('\r')
			}
			buf.WriteByte('\n')
		case telnetIAC:
			buf.WriteByte(telnetIAC)
			buf.WriteByte(telnetIAC)
		default:
			buf.WriteByte(b)
		}
		prev = b
	}
	return buf.Bytes()
}

func (s *TelnetSession) ReadLine() (string, error) {
	var buf bytes.Buffer
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return "", err
		}
		switch b {
		case '\r':
			if next, err := s.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = s.reader.ReadByte()
			}
			return s.decodeLine(buf.Bytes()), nil
		case '\n':
			return s.decodeLine(buf.Bytes()), nil
		case 0x08, 0x7f:
			bs := buf.Bytes()
			if len(bs) > 0 {
				buf.Truncate(len(bs) - 1)
			}
		case 0x00:
			// ignore NULs
		case telnetIAC:
			if err := s.handleIAC(&buf); err != nil {
				return "", err
			}
		default:
			buf.WriteByte(b)
		}
	}
}

func (s *TelnetSession) decodeLine(raw []byte) string {
	if s.cm != nil {
		return decodeWithCharmap(s.cm, raw)
	}
	return string(raw)
}

func (s *TelnetSession) handleIAC(buf *bytes.Buffer) error {
	cmd, err := s.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case telnetIAC:
		buf.WriteByte(telnetIAC)
	case telnetDO, telnetDONT, telnetWILL, telnetWONT:
		opt, err := s.reader.ReadByte()
		if err != nil {
			return err
		}
		s.handleNegotiation(cmd, opt)
	case telnetSB:
		return s.handleSubnegotiation()
	case telnetNOP, telnetDM, telnetBRK, telnetIP, telnetAO, telnetAYT, telnetEC, telnetEL, telnetGA:
		// ignored control commands
	default:
		// ignore anything unknown to keep stream resilient
	}
	return nil
}

func (s *TelnetSession) handleNegotiation(cmd, opt byte) {
	switch cmd {
	case telnetDO:
		if serverSupportedOptions[opt] {
			_ = s.writeCommand(telnetWILL, opt)
		} else {
			_ = s.writeCommand(telnetWONT, opt)
		}
	case telnetDONT:
		_ = s.writeCommand(telnetWONT, opt)
	case telnetWILL:
		if clientSupportedOptions[opt] {
			_ = s.writeCommand(telnetDO, opt)
		} else {
			_ = s.writeCommand(telnetDONT, opt)
		}
	case telnetWONT:
		_ = s.writeCommand(telnetDONT, opt)
	}
}

func (s *TelnetSession) handleSubnegotiation() error {
	opt, err := s.reader.ReadByte()
	if err != nil {
		return err
	}
	payload := make([]byte, 0, 16)
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return err
		}
		if b == telnetIAC {
			esc, err := s.reader.ReadByte()
			if err != nil {
				return err
			}
			if esc == telnetIAC {
				payload = append(payload, telnetIAC)
				continue
			}
			if esc == telnetSE {
				break
			}
			// unexpected command inside subnegotiation, ignore and continue
			continue
		}
		payload = append(payload, b)
	}

	switch opt {
	case telnetOptTerminalType:
		if len(payload) > 1 && payload[0] == 0 { // IS
			s.term = strings.ToUpper(string(payload[1:]))
		}
	case telnetOptWindowSize:
		if len(payload) >= 4 {
			s.width = int(payload[0])<<8 | int(payload[1])
			s.height = int(payload[2])<<8 | int(payload[3])
		}
	case telnetOptCharset:
		s.handleCharsetRequest(payload)
	}
	return nil
}

// handleCharsetRequest answers a CHARSET REQUEST subnegotiation. UTF-8 is
// preferred; otherwise the first offered charset with a known single-byte
// charmap is accepted and all later output is transcoded.
func (s *TelnetSession) handleCharsetRequest(payload []byte) {
	if len(payload) < 2 || payload[0] != charsetRequest {
		return
	}
	offered := parseCharsetList(sanitizeTelnetString(payload[1:]))
	for _, name := range offered {
		token := normalizeToken(name)
		if token == "UTF8" {
			s.charset = name
			s.cm = nil
			s.sendCharsetReply(charsetAccepted, name)
			return
		}
		if cm := charmapForToken(token); cm != nil {
			s.charset = name
			s.cm = cm
			s.sendCharsetReply(charsetAccepted, name)
			return
		}
	}
	s.sendCharsetReply(charsetRejected, "")
}

func (s *TelnetSession) sendCharsetReply(verdict byte, name string) {
	reply := []byte{telnetIAC, telnetSB, telnetOptCharset, verdict}
	if name != "" {
		reply = append(reply, []byte(name)...)
	}
	reply = append(reply, telnetIAC, telnetSE)
	_ = s.writeRaw(reply)
}

// normalizeToken uppercases a charset name and strips separators, so
// "Utf-8", "UTF_8", and "utf8" all compare equal.
func normalizeToken(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(name)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseCharsetList splits a CHARSET offer on its separator, dropping empties.
func parseCharsetList(list string) []string {
	parts := strings.Split(list, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func charmapForToken(token string) *charmap.Charmap {
	switch token {
	case "ISO88591", "LATIN1", "8859":
		return charmap.ISO8859_1
	case "ISO885915", "LATIN9":
		return charmap.ISO8859_15
	case "WINDOWS1252", "CP1252":
		return charmap.Windows1252
	case "CP437", "IBM437", "437":
		return charmap.CodePage437
	case "CP850", "IBM850", "850":
		return charmap.CodePage850
	}
	return nil
}

// encodeWithCharmap transcodes UTF-8 bytes into the session charmap.
// Unmappable runes degrade to '?'.
func encodeWithCharmap(cm *charmap.Charmap, data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, r := range string(data) {
		if b, ok := cm.EncodeRune(r); ok {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return out
}

// decodeWithCharmap transcodes charmap bytes into a UTF-8 string.
func decodeWithCharmap(cm *charmap.Charmap, data []byte) string {
	var b strings.Builder
	for _, raw := range data {
		b.WriteRune(cm.DecodeByte(raw))
	}
	return b.String()
}

// sanitizeTelnetString strips control bytes from protocol payloads before they
// are interpreted as text.
func sanitizeTelnetString(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b < 0x20 || b == 0x7f {
			continue
		}
		out = append(out, b)
	}
	return string(out)
}

// WriteEvent renders an engine event for this terminal, wrapping the text to
// the negotiated window width before styling.
func (s *TelnetSession) WriteEvent(ev Event) error {
	return s.WriteString("\r\n" + RenderEvent(WrapEvent(ev, s.width)))
}

func (s *TelnetSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

func (s *TelnetSession) Size() (int, int) {
	return s.width, s.height
}

func (s *TelnetSession) Terminal() string {
	return s.term
}
