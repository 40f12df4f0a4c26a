// Package deskhost is the desktop implementation of host.Host: a
// terminal in raw mode for line editing, wall-clock time for MILLIS and
// DELAY, and a single flat file for SAVE/LOAD. It has no real GPIO or
// memory-mapped I/O to talk to, so PEEK/POKE and the GPIO statements are
// stubs that report success without doing anything observable - the
// same position original_source/linuxinterface.c takes for a desktop
// build of this interpreter.
package deskhost

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/kevinboone/pmbasic/basicerr"
)

// persistMagic is the 3-byte header every saved program file starts
// with, followed by the program text and a trailing NUL.
var persistMagic = [3]byte{'P', 'M', 'B'}

// Host is the desktop host. The zero value is not usable; use New.
type Host struct {
	in       io.Reader
	out      io.Writer
	savePath string
	start    time.Time

	rawFD       int
	rawState    *term.State
	lineReader  *bufio.Reader
	interrupted bool
}

// New creates a desktop host reading from in and writing to out, using
// savePath as the single persistence slot for SAVE and LOAD.
func New(in *os.File, out io.Writer, savePath string) *Host {
	h := &Host{
		in:         in,
		out:        out,
		savePath:   savePath,
		start:      time.Now(),
		lineReader: bufio.NewReader(in),
		rawFD:      int(in.Fd()),
	}
	return h
}

// EnterRaw puts the input terminal into raw mode so ReadLine can do its
// own echo and backspace handling instead of the tty driver's. Callers
// must defer Leave to restore the terminal before the process exits.
func (h *Host) EnterRaw() error {
	if !term.IsTerminal(h.rawFD) {
		return nil
	}
	state, err := term.MakeRaw(h.rawFD)
	if err != nil {
		return err
	}
	h.rawState = state
	return nil
}

// Leave restores the terminal to the state it was in before EnterRaw.
func (h *Host) Leave() {
	if h.rawState != nil {
		term.Restore(h.rawFD, h.rawState)
		h.rawState = nil
	}
}

func (h *Host) OutputChar(c byte) {
	h.out.Write([]byte{c})
}

func (h *Host) OutputString(s string) {
	io.WriteString(h.out, s)
}

func (h *Host) OutputInt(v int32) {
	fmt.Fprintf(h.out, "%d", v)
}

func (h *Host) OutputEOL() {
	h.out.Write([]byte{'\n'})
}

// ReadLine reads one line of input. When the input is a real terminal
// in raw mode, backspace (0x08 or 0x7f) erases the previous character
// locally and ^C (0x03) aborts the line with Interrupted; the driver
// would otherwise swallow both before this interpreter ever saw them.
// When reading from a pipe or file (tests, scripted input), ReadLine
// falls back to plain buffered line reading.
func (h *Host) ReadLine() (string, error) {
	if h.rawState == nil {
		line, err := h.lineReader.ReadString('\n')
		if err != nil && line == "" {
			return "", basicerr.New(basicerr.Interrupted)
		}
		return trimEOL(line), nil
	}

	var buf []byte
	for {
		b := make([]byte, 1)
		if _, err := h.in.Read(b); err != nil {
			return "", basicerr.New(basicerr.Interrupted)
		}
		switch b[0] {
		case 0x03:
			return "", basicerr.New(basicerr.Interrupted)
		case '\r', '\n':
			h.OutputEOL()
			return string(buf), nil
		case 0x08, 0x7f:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				h.OutputString("\b \b")
			}
		default:
			buf = append(buf, b[0])
			h.OutputChar(b[0])
		}
	}
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// PollInterrupt reports whether a ^C was observed since the last poll.
// This desktop host has no asynchronous signal source wired up, so it
// always reports false; ^C is instead caught synchronously inside
// ReadLine, which is sufficient for INPUT but not for interrupting a
// tight RUN loop with no INPUT statement in it.
func (h *Host) PollInterrupt() bool {
	return false
}

func (h *Host) Millis() int64 {
	return time.Since(h.start).Milliseconds()
}

func (h *Host) Sleep(ms int32) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func (h *Host) Peek(addr int32) (byte, error) {
	slog.Debug("peek not implemented on desktop host", "addr", addr)
	return 0, nil
}

func (h *Host) Poke(addr int32, value byte) error {
	slog.Debug("poke not implemented on desktop host", "addr", addr, "value", value)
	return nil
}

func (h *Host) PinMode(pin int32, mode int32) error {
	slog.Debug("pinmode not implemented on desktop host", "pin", pin, "mode", mode)
	return nil
}

func (h *Host) DigitalWrite(pin int32, value int32) error {
	slog.Debug("digitalwrite not implemented on desktop host", "pin", pin, "value", value)
	return nil
}

func (h *Host) DigitalRead(pin int32) (int32, error) {
	slog.Debug("digitalread not implemented on desktop host", "pin", pin)
	return 0, nil
}

func (h *Host) AnalogWrite(pin int32, value int32) error {
	slog.Debug("analogwrite not implemented on desktop host", "pin", pin, "value", value)
	return nil
}

func (h *Host) AnalogRead(pin int32) (int32, error) {
	slog.Debug("analogread not implemented on desktop host", "pin", pin)
	return 0, nil
}

// PersistSave writes program to the save slot as a 3-byte "PMB" header,
// the program text verbatim, and a trailing NUL.
func (h *Host) PersistSave(program []byte) error {
	f, err := os.Create(h.savePath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(persistMagic[:]); err != nil {
		return err
	}
	if _, err := f.Write(program); err != nil {
		return err
	}
	_, err = f.Write([]byte{0})
	return err
}

// PersistLoad reads the save slot back, validating its header and
// stripping the header and trailing NUL before returning the program
// text. Returns NoStoredProgram if the slot doesn't exist yet.
func (h *Host) PersistLoad() ([]byte, error) {
	data, err := os.ReadFile(h.savePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, basicerr.New(basicerr.NoStoredProgram)
		}
		return nil, err
	}
	if len(data) < len(persistMagic) || data[0] != persistMagic[0] || data[1] != persistMagic[1] || data[2] != persistMagic[2] {
		return nil, basicerr.New(basicerr.NoStoredProgram)
	}
	body := data[len(persistMagic):]
	if len(body) > 0 && body[len(body)-1] == 0 {
		body = body[:len(body)-1]
	}
	return body, nil
}
