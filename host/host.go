// Package host defines the capability surface the evaluator needs from
// its surrounding environment: output, line input, timing, persistence,
// and GPIO. A concrete implementation (see package deskhost) supplies
// these for a particular platform; the evaluator itself never imports
// anything platform-specific, matching spec.md section 9's guidance to
// inject the host capability rather than reach for global state.
package host

// Host is everything the evaluator needs from the world outside the
// program buffer, variable table, and control stacks.
type Host interface {
	// OutputChar writes a single character, used by PRINT for the space
	// a "," separator inserts.
	OutputChar(c byte)

	// OutputString writes a string, used by PRINT for string literals.
	OutputString(s string)

	// OutputInt writes the decimal representation of an integer.
	OutputInt(v int32)

	// OutputEOL writes a line terminator.
	OutputEOL()

	// ReadLine reads one line of input with echo, backspace-erase, and
	// ^C detection. Returns Interrupted if the user pressed ^C.
	ReadLine() (string, error)

	// PollInterrupt reports whether an interrupt (^C) is pending,
	// checked by the evaluator between statements so a runaway program
	// can be stopped.
	PollInterrupt() bool

	// Millis returns milliseconds elapsed since some fixed but
	// unspecified epoch, used by the MILLIS statement.
	Millis() int64

	// Sleep pauses for the given number of milliseconds, used by DELAY.
	Sleep(ms int32)

	// Peek reads one byte of memory at addr, used by PEEK.
	Peek(addr int32) (byte, error)

	// Poke writes one byte of memory at addr, used by POKE.
	Poke(addr int32, value byte) error

	// PinMode configures a GPIO pin's direction.
	PinMode(pin int32, mode int32) error

	// DigitalWrite sets a GPIO pin's output level.
	DigitalWrite(pin int32, value int32) error

	// DigitalRead reads a GPIO pin's input level.
	DigitalRead(pin int32) (int32, error)

	// AnalogWrite sets a GPIO pin's PWM duty cycle.
	AnalogWrite(pin int32, value int32) error

	// AnalogRead reads a GPIO pin's analog input value.
	AnalogRead(pin int32) (int32, error)

	// PersistSave writes program text to the single save slot.
	PersistSave(program []byte) error

	// PersistLoad reads program text back from the single save slot.
	// Returns NoStoredProgram if nothing has been saved yet.
	PersistLoad() ([]byte, error)
}
