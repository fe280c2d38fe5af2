// Package sampler provides the hardware sampling driver boundary: sources of
// normalized voltage samples polled once per loop iteration.
package sampler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// ErrNoSample is returned when a source has no sample to deliver.
var ErrNoSample = fmt.Errorf("no sample available")

// SerialSampler reads ASCII voltage samples, one per line, from a
// microcontroller bridge on a serial port.
type SerialSampler struct {
	port serial.Port
	scan *bufio.Scanner
}

// OpenSerial opens the named port at 115200 8N1 and returns a sampler over it.
func OpenSerial(portName string) (*SerialSampler, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: 1,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	return &SerialSampler{port: port, scan: bufio.NewScanner(port)}, nil
}

// ReadRaw reads the next voltage sample from the port.
func (s *SerialSampler) ReadRaw() (float64, error) {
	if !s.scan.Scan() {
		if err := s.scan.Err(); err != nil {
			return 0, fmt.Errorf("serial read failed: %w", err)
		}
		return 0, io.EOF
	}
	return parseSample(s.scan.Text())
}

// Close closes the serial port.
func (s *SerialSampler) Close() error {
	return s.port.Close()
}

// parseSample parses one line from the bridge. Lines are either a bare
// voltage ("1.6503") or a comma-separated "uptime,voltage" pair; anything
// else is a malformed line.
func parseSample(line string) (float64, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, fmt.Errorf("empty sample line")
	}
	if i := strings.LastIndex(line, ","); i >= 0 {
		line = line[i+1:]
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse sample %q: %w", line, err)
	}
	return v, nil
}

// ReaderSampler reads line-formatted samples from any reader; used in dev
// mode to replay fixture files.
type ReaderSampler struct {
	scan *bufio.Scanner
}

// NewReaderSampler returns a sampler over r.
func NewReaderSampler(r io.Reader) *ReaderSampler {
	return &ReaderSampler{scan: bufio.NewScanner(r)}
}

// ReadRaw returns the next sample, or io.EOF once the reader is drained.
func (s *ReaderSampler) ReadRaw() (float64, error) {
	if !s.scan.Scan() {
		if err := s.scan.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return parseSample(s.scan.Text())
}
