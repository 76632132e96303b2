// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"
	"sync"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"
)

// XDR transducer names emitted by common serial AHRS units.
const (
	xdrPitch = "PTCH"
	xdrRoll  = "ROLL"
	xdrAccZ  = "ACCZ"
)

// SerialSource reads attitude from a serial AHRS that emits NMEA XDR
// sentences, e.g.
//
//	$YXXDR,A,-1.5,D,PTCH,A,2.0,D,ROLL*hh
//
// An optional ACCZ measurement carries vertical acceleration in g.
// A reader goroutine keeps the latest complete reading; Next returns
// ErrNoData until one has arrived.
type SerialSource struct {
	opts serial.OpenOptions

	mu     sync.Mutex
	latest Attitude
	have   bool

	port io.ReadWriteCloser
	done chan struct{}
}

// NewSerialSource configures (but does not open) a serial AHRS source.
func NewSerialSource(portName string, baudRate uint) *SerialSource {
	return &SerialSource{
		opts: serial.OpenOptions{
			PortName:              portName,
			BaudRate:              baudRate,
			DataBits:              8,
			StopBits:              1,
			MinimumReadSize:       1,
			ParityMode:            serial.PARITY_NONE,
			InterCharacterTimeout: 0,
		},
	}
}

// Available reports whether the configured port exists.
func (s *SerialSource) Available() bool {
	if s.opts.PortName == "" {
		return false
	}
	_, err := os.Stat(s.opts.PortName)
	return err == nil
}

// Start opens the serial port and begins reading sentences.
func (s *SerialSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != nil {
		return nil
	}

	port, err := serial.Open(s.opts)
	if err != nil {
		return fmt.Errorf("serial AHRS open %s: %w", s.opts.PortName, err)
	}
	log.Printf("serial AHRS: port opened on %s at %d baud", s.opts.PortName, s.opts.BaudRate)

	s.port = port
	s.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		if err := s.readLoop(port); err != nil {
			log.Printf("serial AHRS: read error: %v", err)
		}
	}(s.done)
	return nil
}

// Stop closes the port and waits for the reader to exit.
func (s *SerialSource) Stop() {
	s.mu.Lock()
	port, done := s.port, s.done
	s.port, s.done = nil, nil
	s.mu.Unlock()

	if port == nil {
		return
	}
	port.Close()
	<-done
}

func (s *SerialSource) Next() (Attitude, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.have {
		return Attitude{}, ErrNoData
	}
	return s.latest, nil
}

// readLoop consumes NMEA lines until r fails. Anything that is not a
// parseable XDR sentence with both pitch and roll is ignored.
func (s *SerialSource) readLoop(r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); strings.HasPrefix(line, "$") {
			s.handleLine(line)
		}
		if err != nil {
			if err == io.EOF || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func (s *SerialSource) handleLine(line string) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		// noisy line or partial sentence
		return
	}
	if sentence.DataType() != nmea.TypeXDR {
		return
	}
	att, ok := AttitudeFromXDR(sentence.(nmea.XDR))
	if !ok {
		return
	}
	s.mu.Lock()
	s.latest = att
	s.have = true
	s.mu.Unlock()
}

// AttitudeFromXDR extracts pitch/roll (degrees, converted to radians) and
// optional vertical acceleration from an XDR sentence. ok is false unless
// both pitch and roll are present.
func AttitudeFromXDR(m nmea.XDR) (att Attitude, ok bool) {
	var havePitch, haveRoll bool
	for _, meas := range m.Measurements {
		switch strings.ToUpper(meas.TransducerName) {
		case xdrPitch, "PITCH":
			att.Pitch = meas.Value * math.Pi / 180.0
			havePitch = true
		case xdrRoll:
			att.Roll = meas.Value * math.Pi / 180.0
			haveRoll = true
		case xdrAccZ:
			att.ZAcceleration = meas.Value
		}
	}
	return att, havePitch && haveRoll
}
