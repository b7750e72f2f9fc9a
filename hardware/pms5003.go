// Copyright © 2023 EcoSwell

package hardware

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

const (
	// FrameSize is the length of a PMS5003 data frame.
	FrameSize = 32

	frameStart1 = 0x42
	frameStart2 = 0x4D
	frameLength = 28

	DefaultPMSPort    = "/dev/ttyAMA0"
	DefaultPMSBaud    = 9600
	DefaultPMSTimeout = 5 * time.Second
)

var ErrChecksum = errors.New("pms5003 checksum mismatch")

// ParseFrame decodes the standard particle (CF=1) concentrations of a frame.
func ParseFrame(frame []byte) (sensors.ParticulateMatter, error) {
	if len(frame) != FrameSize {
		return sensors.ParticulateMatter{}, errors.Errorf("pms5003 frame has %d bytes", len(frame))
	}
	if frame[0] != frameStart1 || frame[1] != frameStart2 {
		return sensors.ParticulateMatter{}, errors.New("pms5003 frame start not found")
	}
	if n := binary.BigEndian.Uint16(frame[2:4]); n != frameLength {
		return sensors.ParticulateMatter{}, errors.Errorf("pms5003 frame length %d", n)
	}

	var sum uint16
	for _, b := range frame[:FrameSize-2] {
		sum += uint16(b)
	}
	if sum != binary.BigEndian.Uint16(frame[FrameSize-2:]) {
		return sensors.ParticulateMatter{}, ErrChecksum
	}

	word := func(i int) float64 {
		return float64(binary.BigEndian.Uint16(frame[4+2*i:]))
	}
	return sensors.ParticulateMatter{PM1: word(0), PM25: word(1), PM10: word(2)}, nil
}

// PMS5003 reads the Plantower particulate sensor over a serial port.
type PMS5003 struct {
	port    io.ReadCloser
	timeout time.Duration
}

// OpenPMS5003 opens the sensor's UART.
func OpenPMS5003(name string, baud int) (*PMS5003, error) {
	c := &serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: 500 * time.Millisecond,
	}
	s, err := serial.OpenPort(c)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	return NewPMS5003(s, DefaultPMSTimeout), nil
}

// NewPMS5003 reads frames from port, giving up after timeout per reading.
func NewPMS5003(port io.ReadCloser, timeout time.Duration) *PMS5003 {
	return &PMS5003{port: port, timeout: timeout}
}

// Read waits for the next valid frame. It returns sensors.ErrReadTimeout if
// none arrives in time.
func (p *PMS5003) Read() (sensors.ParticulateMatter, error) {
	if f, ok := p.port.(interface{ Flush() error }); ok {
		f.Flush()
	}

	deadline := time.Now().Add(p.timeout)
	frame := make([]byte, FrameSize)
	for {
		if err := p.sync(deadline); err != nil {
			return sensors.ParticulateMatter{}, err
		}
		frame[0], frame[1] = frameStart1, frameStart2
		if err := p.fill(frame[2:], deadline); err != nil {
			return sensors.ParticulateMatter{}, err
		}
		pm, err := ParseFrame(frame)
		if err == nil {
			return pm, nil
		}
		if time.Now().After(deadline) {
			return sensors.ParticulateMatter{}, sensors.ErrReadTimeout
		}
	}
}

// sync consumes bytes up to and including the two start bytes.
func (p *PMS5003) sync(deadline time.Time) error {
	b := make([]byte, 1)
	prev := byte(0)
	for {
		if err := p.fill(b, deadline); err != nil {
			return err
		}
		if prev == frameStart1 && b[0] == frameStart2 {
			return nil
		}
		prev = b[0]
	}
}

func (p *PMS5003) fill(buf []byte, deadline time.Time) error {
	for read := 0; read < len(buf); {
		if time.Now().After(deadline) {
			return sensors.ErrReadTimeout
		}
		n, err := p.port.Read(buf[read:])
		read += n
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "pms5003")
		}
		if n == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}
	return nil
}

func (p *PMS5003) Close() error {
	return p.port.Close()
}
