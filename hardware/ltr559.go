// Copyright © 2023 EcoSwell

package hardware

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/i2c"
)

// LTR559Address is the light and proximity sensor's address.
const LTR559Address = 0x23

const (
	ltrALSControl = 0x80
	ltrPSControl  = 0x81
	ltrALSMeas    = 0x85
	ltrALSData    = 0x88
	ltrPSData     = 0x8D

	// gain 4x, active
	ltrALSActive = 0x09
	ltrPSActive  = 0x03
	// 50 ms integration, 50 ms repeat
	ltrALSRate = 0x08

	ltrGain        = 4.0
	ltrIntegration = 50.0
)

var (
	ltrCh0Coeff = [4]float64{17743, 42785, 5926, 0}
	ltrCh1Coeff = [4]float64{-11059, 19548, -1185, 0}
)

// LTR559 reads ambient light and proximity.
type LTR559 struct {
	dev *i2c.Dev
}

// NewLTR559 switches both the light and the proximity sensor on.
func NewLTR559(bus i2c.Bus) (*LTR559, error) {
	l := &LTR559{dev: &i2c.Dev{Addr: LTR559Address, Bus: bus}}
	for _, w := range [][]byte{
		{ltrALSControl, ltrALSActive},
		{ltrPSControl, ltrPSActive},
		{ltrALSMeas, ltrALSRate},
	} {
		if err := l.dev.Tx(w, nil); err != nil {
			return nil, errors.Wrap(err, "ltr559 setup")
		}
	}
	return l, nil
}

// Lux returns the ambient light level.
func (l *LTR559) Lux() (float64, error) {
	r := make([]byte, 4)
	if err := l.dev.Tx([]byte{ltrALSData}, r); err != nil {
		return 0, errors.Wrap(err, "ltr559 light")
	}
	ch1 := float64(binary.LittleEndian.Uint16(r[0:]))
	ch0 := float64(binary.LittleEndian.Uint16(r[2:]))
	return lux(ch0, ch1), nil
}

// Proximity returns the raw proximity count; larger is closer.
func (l *LTR559) Proximity() (float64, error) {
	r := make([]byte, 2)
	if err := l.dev.Tx([]byte{ltrPSData}, r); err != nil {
		return 0, errors.Wrap(err, "ltr559 proximity")
	}
	return float64(uint16(r[0]) | uint16(r[1]&0x07)<<8), nil
}

func lux(ch0, ch1 float64) float64 {
	ratio := 101.0
	if ch0+ch1 > 0 {
		ratio = ch1 * 100 / (ch0 + ch1)
	}
	idx := 3
	switch {
	case ratio < 45:
		idx = 0
	case ratio < 64:
		idx = 1
	case ratio < 85:
		idx = 2
	}
	v := ch0*ltrCh0Coeff[idx] - ch1*ltrCh1Coeff[idx]
	v /= ltrIntegration / 100
	v /= ltrGain
	v /= 10000
	if v < 0 {
		return 0
	}
	return v
}
