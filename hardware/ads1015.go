// Copyright © 2023 EcoSwell

package hardware

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/i2c"

	"github.com/EcoSwell/RaspberryPi-Sensor/sensors"
)

// ADS1015Address is the gas ADC's address on the Enviro+ board.
const ADS1015Address = 0x49

const (
	adsConversion = 0x00
	adsConfig     = 0x01

	// single shot, +-6.144 V, 1600 SPS, comparator off
	adsSingleShot = 0x8183
	adsFullScale  = 6.144

	// MICS6814 load resistor and supply
	gasLoad   = 56000
	gasSupply = 3.3
)

// MICS6814 channels on the ADC, single ended against ground.
const (
	channelOxidising = 0
	channelReducing  = 1
	channelNH3       = 2
)

// ADS1015 reads the MICS6814 gas sensor through the analog converter.
type ADS1015 struct {
	dev  *i2c.Dev
	wait time.Duration
}

func NewADS1015(bus i2c.Bus) *ADS1015 {
	return &ADS1015{dev: &i2c.Dev{Addr: ADS1015Address, Bus: bus}, wait: 2 * time.Millisecond}
}

// Voltage converts one channel.
func (a *ADS1015) Voltage(channel int) (float64, error) {
	cfg := uint16(adsSingleShot) | uint16(0x4|channel)<<12
	w := []byte{adsConfig, byte(cfg >> 8), byte(cfg)}
	if err := a.dev.Tx(w, nil); err != nil {
		return 0, errors.Wrap(err, "ads1015 config")
	}
	time.Sleep(a.wait)

	r := make([]byte, 2)
	if err := a.dev.Tx([]byte{adsConversion}, r); err != nil {
		return 0, errors.Wrap(err, "ads1015 conversion")
	}
	raw := int16(binary.BigEndian.Uint16(r)) >> 4
	return float64(raw) / 2048 * adsFullScale, nil
}

// Resistances returns the three sensing resistances in ohms.
func (a *ADS1015) Resistances() (sensors.GasResistances, error) {
	var g sensors.GasResistances
	for _, c := range []struct {
		channel int
		dst     *float64
	}{
		{channelOxidising, &g.Oxidising},
		{channelReducing, &g.Reducing},
		{channelNH3, &g.NH3},
	} {
		v, err := a.Voltage(c.channel)
		if err != nil {
			return g, err
		}
		r, err := resistance(v)
		if err != nil {
			return g, err
		}
		*c.dst = r
	}
	return g, nil
}

func resistance(v float64) (float64, error) {
	if v >= gasSupply {
		return 0, errors.Errorf("gas sensor saturated at %.3f V", v)
	}
	return v * gasLoad / (gasSupply - v), nil
}
