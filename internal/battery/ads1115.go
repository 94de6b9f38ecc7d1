package battery

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
)

// adcRefVolts is the reference the contract count scale is expressed
// against. The divider keeps the pin below this at any pack voltage.
const adcRefVolts = 3.3

// ADS1115 reads the battery divider through channel 0 of an ADS1115.
type ADS1115 struct {
	pin ads1x15.PinADC
}

// NewADS1115 configures channel 0 for slow single-shot reads. One sample
// per display tick is all the estimator wants.
func NewADS1115(bus i2c.Bus) (*ADS1115, error) {
	dev, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("battery: ads1115: %w", err)
	}
	pin, err := dev.PinForChannel(ads1x15.Channel0, 4*physic.Volt, 8*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		return nil, fmt.Errorf("battery: ads1115 channel 0: %w", err)
	}
	return &ADS1115{pin: pin}, nil
}

// Read maps the measured pin voltage onto the estimator's 12-bit count
// contract so Calibrated reproduces the pin voltage exactly.
func (a *ADS1115) Read() (int, float64, error) {
	sample, err := a.pin.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("battery: read: %w", err)
	}
	volts := float64(sample.V) / float64(physic.Volt)
	counts := int(math.Round(volts / adcRefVolts * adcMaxCount))
	if counts < 0 {
		counts = 0
	}
	if counts > adcMaxCount {
		counts = adcMaxCount
	}
	return counts, adcRefVolts, nil
}

// Close releases the ADC channel.
func (a *ADS1115) Close() error {
	if a == nil || a.pin == nil {
		return nil
	}
	return a.pin.Halt()
}
