package gamepad

// Calibration converts a raw axis sample into a display offset.
type Calibration struct {
	Max    float64
	Invert bool
}

// Override holds the per-channel calibration fields set in configuration.
// A nil field inherits from the shared default.
type Override struct {
	Max    *float64 `mapstructure:"max"`
	Invert *bool    `mapstructure:"invert"`
}

// Calibrations holds the resolved calibration of each channel, indexed by
// Channel.Index().
type Calibrations [NumChannels]Calibration

// For returns the calibration of channel ch.
func (c *Calibrations) For(ch Channel) Calibration {
	return c[ch.Index()]
}

// DefaultCalibration returns the baseline used when configuration does not
// override the shared default.
func DefaultCalibration() Calibration {
	return Calibration{Max: 1.0, Invert: false}
}

// Resolve applies o on top of def, field by field.
func Resolve(o Override, def Calibration) Calibration {
	c := def
	if o.Max != nil {
		c.Max = *o.Max
	}
	if o.Invert != nil {
		c.Invert = *o.Invert
	}
	return c
}

// Map scales raw into the -0.5..0.5 display range. Values beyond cal.Max
// are not clamped.
func Map(raw float64, cal Calibration) float64 {
	scaled := raw / cal.Max * 0.5
	if cal.Invert {
		return -scaled
	}
	return scaled
}
