package graphics

import (
	"math"

	"nescore/internal/ppu"
)

// VideoProcessor adjusts brightness, contrast and saturation of finished
// frames before they are presented. A value of 1 leaves a channel alone.
type VideoProcessor struct {
	brightness float64
	contrast   float64
	saturation float64

	out ppu.Frame
}

// NewVideoProcessor creates a new video processor
func NewVideoProcessor(brightness, contrast, saturation float64) *VideoProcessor {
	return &VideoProcessor{
		brightness: brightness,
		contrast:   contrast,
		saturation: saturation,
	}
}

// Identity reports whether ProcessFrame would return its input unchanged.
func (vp *VideoProcessor) Identity() bool {
	return vp.brightness == 1 && vp.contrast == 1 && vp.saturation == 1
}

// ProcessFrame returns frame with the adjustments applied. The result is
// owned by the processor and overwritten by the next call.
func (vp *VideoProcessor) ProcessFrame(frame *ppu.Frame) *ppu.Frame {
	if vp.Identity() {
		return frame
	}

	for i, pixel := range frame {
		r := float64(pixel>>16&0xFF) / 255
		g := float64(pixel>>8&0xFF) / 255
		b := float64(pixel&0xFF) / 255

		r, g, b = r*vp.brightness, g*vp.brightness, b*vp.brightness

		r = (r-0.5)*vp.contrast + 0.5
		g = (g-0.5)*vp.contrast + 0.5
		b = (b-0.5)*vp.contrast + 0.5

		if vp.saturation != 1 {
			h, s, l := rgbToHSL(clamp(r), clamp(g), clamp(b))
			r, g, b = hslToRGB(h, math.Min(s*vp.saturation, 1), l)
		}

		vp.out[i] = channel(r)<<16 | channel(g)<<8 | channel(b)
	}
	return &vp.out
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func channel(v float64) uint32 {
	return uint32(math.Round(clamp(v) * 255))
}

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

// SetBrightness updates the brightness value
func (vp *VideoProcessor) SetBrightness(brightness float64) {
	vp.brightness = brightness
}

// SetContrast updates the contrast value
func (vp *VideoProcessor) SetContrast(contrast float64) {
	vp.contrast = contrast
}

// SetSaturation updates the saturation value
func (vp *VideoProcessor) SetSaturation(saturation float64) {
	vp.saturation = saturation
}
