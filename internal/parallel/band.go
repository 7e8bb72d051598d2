package parallel

// Band is a half-open range of grid rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Bands splits height rows into at most parts contiguous bands of nearly
// equal size. Earlier bands receive the extra rows. It returns nil when
// height or parts is not positive.
func Bands(height, parts int) []Band {
	if height <= 0 || parts <= 0 {
		return nil
	}
	parts = min(parts, height)
	bands := make([]Band, parts)
	base, extra := height/parts, height%parts
	y := 0
	for i := range bands {
		n := base
		if i < extra {
			n++
		}
		bands[i] = Band{Y0: y, Y1: y + n}
		y += n
	}
	return bands
}

// ForEachBand runs fn once per band of height rows on the pool and waits
// for all bands to finish.
func (p *WorkerPool) ForEachBand(height int, fn func(b Band)) {
	bands := Bands(height, p.workers*2)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
