package s3

import "io"

// progressReader reports upload progress as whole percentages. Reported
// values never decrease and never repeat.
type progressReader struct {
	inner    io.Reader
	total    int64
	read     int64
	lastPct  int
	callback func(int)
}

func newProgressReader(inner io.Reader, total int64, callback func(int)) *progressReader {
	return &progressReader{inner: inner, total: total, lastPct: -1, callback: callback}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 {
		r.read += int64(n)
		pct := int(r.read * 100 / r.total)
		if pct > 100 {
			pct = 100
		}
		if pct > r.lastPct {
			r.lastPct = pct
			r.callback(pct)
		}
	}
	return n, err
}
