package primitives

import "sort"

// Quantile is a PÂ² (Jain-Chlamtac) online quantile estimator: five markers
// track a single target quantile with O(1) memory per update. For the
// first four samples it buffers exactly, falling back to an exact
// computation over the buffer until five samples have been seen.
type Quantile struct {
	p float64 // target quantile in (0,1)

	initBuf []float64 // buffered samples while n<5

	q  [5]float64 // marker heights
	n  [5]int     // marker positions (integers)
	np [5]float64 // desired marker positions (floats)
	dn [5]float64 // desired position increments

	count int64
}

// NewQuantile returns an estimator targeting quantile p in (0,1).
func NewQuantile(p float64) *Quantile {
	return &Quantile{p: p}
}

// Update folds one observation into the estimator.
func (q *Quantile) Update(x float64) {
	q.count++
	if q.count <= 5 {
		q.initBuf = append(q.initBuf, x)
		if q.count == 5 {
			q.initFromBuffer()
		}
		return
	}
	q.step(x)
}

func (q *Quantile) initFromBuffer() {
	buf := append([]float64(nil), q.initBuf...)
	sort.Float64s(buf)
	for i := 0; i < 5; i++ {
		q.q[i] = buf[i]
		q.n[i] = i + 1
	}
	q.np[0] = 1
	q.np[1] = 1 + 2*q.p
	q.np[2] = 1 + 4*q.p
	q.np[3] = 3 + 2*q.p
	q.np[4] = 5

	q.dn[0] = 0
	q.dn[1] = q.p / 2
	q.dn[2] = q.p
	q.dn[3] = (1 + q.p) / 2
	q.dn[4] = 1
}

func (q *Quantile) step(x float64) {
	// 1. Find cell k and update extremes.
	var k int
	switch {
	case x < q.q[0]:
		q.q[0] = x
		k = 0
	case x >= q.q[4]:
		q.q[4] = x
		k = 3
	default:
		k = 3
		for i := 1; i < 4; i++ {
			if x < q.q[i] {
				k = i - 1
				break
			}
		}
	}

	// 2. Increment positions of markers k+1..4.
	for i := k + 1; i < 5; i++ {
		q.n[i]++
	}
	for i := 0; i < 5; i++ {
		q.np[i] += q.dn[i]
	}

	// 3. Adjust markers 2,3,4 (indices 1,2,3).
	for i := 1; i < 4; i++ {
		d := q.np[i] - float64(q.n[i])
		if (d >= 1 && q.n[i+1]-q.n[i] > 1) || (d <= -1 && q.n[i-1]-q.n[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}
			qp := q.parabolic(i, sign)
			if q.q[i-1] < qp && qp < q.q[i+1] {
				q.q[i] = qp
			} else {
				q.q[i] = q.linear(i, sign)
			}
			q.n[i] += sign
		}
	}
}

func (q *Quantile) parabolic(i, d int) float64 {
	fd := float64(d)
	return q.q[i] + fd/float64(q.n[i+1]-q.n[i-1])*
		((float64(q.n[i]-q.n[i-1])+fd)*(q.q[i+1]-q.q[i])/float64(q.n[i+1]-q.n[i])+
			(float64(q.n[i+1]-q.n[i])-fd)*(q.q[i]-q.q[i-1])/float64(q.n[i]-q.n[i-1]))
}

func (q *Quantile) linear(i, d int) float64 {
	return q.q[i] + float64(d)*(q.q[i+d]-q.q[i])/float64(q.n[i+d]-q.n[i])
}

// Value returns the current quantile estimate. With fewer than 5 samples
// it is computed exactly over the buffered values.
func (q *Quantile) Value() float64 {
	if q.count == 0 {
		return 0
	}
	if q.count < 5 {
		buf := append([]float64(nil), q.initBuf...)
		sort.Float64s(buf)
		idx := int(q.p * float64(len(buf)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(buf) {
			idx = len(buf) - 1
		}
		return buf[idx]
	}
	return q.q[2]
}

// Count returns the number of observations folded into the estimator.
func (q *Quantile) Count() int64 { return q.count }
