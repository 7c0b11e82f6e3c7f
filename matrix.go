package canopy

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a dense rows x cols grid of float64 values stored row-major.
// Square matrices support Inverse and Determinant through an LU
// decomposition with partial pivoting. 2D transforms are 3x3 homogeneous
// matrices built with Translate2D, Rotate2D, and Scale2D; a point is the 3x1
// column (X, Y, 1).
//
// Operations never modify their receiver; each returns a new Matrix.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Errorf("%w: negative size %dx%d", ErrDimensionMismatch, rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewMatrixFrom returns a rows x cols matrix filled row by row from values.
// Panics if len(values) != rows*cols.
func NewMatrixFrom(rows, cols int, values ...float64) *Matrix {
	if len(values) != rows*cols {
		panic(fmt.Errorf("%w: %d values for %dx%d", ErrDimensionMismatch, len(values), rows, cols))
	}
	m := NewMatrix(rows, cols)
	copy(m.data, values)
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// PointMatrix returns the homogeneous 3x1 column (X, Y, 1) for v.
func PointMatrix(v Vec2) *Matrix {
	return NewMatrixFrom(3, 1, v.X, v.Y, 1)
}

// Vec2 reads the first two rows of a column matrix as a point.
func (m *Matrix) Vec2() Vec2 {
	if m.cols != 1 || m.rows < 2 {
		panic(fmt.Errorf("%w: %dx%d is not a point column", ErrDimensionMismatch, m.rows, m.cols))
	}
	return Vec2{m.data[0], m.data[1]}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the element at row r, column c.
func (m *Matrix) At(r, c int) float64 { return m.data[r*m.cols+c] }

// Set writes the element at row r, column c.
func (m *Matrix) Set(r, c int, v float64) { m.data[r*m.cols+c] = v }

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	copy(out.data, m.data)
	return out
}

func (m *Matrix) sameSize(o *Matrix) bool {
	return m.rows == o.rows && m.cols == o.cols
}

// Add returns m + o. Panics if the sizes differ.
func (m *Matrix) Add(o *Matrix) *Matrix {
	if !m.sameSize(o) {
		panic(fmt.Errorf("%w: add %dx%d and %dx%d", ErrDimensionMismatch, m.rows, m.cols, o.rows, o.cols))
	}
	out := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] + o.data[i]
	}
	return out
}

// Sub returns m - o. Panics if the sizes differ.
func (m *Matrix) Sub(o *Matrix) *Matrix {
	if !m.sameSize(o) {
		panic(fmt.Errorf("%w: subtract %dx%d and %dx%d", ErrDimensionMismatch, m.rows, m.cols, o.rows, o.cols))
	}
	out := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] - o.data[i]
	}
	return out
}

// Mul returns the matrix product m * o. Panics unless m.Cols() == o.Rows().
func (m *Matrix) Mul(o *Matrix) *Matrix {
	if m.cols != o.rows {
		panic(fmt.Errorf("%w: multiply %dx%d by %dx%d", ErrDimensionMismatch, m.rows, m.cols, o.rows, o.cols))
	}
	out := NewMatrix(m.rows, o.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.data[i*m.cols+k]
			if a == 0 {
				continue
			}
			for j := 0; j < o.cols; j++ {
				out.data[i*o.cols+j] += a * o.data[k*o.cols+j]
			}
		}
	}
	return out
}

// MulScalar returns m scaled by s.
func (m *Matrix) MulScalar(s float64) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = v * s
	}
	return out
}

// DivScalar returns m divided by s.
func (m *Matrix) DivScalar(s float64) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = v / s
	}
	return out
}

// Transpose returns the cols x rows transpose.
func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.data[c*m.rows+r] = m.data[r*m.cols+c]
		}
	}
	return out
}

// Equal reports whether m and o have the same size and every element of o
// lies within DefaultTolerance of the element of m. Exact zeros compare
// against a small absolute epsilon so that values like 1e-17 produced by
// trigonometry still match 0.
func (m *Matrix) Equal(o *Matrix) bool {
	return m.EqualWithin(o, DefaultTolerance)
}

// EqualWithin is Equal with an explicit relative tolerance.
func (m *Matrix) EqualWithin(o *Matrix, tol float64) bool {
	if o == nil || !m.sameSize(o) {
		return false
	}
	for i, a := range m.data {
		b := o.data[i]
		if EqualWithin(a, b, tol) {
			continue
		}
		if math.Abs(a-b) <= zeroEpsilon {
			continue
		}
		return false
	}
	return true
}

// zeroEpsilon is the absolute slack used by Equal near zero, where a purely
// relative comparison can never succeed.
const zeroEpsilon = 1e-12

// String formats the matrix with two decimals per element, one row per line.
func (m *Matrix) String() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%.2f", m.data[r*m.cols+c])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// --- LU decomposition ---

// luDecomposition holds a packed LU factorization: the strict lower
// triangle is L (unit diagonal implied), the upper triangle is U.
type luDecomposition struct {
	lu   *Matrix
	perm []int
	sign float64
}

// decompose factors a square matrix using Crout's method with implicit
// partial pivoting (rows are scaled by their largest element when choosing
// the pivot). Returns ErrSingular if a row is entirely zero or a pivot is
// zero.
func (m *Matrix) decompose() (*luDecomposition, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, m.rows, m.cols)
	}
	n := m.rows
	lu := m.Clone()
	a := lu.data
	perm := make([]int, n)
	scale := make([]float64, n)
	sign := 1.0

	for i := 0; i < n; i++ {
		big := 0.0
		for j := 0; j < n; j++ {
			big = math.Max(big, math.Abs(a[i*n+j]))
		}
		if big == 0 {
			return nil, fmt.Errorf("%w: row %d is zero", ErrSingular, i)
		}
		scale[i] = 1 / big
	}

	for j := 0; j < n; j++ {
		for i := 0; i < j; i++ {
			sum := a[i*n+j]
			for k := 0; k < i; k++ {
				sum -= a[i*n+k] * a[k*n+j]
			}
			a[i*n+j] = sum
		}
		big := 0.0
		imax := j
		for i := j; i < n; i++ {
			sum := a[i*n+j]
			for k := 0; k < j; k++ {
				sum -= a[i*n+k] * a[k*n+j]
			}
			a[i*n+j] = sum
			if t := scale[i] * math.Abs(sum); t > big {
				big = t
				imax = i
			}
		}
		if imax != j {
			for k := 0; k < n; k++ {
				a[imax*n+k], a[j*n+k] = a[j*n+k], a[imax*n+k]
			}
			sign = -sign
			scale[imax] = scale[j]
		}
		perm[j] = imax
		if a[j*n+j] == 0 {
			return nil, fmt.Errorf("%w: zero pivot in column %d", ErrSingular, j)
		}
		if j != n-1 {
			inv := 1 / a[j*n+j]
			for i := j + 1; i < n; i++ {
				a[i*n+j] *= inv
			}
		}
	}
	return &luDecomposition{lu: lu, perm: perm, sign: sign}, nil
}

// solve overwrites b with the solution of A x = b.
func (d *luDecomposition) solve(b []float64) {
	n := d.lu.rows
	a := d.lu.data
	// Forward substitution with the row interchanges replayed.
	for i := 0; i < n; i++ {
		ip := d.perm[i]
		sum := b[ip]
		b[ip] = b[i]
		for j := 0; j < i; j++ {
			sum -= a[i*n+j] * b[j]
		}
		b[i] = sum
	}
	for i := n - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i*n+j] * b[j]
		}
		b[i] = sum / a[i*n+i]
	}
}

// Inverse returns the inverse of a square matrix. It returns ErrNotSquare for
// a rectangular matrix and ErrSingular when no inverse exists.
func (m *Matrix) Inverse() (*Matrix, error) {
	d, err := m.decompose()
	if err != nil {
		return nil, err
	}
	n := m.rows
	out := NewMatrix(n, n)
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		clear(col)
		col[j] = 1
		d.solve(col)
		for i := 0; i < n; i++ {
			out.data[i*n+j] = col[i]
		}
	}
	return out, nil
}

// Determinant returns the determinant of a square matrix. A singular matrix
// has determinant 0; only a rectangular matrix is an error.
func (m *Matrix) Determinant() (float64, error) {
	d, err := m.decompose()
	if err != nil {
		if m.rows == m.cols {
			return 0, nil
		}
		return 0, err
	}
	det := d.sign
	n := m.rows
	for i := 0; i < n; i++ {
		det *= d.lu.data[i*n+i]
	}
	return det, nil
}

// --- 2D homogeneous builders ---

// Translate2D returns the 3x3 translation by (tx, ty).
func Translate2D(tx, ty float64) *Matrix {
	return NewMatrixFrom(3, 3,
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	)
}

// Rotate2D returns the 3x3 rotation by angle radians. With Y pointing down
// a positive angle turns clockwise on screen.
func Rotate2D(angle float64) *Matrix {
	sin, cos := math.Sincos(angle)
	return NewMatrixFrom(3, 3,
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	)
}

// Scale2D returns the 3x3 scale by (sx, sy).
func Scale2D(sx, sy float64) *Matrix {
	return NewMatrixFrom(3, 3,
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	)
}

// TransformPoint applies a 3x3 homogeneous transform to p. Equivalent to
// m.Mul(PointMatrix(p)).Vec2() without the allocations.
func (m *Matrix) TransformPoint(p Vec2) Vec2 {
	if m.cols != 3 || m.rows < 2 {
		panic(fmt.Errorf("%w: %dx%d cannot transform a 2D point", ErrDimensionMismatch, m.rows, m.cols))
	}
	d := m.data
	return Vec2{
		X: d[0]*p.X + d[1]*p.Y + d[2],
		Y: d[3]*p.X + d[4]*p.Y + d[5],
	}
}

// TransformPoints applies m to every point, returning a new slice. Returns
// nil for an empty input.
func (m *Matrix) TransformPoints(pts []Vec2) []Vec2 {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[i] = m.TransformPoint(p)
	}
	return out
}

// transformPointsInto is TransformPoints reusing dst's backing array.
func (m *Matrix) transformPointsInto(dst, pts []Vec2) []Vec2 {
	if cap(dst) < len(pts) {
		dst = make([]Vec2, len(pts))
	}
	dst = dst[:len(pts)]
	for i, p := range pts {
		dst[i] = m.TransformPoint(p)
	}
	return dst
}

// Affine returns the first two rows as [a, b, c, d, tx, ty] in the
// column-major layout used by 2D renderers:
//
//	| a  c  tx |
//	| b  d  ty |
func (m *Matrix) Affine() [6]float64 {
	if m.cols != 3 || m.rows < 2 {
		panic(fmt.Errorf("%w: %dx%d is not an affine transform", ErrDimensionMismatch, m.rows, m.cols))
	}
	d := m.data
	return [6]float64{d[0], d[3], d[1], d[4], d[2], d[5]}
}
