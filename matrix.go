package meanshift

import "gonum.org/v1/gonum/mat"

// ClusterMatrix is Cluster for a gonum matrix whose rows are the points.
func ClusterMatrix(x mat.Matrix, cfg Config) (*Result, error) {
	return Cluster(matrixRows(x), cfg)
}

// FitMatrix is Fit for a gonum matrix whose rows are the points.
func (m *MeanShift) FitMatrix(x mat.Matrix) error {
	return m.Fit(matrixRows(x))
}

// PredictMatrix is Predict for a gonum matrix whose rows are the points.
func (m *MeanShift) PredictMatrix(x mat.Matrix) ([]int, error) {
	return m.Predict(matrixRows(x))
}

// CentersMatrix returns the fitted cluster centers as a k×d matrix.
func (m *MeanShift) CentersMatrix() (*mat.Dense, bool) {
	centers, ok := m.ClusterCenters()
	if !ok {
		return nil, false
	}
	dims := len(centers[0])
	out := mat.NewDense(len(centers), dims, nil)
	for i, c := range centers {
		out.SetRow(i, c)
	}
	return out, true
}

func matrixRows(x mat.Matrix) [][]float64 {
	r, _ := x.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}
	return rows
}
