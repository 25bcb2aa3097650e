package dataprocessing

import (
	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
	"github.com/shantanuseth8203/Data-Visualization/pkg/contracts/domain"
)

// FitTrend fits value = slope*index + intercept by ordinary least squares,
// where index is the 0-based position of each day in the series. The closed
// form normal equations are used so results are exactly reproducible.
func FitTrend(series domain.DailySeries) (domain.TrendLine, error) {
	return fitLine(series.Values())
}

func fitLine(y []float64) (domain.TrendLine, error) {
	n := len(y)
	if n < 2 {
		return domain.TrendLine{}, apperrors.NewInsufficientDataError("trend line", n, 2)
	}

	xMean := float64(n-1) / 2
	var ySum domain.KahanSum
	for _, v := range y {
		ySum.Add(v)
	}
	yMean := ySum.Sum() / float64(n)

	var sxx, sxy domain.KahanSum
	for i, v := range y {
		dx := float64(i) - xMean
		sxx.Add(dx * dx)
		sxy.Add(dx * (v - yMean))
	}

	slope := sxy.Sum() / sxx.Sum()
	return domain.TrendLine{
		Slope:     slope,
		Intercept: yMean - slope*xMean,
	}, nil
}
