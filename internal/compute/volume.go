package compute

// VolumeWindow is the moving-average length used for on-chain volume.
const VolumeWindow = 7

// MovingAveragePair holds the two most recent simple moving averages.
type MovingAveragePair struct {
	Latest   Value[float64] `json:"latest"`
	Previous Value[float64] `json:"previous"`
}

// MovingAverage returns the trailing simple moving average ending at the
// last point of series and the one ending a point earlier. A pair is only
// reported when both averages exist, so a series needs window+1 points.
// The series is used in the order given; gaps are not interpolated.
func MovingAverage(series VolumeSeries, window int) MovingAveragePair {
	n := len(series)
	if window <= 0 || n < window+1 {
		return MovingAveragePair{}
	}
	return MovingAveragePair{
		Latest:   Finite(mean(series[n-window:])),
		Previous: Finite(mean(series[n-window-1 : n-1])),
	}
}

// VolumeMovingAverage applies MovingAverage with the 7-day window to an
// optional series.
func VolumeMovingAverage(series Value[VolumeSeries]) MovingAveragePair {
	s, ok := series.Get()
	if !ok {
		return MovingAveragePair{}
	}
	return MovingAverage(s, VolumeWindow)
}

func mean(points []Point) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}
