package metrics

// Counter is a subset of a prometheus Counter
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram is a subset of a prometheus Histogram
type Histogram interface {
	Observe(float64)
}
