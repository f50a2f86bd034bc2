package player

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gitlab.com/edge-engine/roqplay/internal/helper"
	"gitlab.com/edge-engine/roqplay/internal/log"
	"gitlab.com/edge-engine/roqplay/internal/prometheus/metrics"
	"gitlab.com/edge-engine/roqplay/internal/wad"
	"gitlab.com/edge-engine/roqplay/lumpio"
)

// MinLumpSize is the smallest lump a player will attempt to stream. Nothing
// shorter can hold a container header.
const MinLumpSize = 4

// ErrShortLump is returned for lumps shorter than MinLumpSize.
var ErrShortLump = errors.New("lump too short to stream")

var (
	lumpsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roqplay_lumps_opened_total",
			Help: "Counter of lump open attempts by result",
		},
		[]string{"result"},
	)
	lumpSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roqplay_lump_size_bytes",
			Help:    "Size of lumps opened for streaming",
			Buckets: prometheus.ExponentialBuckets(256, 4, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(lumpsOpened, lumpSize)
}

// Opener turns named lumps into cursors ready to be handed to a decoder.
type Opener struct {
	loader wad.Loader
	logger logrus.FieldLogger

	opened, rejected, failed metrics.Counter
	sizes                    metrics.Histogram
}

// OpenerOption configures an Opener.
type OpenerOption func(*Opener)

// WithLogger replaces the default logger.
func WithLogger(logger logrus.FieldLogger) OpenerOption {
	return func(o *Opener) { o.logger = logger }
}

// WithMetrics replaces the prometheus collectors.
func WithMetrics(opened, rejected, failed metrics.Counter, sizes metrics.Histogram) OpenerOption {
	return func(o *Opener) {
		o.opened, o.rejected, o.failed = opened, rejected, failed
		o.sizes = sizes
	}
}

// NewOpener returns an Opener reading lumps through loader.
func NewOpener(loader wad.Loader, opts ...OpenerOption) *Opener {
	o := &Opener{
		loader:   loader,
		logger:   log.Default(),
		opened:   lumpsOpened.WithLabelValues("ok"),
		rejected: lumpsOpened.WithLabelValues("short"),
		failed:   lumpsOpened.WithLabelValues("error"),
		sizes:    lumpSize,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// OpenLump loads the named lump and returns a cursor at its start.
func OpenLump(loader wad.Loader, name string) (*lumpio.Cursor, error) {
	return NewOpener(loader).OpenLump(name)
}

// OpenLump loads the named lump and returns a cursor at its start. The
// cursor shares the loaded data; it is never copied.
func (o *Opener) OpenLump(name string) (*lumpio.Cursor, error) {
	logger := o.logger.WithField("lump", name)

	data, err := o.loader.Load(name)
	if err != nil {
		o.failed.Inc()
		logger.WithError(err).Warn("lump not found")
		return nil, fmt.Errorf("open lump %q: %w", name, err)
	}

	if len(data) < MinLumpSize {
		o.rejected.Inc()
		logger.WithField("size", len(data)).Debug("ignored short data")
		return nil, helper.ErrInvalidArgument(fmt.Errorf("%w: %q has %d bytes", ErrShortLump, name, len(data)))
	}

	o.opened.Inc()
	o.sizes.Observe(float64(len(data)))
	logger.WithField("size", len(data)).Debug("opened lump")

	return lumpio.NewCursor(data), nil
}
