package track

import (
	"github.com/npillmayer/railspline/spline"
)

// VersionedPoints are control points which report a version number,
// changing with every edit. *ctrlpt.Store and ctrlpt.Snapshot qualify.
type VersionedPoints interface {
	spline.Points
	Version() uint64
}

// Cache holds the geometry of one track and rebuilds it when the control
// points or the configuration change. A cache serves a single control
// point store. It is not synchronized.
type Cache struct {
	cfg     Config
	geom    *Geometry
	version uint64
	n       int
	builds  int
}

// NewCache creates an empty cache for configuration cfg.
func NewCache(cfg Config) *Cache {
	return &Cache{cfg: cfg}
}

// Config returns the current configuration.
func (c *Cache) Config() Config {
	return c.cfg
}

// SetConfig changes the configuration, invalidating the cache if it differs.
func (c *Cache) SetConfig(cfg Config) {
	if cfg != c.cfg {
		c.cfg = cfg
		c.Invalidate()
	}
}

// Invalidate drops the cached geometry.
func (c *Cache) Invalidate() {
	c.geom = nil
}

// Builds returns how often the cache has built geometry.
func (c *Cache) Builds() int {
	return c.builds
}

// Get returns the geometry for pts, rebuilding it if pts changed since the
// last call.
func (c *Cache) Get(pts VersionedPoints) (*Geometry, error) {
	if c.geom != nil && c.version == pts.Version() && c.n == pts.N() {
		return c.geom, nil
	}
	g, err := Build(pts, c.cfg)
	if err != nil {
		return nil, err
	}
	c.geom, c.version, c.n = g, pts.Version(), pts.N()
	c.builds++
	tracer().Debugf("track cache rebuilt (version %d, build #%d)", c.version, c.builds)
	return g, nil
}
