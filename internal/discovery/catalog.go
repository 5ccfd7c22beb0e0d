package discovery

type endpointKey struct {
	method string
	path   string
}

// Catalog is the deduplicated result of one discovery run. Insertion order is
// discovery order; the engine returns a fresh Catalog per run and never
// patches an old one.
type Catalog struct {
	endpoints []Endpoint
	index     map[endpointKey]int
	// methodless tracks entries whose verb is unknown so a later detection
	// with a verb can upgrade them in place.
	methodless map[string]int
}

func NewCatalog() *Catalog {
	return &Catalog{
		index:      make(map[endpointKey]int),
		methodless: make(map[string]int),
	}
}

func (c *Catalog) Endpoints() []Endpoint {
	return c.endpoints
}

func (c *Catalog) Len() int {
	return len(c.endpoints)
}

// Add merges an endpoint into the catalog. Two detections with the same
// (method, path) collapse into one entry that prefers Exact confidence and
// keeps the first-seen source location in front. A detection that supplies a
// verb upgrades an earlier verb-less entry for the same path rather than
// duplicating it.
func (c *Catalog) Add(ep Endpoint) {
	key := endpointKey{method: ep.Method, path: ep.Path}

	if i, ok := c.index[key]; ok {
		c.merge(i, ep)
		return
	}

	if ep.Method != "" {
		if i, ok := c.methodless[ep.Path]; ok {
			cur := &c.endpoints[i]
			cur.Method = ep.Method
			cur.Locations = append(cur.Locations, ep.Locations...)
			if ep.Confidence > cur.Confidence {
				cur.Confidence = ep.Confidence
				cur.Framework = ep.Framework
			}
			delete(c.methodless, ep.Path)
			c.index[endpointKey{method: cur.Method, path: cur.Path}] = i
			return
		}
	} else if i, ok := c.firstWithPath(ep.Path); ok {
		// A verb-less detection of an already known path adds nothing new.
		c.endpoints[i].Locations = append(c.endpoints[i].Locations, ep.Locations...)
		return
	}

	c.endpoints = append(c.endpoints, ep)
	i := len(c.endpoints) - 1
	c.index[key] = i
	if ep.Method == "" {
		c.methodless[ep.Path] = i
	}
}

func (c *Catalog) merge(i int, ep Endpoint) {
	cur := &c.endpoints[i]
	cur.Locations = append(cur.Locations, ep.Locations...)
	if ep.Confidence > cur.Confidence {
		cur.Confidence = ep.Confidence
		cur.Framework = ep.Framework
	}
}

func (c *Catalog) firstWithPath(path string) (int, bool) {
	for i, ep := range c.endpoints {
		if ep.Path == path {
			return i, true
		}
	}
	return 0, false
}
