package ctm

import "github.com/openctm/ctm/internal/typedarray"

func (c *Context) uvViews() []typedarray.View {
	views := make([]typedarray.View, len(c.uvMaps))
	for i, m := range c.uvMaps {
		views[i] = m.view
	}

	return views
}

func (c *Context) attribViews() []typedarray.View {
	views := make([]typedarray.View, len(c.attribMaps))
	for i, m := range c.attribMaps {
		views[i] = m.view
	}

	return views
}

func (c *Context) uvPrecisions() []float64 {
	p := make([]float64, len(c.uvMaps))
	for i, m := range c.uvMaps {
		p[i] = m.precision
	}

	return p
}

func (c *Context) attribPrecisions() []float64 {
	p := make([]float64, len(c.attribMaps))
	for i, m := range c.attribMaps {
		p[i] = m.precision
	}

	return p
}
