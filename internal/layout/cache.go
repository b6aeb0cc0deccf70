package layout

import "kira/internal/ir"

type cache struct {
	byFunc map[*ir.Func]*Frame
}

func newCache() *cache {
	return &cache{byFunc: make(map[*ir.Func]*Frame, 16)}
}

func (c *cache) get(f *ir.Func) (*Frame, bool) {
	if c == nil {
		return nil, false
	}
	fr, ok := c.byFunc[f]
	return fr, ok
}

func (c *cache) put(f *ir.Func, fr *Frame) {
	if c == nil {
		return
	}
	if fr == nil {
		delete(c.byFunc, f)
		return
	}
	c.byFunc[f] = fr
}
