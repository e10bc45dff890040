package audio

// Input is anything a Node can be connected to: another node, whose inputs
// are summed, or a Param, which is modulated by the summed inputs.
type Input interface {
	addInput(Node)
	removeInput(Node)
}

// Node is one unit of a signal graph. Nodes render in blocks; a node
// connected to several destinations renders each block once.
type Node interface {
	Input
	render(frame uint64, n int) []float64
}

type node struct {
	ctx    *Context
	inputs []Node
	buf    []float64
	frame  uint64 // first frame of the cached block, plus one
}

func (n *node) addInput(src Node) { n.inputs = append(n.inputs, src) }

func (n *node) removeInput(src Node) { n.inputs = removeNode(n.inputs, src) }

// block returns the output buffer for the block starting at frame and
// whether it already holds that block.
func (n *node) block(frame uint64, size int) ([]float64, bool) {
	if n.frame == frame+1 && len(n.buf) == size {
		return n.buf, true
	}
	if cap(n.buf) < size {
		n.buf = make([]float64, size)
	}
	n.buf = n.buf[:size]
	n.frame = frame + 1
	return n.buf, false
}

// mix sums all inputs into out.
func (n *node) mix(frame uint64, out []float64) {
	for i := range out {
		out[i] = 0
	}
	for _, src := range n.inputs {
		for i, x := range src.render(frame, len(out)) {
			out[i] += x
		}
	}
}

func (n *node) time(frame uint64) float64 {
	return float64(frame) / n.ctx.sampleRate
}

func removeNode(nodes []Node, x Node) []Node {
	for i, n := range nodes {
		if n == x {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

// Gain scales the sum of its inputs by its Gain param.
type Gain struct {
	node
	Gain *Param
}

func (c *Context) NewGain() *Gain {
	return &Gain{node: node{ctx: c}, Gain: newParam(1)}
}

func (g *Gain) Connect(dst Input) { dst.addInput(g) }

func (g *Gain) render(frame uint64, n int) []float64 {
	out, ok := g.block(frame, n)
	if ok {
		return out
	}
	g.mix(frame, out)
	gain := g.Gain.render(frame, n, g.ctx.sampleRate)
	for i := range out {
		out[i] *= gain[i]
	}
	return out
}
