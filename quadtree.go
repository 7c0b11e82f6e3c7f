package canopy

// maxItemsPerNode is the local item count at which a node subdivides.
const maxItemsPerNode = 10

// Quadrant indices into quadNode.children.
const (
	quadUL = iota
	quadUR
	quadLL
	quadLR
)

// Item is the capability a value needs to be stored in a QuadTree: a
// world-space bounding box, a subscription to changes of that box, a hook
// that applies pending changes (firing the subscription), and a
// notification the tree sends after relocating the item to another node.
// Items are compared by ==, so pointer types are the natural fit.
type Item interface {
	comparable
	BoundingBox() Rect
	OnBoundsChanged(fn func()) CallbackHandle
	Update()
	NodeChanged()
}

// QuadTree is a dynamically subdividing spatial index over items' bounding
// boxes. Every stored item lives in exactly one node: the deepest node
// reached on insertion whose rectangle fully contains the item's box.
//
// The tree follows its items. When an item reports a bounds change, the
// node holding it either keeps it or re-inserts it through its parent (and
// then the root), prunes empty branches, and calls the item's NodeChanged.
//
// The root never grows. Items whose box leaves the root rectangle are
// dropped; Add reports this and OnEvict observes drops caused by movement.
//
// Reads (Query, Count, Rects) first call Update on every stored item so
// they see current boxes. Bounds changes reported while the tree is being
// walked are queued and applied once the walk ends.
type QuadTree[T Item] struct {
	root    *quadNode[T]
	onEvict func(T)

	busy    int
	pending []pendingMove[T]
	scratch []T
}

// pendingMove is a bounds change reported while the tree was busy.
type pendingMove[T Item] struct {
	node *quadNode[T]
	item T
}

type quadEntry[T Item] struct {
	item   T
	handle CallbackHandle
}

type quadNode[T Item] struct {
	tree     *QuadTree[T]
	parent   *quadNode[T]
	rect     Rect
	items    []quadEntry[T]
	children [4]*quadNode[T] // all nil or all set
}

// NewQuadTree creates an empty tree whose root covers bounds.
func NewQuadTree[T Item](bounds Rect) *QuadTree[T] {
	t := &QuadTree[T]{}
	t.root = &quadNode[T]{tree: t, rect: bounds}
	return t
}

// Bounds returns the root rectangle.
func (t *QuadTree[T]) Bounds() Rect {
	return t.root.rect
}

// Count returns the number of stored items.
func (t *QuadTree[T]) Count() int {
	t.sync()
	return t.root.count()
}

// Add inserts item. It returns false, leaving the item untracked, when the
// item's bounding box is not fully inside the root rectangle. Adding the
// same item twice stores it twice.
func (t *QuadTree[T]) Add(item T) bool {
	item.Update()
	t.busy++
	ok := t.root.insert(item)
	t.busy--
	t.drain()
	return ok
}

// Remove deletes item and reports whether it was found. The tree is
// rebalanced and pruned afterwards.
func (t *QuadTree[T]) Remove(item T) bool {
	t.busy++
	ok := t.root.remove(item)
	t.root.balance()
	t.root.cleanup()
	t.busy--
	t.drain()
	return ok
}

// Clear removes every item and all child nodes.
func (t *QuadTree[T]) Clear() {
	t.root.clear()
	clear(t.pending)
	t.pending = t.pending[:0]
}

// Query returns every item whose bounding box intersects r. Items in nodes
// fully covered by r are returned without a per-item test.
func (t *QuadTree[T]) Query(r Rect) []T {
	return t.QueryInto(r, nil)
}

// QueryInto is Query appending into dst.
func (t *QuadTree[T]) QueryInto(r Rect, dst []T) []T {
	t.sync()
	return t.queryCurrent(r, dst)
}

// queryCurrent is QueryInto for callers that already brought every item up
// to date.
func (t *QuadTree[T]) queryCurrent(r Rect, dst []T) []T {
	t.busy++
	dst = t.root.query(r, dst)
	t.busy--
	t.drain()
	return dst
}

// Rects returns the rectangle of every node, parents before children.
// Intended for debug overlays.
func (t *QuadTree[T]) Rects() []Rect {
	t.sync()
	return t.root.rects(nil)
}

// nodeCount returns the number of nodes without syncing items.
func (t *QuadTree[T]) nodeCount() int {
	return t.root.nodeCount()
}

// sync applies pending changes of every stored item. Relocations they
// trigger run after all items are updated.
func (t *QuadTree[T]) sync() {
	var items []T
	if t.busy == 0 {
		t.scratch = t.root.collect(t.scratch[:0])
		items = t.scratch
	} else {
		// Called from an item's callback; the scratch buffer is in use.
		items = t.root.collect(nil)
	}
	t.busy++
	for _, item := range items {
		item.Update()
	}
	t.busy--
	clear(items)
	t.drain()
}

// drain relocates items whose bounds changed while the tree was busy.
func (t *QuadTree[T]) drain() {
	if t.busy > 0 {
		return
	}
	for len(t.pending) > 0 {
		last := len(t.pending) - 1
		p := t.pending[last]
		t.pending[last] = pendingMove[T]{}
		t.pending = t.pending[:last]
		n := p.node
		if !n.holds(p.item) {
			// Moved by a split or rebalance since it was queued.
			if n = t.root.find(p.item); n == nil {
				continue
			}
		}
		n.boundsChanged(p.item)
	}
}

// OnEvict sets a callback fired when a moving item falls outside the root
// rectangle and is dropped from the tree. Pass nil to clear.
func (t *QuadTree[T]) OnEvict(fn func(T)) {
	t.onEvict = fn
}

// --- node internals ---

func (n *quadNode[T]) hasChildren() bool {
	return n.children[0] != nil
}

func (n *quadNode[T]) root() *quadNode[T] {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (n *quadNode[T]) count() int {
	c := len(n.items)
	if n.hasChildren() {
		for _, child := range n.children {
			c += child.count()
		}
	}
	return c
}

func (n *quadNode[T]) nodeCount() int {
	c := 1
	if n.hasChildren() {
		for _, child := range n.children {
			c += child.nodeCount()
		}
	}
	return c
}

func (n *quadNode[T]) collect(out []T) []T {
	for i := range n.items {
		out = append(out, n.items[i].item)
	}
	if n.hasChildren() {
		for _, child := range n.children {
			out = child.collect(out)
		}
	}
	return out
}

func (n *quadNode[T]) holds(item T) bool {
	for i := range n.items {
		if n.items[i].item == item {
			return true
		}
	}
	return false
}

// find returns the node holding item, or nil.
func (n *quadNode[T]) find(item T) *quadNode[T] {
	if n.holds(item) {
		return n
	}
	if n.hasChildren() {
		for _, child := range n.children {
			if f := child.find(item); f != nil {
				return f
			}
		}
	}
	return nil
}

func (n *quadNode[T]) fits(item T) bool {
	return n.rect.ContainsRect(item.BoundingBox())
}

// add appends item locally and subscribes to its bounds changes.
func (n *quadNode[T]) add(item T) {
	if n.items == nil {
		n.items = make([]quadEntry[T], 0, maxItemsPerNode)
	}
	h := item.OnBoundsChanged(func() { n.boundsChanged(item) })
	n.items = append(n.items, quadEntry[T]{item: item, handle: h})
}

func (n *quadNode[T]) insert(item T) bool {
	if !n.fits(item) {
		return false
	}
	n.add(item)
	if n.rect.Area() > 1 && len(n.items) >= maxItemsPerNode {
		n.subdivide()
		n.moveDown()
	}
	return true
}

func (n *quadNode[T]) subdivide() {
	if n.hasChildren() {
		return
	}
	hw, hh := n.rect.Width/2, n.rect.Height/2
	x, y := n.rect.X, n.rect.Y
	n.children[quadUL] = &quadNode[T]{tree: n.tree, parent: n, rect: Rect{x, y, hw, hh}}
	n.children[quadUR] = &quadNode[T]{tree: n.tree, parent: n, rect: Rect{x + hw, y, hw, hh}}
	n.children[quadLL] = &quadNode[T]{tree: n.tree, parent: n, rect: Rect{x, y + hh, hw, hh}}
	n.children[quadLR] = &quadNode[T]{tree: n.tree, parent: n, rect: Rect{x + hw, y + hh, hw, hh}}
}

// moveDown pushes local items into the first child that fully contains
// them, walking from the end of the list, until the local count drops below
// the threshold. Items straddling a quadrant boundary stay.
func (n *quadNode[T]) moveDown() {
	if !n.hasChildren() {
		return
	}
	for i := len(n.items) - 1; i >= 0; i-- {
		item := n.items[i].item
		for _, child := range n.children {
			if child.fits(item) {
				child.insert(item)
				n.removeAt(i)
				break
			}
		}
		if len(n.items) < maxItemsPerNode {
			break
		}
	}
}

// removeAt drops the entry at i by swapping in the last entry.
func (n *quadNode[T]) removeAt(i int) {
	n.items[i].handle.Remove()
	last := len(n.items) - 1
	n.items[i] = n.items[last]
	n.items[last] = quadEntry[T]{}
	n.items = n.items[:last]
	if last == 0 {
		n.items = nil
	}
}

func (n *quadNode[T]) removeLocal(item T) bool {
	for i := range n.items {
		if n.items[i].item == item {
			n.removeAt(i)
			return true
		}
	}
	return false
}

func (n *quadNode[T]) remove(item T) bool {
	if n.removeLocal(item) {
		return true
	}
	if !n.hasChildren() {
		return false
	}
	for _, child := range n.children {
		if child.remove(item) {
			return true
		}
	}
	return false
}

// balance pulls items up from children while this node has spare capacity,
// draining one child before moving to the next. Children are balanced
// first.
func (n *quadNode[T]) balance() {
	if !n.hasChildren() {
		return
	}
	for _, child := range n.children {
		child.balance()
	}
	for spare := maxItemsPerNode - len(n.items); spare > 0; spare-- {
		var src *quadNode[T]
		for _, child := range n.children {
			if len(child.items) > 0 {
				src = child
				break
			}
		}
		if src == nil {
			return
		}
		last := len(src.items) - 1
		n.add(src.items[last].item)
		src.removeAt(last)
	}
}

// cleanup prunes all four children when their subtrees are empty, then
// recurses into the children that remain.
func (n *quadNode[T]) cleanup() {
	if !n.hasChildren() {
		return
	}
	total := 0
	for _, child := range n.children {
		total += child.count()
	}
	if total == 0 {
		n.children = [4]*quadNode[T]{}
		return
	}
	for _, child := range n.children {
		child.cleanup()
	}
}

func (n *quadNode[T]) clear() {
	if n.hasChildren() {
		for _, child := range n.children {
			child.clear()
		}
		n.children = [4]*quadNode[T]{}
	}
	for i := range n.items {
		n.items[i].handle.Remove()
	}
	n.items = nil
}

func (n *quadNode[T]) query(r Rect, out []T) []T {
	if !n.rect.Intersects(r) {
		return out
	}
	all := r.ContainsRect(n.rect)
	for i := range n.items {
		if all || n.items[i].item.BoundingBox().Intersects(r) {
			out = append(out, n.items[i].item)
		}
	}
	if n.hasChildren() {
		for _, child := range n.children {
			out = child.query(r, out)
		}
	}
	return out
}

func (n *quadNode[T]) rects(out []Rect) []Rect {
	out = append(out, n.rect)
	if n.hasChildren() {
		for _, child := range n.children {
			out = child.rects(out)
		}
	}
	return out
}

// boundsChanged relocates item when its box no longer fits this node: first
// through the parent, then from the root. The whole tree is pruned
// afterwards and the item is told its node changed. While the tree is busy
// the item is queued instead.
func (n *quadNode[T]) boundsChanged(item T) {
	t := n.tree
	if t.busy > 0 {
		t.pending = append(t.pending, pendingMove[T]{node: n, item: item})
		return
	}
	t.busy++
	moved, placed := n.relocate(item)
	t.busy--
	if moved {
		if !placed && t.onEvict != nil {
			t.onEvict(item)
		}
		item.NodeChanged()
	}
	t.drain()
}

func (n *quadNode[T]) relocate(item T) (moved, placed bool) {
	if len(n.items) == 0 || n.fits(item) {
		return false, false
	}
	if !n.removeLocal(item) {
		return false, false
	}
	root := n.root()
	placed = n.parent != nil && n.parent.insert(item)
	if !placed {
		placed = root.insert(item)
	}
	root.cleanup()
	return true, placed
}
