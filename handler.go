package globe

import "fmt"

// featureHandler is the dense set of live features of one kind in one
// collection. Registration and removal are O(1): removal swaps the last item
// into the vacated slot and rewrites its handlerIndex.
type featureHandler struct {
	kind  FeatureKind
	items []Feature
}

// add registers f. Panics if f is already registered with any handler.
func (h *featureHandler) add(f Feature) {
	b := f.base()
	if b.kind != h.kind {
		panic(fmt.Sprintf("globe: %s feature added to %s handler", b.kind, h.kind))
	}
	if b.handlerIndex >= 0 {
		panic(fmt.Sprintf("globe: %s feature is already registered with a handler", b.kind))
	}
	b.handlerIndex = len(h.items)
	h.items = append(h.items, f)
}

// remove unregisters f. No-op if f is not registered with h.
func (h *featureHandler) remove(b *featureBase) {
	i := b.handlerIndex
	if i < 0 || i >= len(h.items) || h.items[i].base() != b {
		return
	}
	last := len(h.items) - 1
	if i < last {
		moved := h.items[last]
		h.items[i] = moved
		moved.base().handlerIndex = i
	}
	h.items[last] = nil
	h.items = h.items[:last]
	b.handlerIndex = -1
}

// Handler aggregates every live feature of one kind across all entities of
// an EntityCollection. It is the read side the renderer and the picking pass
// iterate; collections own registration.
type Handler[F Feature] struct {
	featureHandler
}

// BillboardHandler aggregates a collection's live billboards.
type BillboardHandler = Handler[*Billboard]

// LabelHandler aggregates a collection's live labels.
type LabelHandler = Handler[*Label]

// Kind returns the feature kind this handler aggregates.
func (h *Handler[F]) Kind() FeatureKind { return h.kind }

// Len returns the number of live features.
func (h *Handler[F]) Len() int { return len(h.items) }

// At returns the i-th live feature. Order is unspecified and changes on removal.
func (h *Handler[F]) At(i int) F { return h.items[i].(F) }

// Contains reports whether f is registered with this handler.
func (h *Handler[F]) Contains(f F) bool {
	i := f.base().handlerIndex
	return i >= 0 && i < len(h.items) && h.items[i].base() == f.base()
}

// Each calls fn for every live feature until fn returns false.
func (h *Handler[F]) Each(fn func(F) bool) {
	for _, f := range h.items {
		if !fn(f.(F)) {
			return
		}
	}
}

// Items returns a snapshot of the live features.
func (h *Handler[F]) Items() []F {
	out := make([]F, len(h.items))
	for i, f := range h.items {
		out[i] = f.(F)
	}
	return out
}
