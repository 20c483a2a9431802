package pool

// Item describes objects managed by a recycling pool. Reset must leave the
// item indistinguishable from a freshly constructed one and drop every
// reference to its previous payload.
type Item interface {
	Reset()
}
