package store

////////////////////////////////////////////////
// Empty KVStore

// EmptyKVStore never holds any data, used as a base layer to test caching.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

// Get always returns nil.
func (e EmptyKVStore) Get(key []byte) []byte { return nil }

// Has always returns false.
func (e EmptyKVStore) Has(key []byte) bool { return false }

// Set is a noop.
func (e EmptyKVStore) Set(key, value []byte) {}

// Delete is a noop.
func (e EmptyKVStore) Delete(key []byte) {}

// NewBatch returns a batch that can write to this (no-op) store.
func (e EmptyKVStore) NewBatch() Batch { return NewNonAtomicBatch(e) }

////////////////////////////////////////////////
// Non-atomic batch (dummy implementation)

// Op is one write operation that can be queued in a batch.
type Op struct {
	isSet bool
	key   []byte
	value []byte
}

// Apply performs the stored operation against the given target.
func (o Op) Apply(out SetDeleter) {
	if o.isSet {
		out.Set(o.key, o.value)
	} else {
		out.Delete(o.key)
	}
}

// SetOp constructs an operation to set a key to a value.
func SetOp(key, value []byte) Op {
	return Op{isSet: true, key: key, value: value}
}

// DelOp constructs an operation to delete a key.
func DelOp(key []byte) Op {
	return Op{isSet: false, key: key}
}

// NonAtomicBatch just piles up ops and executes them later on the
// underlying store. Can be used when there is no better option (for in-memory
// stores).
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch creates an empty batch to be later written to the
// SetDeleter.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{
		out: out,
	}
}

// Set adds a set operation to the batch.
func (b *NonAtomicBatch) Set(key, value []byte) {
	b.ops = append(b.ops, SetOp(key, value))
}

// Delete adds a delete operation to the batch.
func (b *NonAtomicBatch) Delete(key []byte) {
	b.ops = append(b.ops, DelOp(key))
}

// Write applies all queued operations to the underlying store in order.
func (b *NonAtomicBatch) Write() {
	for _, op := range b.ops {
		op.Apply(b.out)
	}
	b.ops = nil
}
