package store

import "github.com/solstice-labs/ledger"

// Move references for all storage types into this package
// for shorter names everywhere

type KVStore = ledger.KVStore
type ReadOnlyKVStore = ledger.ReadOnlyKVStore
type SetDeleter = ledger.SetDeleter
type Batch = ledger.Batch
type CacheableKVStore = ledger.CacheableKVStore
type KVCacheWrap = ledger.KVCacheWrap
