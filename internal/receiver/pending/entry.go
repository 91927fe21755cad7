// Sharded buffer for chunks of in-flight messages awaiting reassembly
package pending

import (
	"hash/fnv"

	"gelfgate/internal/global"
)

// Creates a new chunk store with the given shard count
func New(namespace []string, shardCount int) (new *Store) {
	if shardCount < 1 {
		shardCount = global.DefaultStoreShards
	}

	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = &shard{
			messages: make(map[string]*message),
		}
	}

	new = &Store{
		Namespace: append(namespace, global.NSStore),
		shards:    shards,
		Metrics:   &MetricStorage{},
	}
	return
}

// Deterministic shard for a message id
func (store *Store) shardFor(messageID string) (target *shard) {
	hasher := fnv.New32a()
	hasher.Write([]byte(messageID))
	target = store.shards[int(hasher.Sum32())%len(store.shards)]
	return
}
