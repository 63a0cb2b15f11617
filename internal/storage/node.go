package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"decayd/internal/models"
	"decayd/internal/providers"
	"decayd/internal/structures"
)

const (
	contentPrefix = "content/"
	payloadPrefix = "payload/"
	pendingPrefix = "pending/"
)

var (
	// ErrContentNotFound marks fetch/relay calls against unknown content.
	ErrContentNotFound = errors.New("content not found")
	// ErrHashMismatch marks relayed payloads whose content address does not
	// match the advertised hash. Such payloads are discarded.
	ErrHashMismatch = errors.New("payload hash mismatch")
)

// Peer is one sibling storage node, reached through the external transport
// collaborator. All calls are best-effort with no ordering guarantees.
type Peer interface {
	ID() string
	Store(ctx context.Context, contentID, payloadHash string, payload []byte) error
	Fetch(ctx context.Context, contentID string) ([]byte, error)
	EvictNotice(ctx context.Context, contentID string) error
}

// ScoreSource yields the current 0-100 visibility score for a content item.
// The stake lifecycle manager implements this.
type ScoreSource interface {
	VisibilityScore(contentID string, now time.Time) (int, bool)
}

// VisibilitySink receives visibility flips detected during the sweep.
type VisibilitySink interface {
	ContentVisibilityChanged(contentID string, visible bool)
}

// Node persists content durably, replicates it to a bounded set of peers
// and evicts content whose decay score has sat at the floor past the
// grace period. Mutation of a given record is serialized by n.mu.
type Node struct {
	mu         sync.Mutex
	conf       *structures.Config
	db         Database
	compressor CompressorInterface
	ledger     *LedgerStore
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface

	peers   []Peer
	sink    VisibilitySink
	records map[string]*models.ContentRecord
	// pending holds content ids still short of their replication factor.
	// It is flushed to the durable store after every sweep and on shutdown.
	pending map[string]struct{}
}

func NewNode(conf *structures.Config, db Database, compressor CompressorInterface, ledger *LedgerStore, logger providers.Logger, metrics providers.MetricsProviderInterface) *Node {
	return &Node{
		conf:       conf,
		db:         db,
		compressor: compressor,
		ledger:     ledger,
		logger:     logger,
		metrics:    metrics,
		records:    make(map[string]*models.ContentRecord),
		pending:    make(map[string]struct{}),
	}
}

// SetPeers installs the reachable sibling nodes. The transport collaborator
// owns discovery; the node only pushes and pulls.
func (n *Node) SetPeers(peers []Peer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.peers = peers
}

// SetVisibilitySink installs the outbound notification target.
func (n *Node) SetVisibilitySink(sink VisibilitySink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = sink
}

// HashPayload returns the content address of a payload.
func HashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Store persists the record and payload durably, assigns the local node to
// the replica set and pushes copies to up to replicationFactor reachable
// peers. Replication failures are logged and retried on the next sweep,
// never fatal.
func (n *Node) Store(ctx context.Context, rec *models.ContentRecord, payload []byte) error {
	hash := HashPayload(payload)
	if rec.PayloadRef == "" {
		rec.PayloadRef = hash
	} else if rec.PayloadRef != hash {
		return ErrHashMismatch
	}

	compressed, err := n.compressor.Compress(payload)
	if err != nil {
		return err
	}
	if err := n.db.Put(payloadKey(rec.PayloadRef), compressed); err != nil {
		return err
	}

	n.mu.Lock()
	rec.PayloadSize = int64(len(payload))
	if rec.StoredAt.IsZero() {
		rec.StoredAt = time.Now().UTC()
	}
	rec.AddReplica(n.conf.Storage.NodeID)
	n.records[rec.ContentID] = rec
	if err := n.persistRecordLocked(rec); err != nil {
		n.mu.Unlock()
		return err
	}
	n.mu.Unlock()

	n.accrueStorageFee(rec)
	n.replicate(ctx, rec, payload)
	return nil
}

// Relay handles a relay request for content not locally present: fetch from
// a peer that has it, verify the content address against the advertised
// hash, then store locally.
func (n *Node) Relay(ctx context.Context, contentID, advertisedHash string) error {
	n.mu.Lock()
	if _, ok := n.records[contentID]; ok {
		n.mu.Unlock()
		return nil
	}
	peers := n.peers
	n.mu.Unlock()

	for _, peer := range peers {
		payload, err := peer.Fetch(ctx, contentID)
		if err != nil {
			continue
		}
		if HashPayload(payload) != advertisedHash {
			n.logger.Warnf(providers.TypeReplication, "Peer %s returned payload with wrong hash for %s", peer.ID(), contentID)
			continue
		}
		rec := &models.ContentRecord{
			ContentID:  contentID,
			PayloadRef: advertisedHash,
			DecayScore: 100,
		}
		return n.Store(ctx, rec, payload)
	}
	return ErrContentNotFound
}

// GetPayload returns the decompressed payload for locally held content.
func (n *Node) GetPayload(contentID string) ([]byte, error) {
	n.mu.Lock()
	rec, ok := n.records[contentID]
	n.mu.Unlock()
	if !ok {
		return nil, ErrContentNotFound
	}

	compressed, err := n.db.Get(payloadKey(rec.PayloadRef))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return n.compressor.Decompress(compressed)
}

// GetRecord returns a copy of the content record.
func (n *Node) GetRecord(contentID string) (models.ContentRecord, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	rec, ok := n.records[contentID]
	if !ok {
		return models.ContentRecord{}, false
	}
	return *rec, true
}

// EvictNotice handles a best-effort eviction request from a sibling node.
func (n *Node) EvictNotice(contentID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.evictLocked(contentID); err != nil {
		n.logger.Errorf(providers.TypeReplication, "Evict notice for %s failed: %s", contentID, err)
	}
}

// DecaySweep refreshes every record's decay score from the score source,
// evicts records that sat at or below the visibility floor past the grace
// period and retries pending replication. Runs on the scoring cadence.
// The sweep checkpoints after each record and stops between records once
// ctx is cancelled.
func (n *Node) DecaySweep(ctx context.Context, now time.Time, scores ScoreSource) error {
	n.mu.Lock()
	ids := make([]string, 0, len(n.records))
	for id := range n.records {
		ids = append(ids, id)
	}
	n.mu.Unlock()

	floor := n.conf.Storage.VisibilityFloor
	grace := n.conf.Storage.EvictionGrace

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		n.mu.Lock()
		rec, ok := n.records[id]
		if !ok {
			n.mu.Unlock()
			continue
		}

		score, known := scores.VisibilityScore(id, now)
		if !known {
			// Stake burned or never existed: the content has no value left.
			score = 0
		}

		wasVisible := rec.IsVisible(floor)
		rec.DecayScore = score

		if score <= floor {
			if rec.BelowFloorSince == nil {
				t := now
				rec.BelowFloorSince = &t
			}
		} else {
			rec.BelowFloorSince = nil
		}

		evict := rec.BelowFloorSince != nil && now.Sub(*rec.BelowFloorSince) > grace
		if evict {
			replicas := append([]string(nil), rec.ReplicaSet...)
			if err := n.evictLocked(id); err != nil {
				n.logger.Errorf(providers.TypeReplication, "Eviction of %s failed: %s", id, err)
				n.mu.Unlock()
				continue
			}
			n.mu.Unlock()
			n.metrics.IncEvictions()
			n.notifyReplicaEviction(ctx, id, replicas)
			if wasVisible && n.sink != nil {
				n.sink.ContentVisibilityChanged(id, false)
			}
			continue
		}

		if err := n.persistRecordLocked(rec); err != nil {
			n.mu.Unlock()
			return err
		}
		isVisible := rec.IsVisible(floor)
		n.mu.Unlock()

		if wasVisible != isVisible && n.sink != nil {
			n.sink.ContentVisibilityChanged(id, isVisible)
		}
	}

	n.RetryReplication(ctx)
	return n.Flush()
}

// RetryReplication re-attempts pushes for content still short of its
// replication factor. Runs on the replication health cadence and at the
// tail of every sweep.
func (n *Node) RetryReplication(ctx context.Context) {
	n.mu.Lock()
	ids := make([]string, 0, len(n.pending))
	for id := range n.pending {
		ids = append(ids, id)
	}
	n.mu.Unlock()

	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		payload, err := n.GetPayload(id)
		if err != nil {
			// Content evicted since it went pending; drop the entry.
			n.mu.Lock()
			delete(n.pending, id)
			n.mu.Unlock()
			continue
		}
		n.mu.Lock()
		rec, ok := n.records[id]
		n.mu.Unlock()
		if !ok {
			continue
		}
		n.replicate(ctx, rec, payload)
	}
}

// replicate pushes the payload to peers that do not yet hold a copy, up to
// the configured replication factor. Peer failures are isolated: each push
// runs in its own goroutine and a failure only marks the content pending.
func (n *Node) replicate(ctx context.Context, rec *models.ContentRecord, payload []byte) {
	n.mu.Lock()
	// Self does not count against the factor: push to up to
	// replicationFactor peers beyond the local copy.
	remaining := n.conf.Storage.ReplicationFactor - (len(rec.ReplicaSet) - 1)
	var targets []Peer
	for _, peer := range n.peers {
		if len(targets) >= remaining {
			break
		}
		if !rec.HasReplica(peer.ID()) {
			targets = append(targets, peer)
		}
	}
	contentID := rec.ContentID
	hash := rec.PayloadRef
	n.mu.Unlock()

	if len(targets) == 0 {
		n.mu.Lock()
		delete(n.pending, contentID)
		n.mu.Unlock()
		return
	}

	type pushResult struct {
		peerID string
		err    error
	}
	results := make(chan pushResult, len(targets))
	var wg sync.WaitGroup
	for _, peer := range targets {
		wg.Add(1)
		go func(p Peer) {
			defer wg.Done()
			results <- pushResult{peerID: p.ID(), err: p.Store(ctx, contentID, hash, payload)}
		}(peer)
	}
	wg.Wait()
	close(results)

	var failures []pushResult
	n.mu.Lock()
	for res := range results {
		if res.err != nil {
			failures = append(failures, res)
			continue
		}
		rec.AddReplica(res.peerID)
	}
	if len(failures) > 0 {
		n.pending[contentID] = struct{}{}
	} else {
		delete(n.pending, contentID)
	}
	err := n.persistRecordLocked(rec)
	n.mu.Unlock()

	if err != nil {
		n.logger.Errorf(providers.TypeReplication, "Persisting record %s failed: %s", contentID, err)
	}
	for _, res := range failures {
		n.metrics.IncReplicationFailures(res.peerID)
		n.logger.Warnf(providers.TypeReplication, "Replication of %s to peer %s failed: %s", contentID, res.peerID, res.err)
	}
}

func (n *Node) notifyReplicaEviction(ctx context.Context, contentID string, replicas []string) {
	n.mu.Lock()
	peers := n.peers
	n.mu.Unlock()

	for _, peer := range peers {
		holds := false
		for _, id := range replicas {
			if id == peer.ID() {
				holds = true
				break
			}
		}
		if !holds {
			continue
		}
		go func(p Peer) {
			if err := p.EvictNotice(ctx, contentID); err != nil {
				n.logger.Warnf(providers.TypeReplication, "Evict notice for %s to peer %s failed: %s", contentID, p.ID(), err)
			}
		}(peer)
	}
}

// accrueStorageFee credits the hosting node a per-byte fee for the stored
// payload. Bookkeeping only: the fee lands in the ledger and the supply
// aggregates, not in any payment rail.
func (n *Node) accrueStorageFee(rec *models.ContentRecord) {
	fee := rec.PayloadSize * n.conf.Storage.FeePerByte
	if fee <= 0 {
		return
	}
	entry := &models.LedgerEntry{
		Kind:      models.EntryFee,
		ContentID: rec.ContentID,
		UserID:    n.conf.Storage.NodeID,
		Amount:    fee,
	}
	if err := n.ledger.Append(entry); err != nil {
		n.logger.Errorf(providers.TypeLedger, "Fee entry for %s failed: %s", rec.ContentID, err)
	}
}

// Restore loads content records and the pending replication set from the
// durable store. Called once at startup.
func (n *Node) Restore() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	err := n.db.IteratePrefix([]byte(contentPrefix), func(key, value []byte) error {
		var rec models.ContentRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		n.records[rec.ContentID] = &rec
		return nil
	})
	if err != nil {
		return err
	}

	return n.db.IteratePrefix([]byte(pendingPrefix), func(key, value []byte) error {
		n.pending[string(key[len(pendingPrefix):])] = struct{}{}
		return nil
	})
}

// Flush persists the pending replication set so that a restart resumes
// replication where it stopped.
func (n *Node) Flush() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.db.IteratePrefix([]byte(pendingPrefix), func(key, value []byte) error {
		if _, ok := n.pending[string(key[len(pendingPrefix):])]; !ok {
			return n.db.Delete(key)
		}
		return nil
	}); err != nil {
		return err
	}
	for id := range n.pending {
		if err := n.db.Put([]byte(pendingPrefix+id), []byte{1}); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of locally held content records.
func (n *Node) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.records)
}

// evictLocked removes the record and payload. Caller holds n.mu.
func (n *Node) evictLocked(contentID string) error {
	rec, ok := n.records[contentID]
	if !ok {
		return nil
	}
	if err := n.db.Delete(payloadKey(rec.PayloadRef)); err != nil {
		return err
	}
	if err := n.db.Delete(contentKey(contentID)); err != nil {
		return err
	}
	delete(n.records, contentID)
	delete(n.pending, contentID)
	return nil
}

// persistRecordLocked writes the record through to the durable store.
// Caller holds n.mu.
func (n *Node) persistRecordLocked(rec *models.ContentRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return n.db.Put(contentKey(rec.ContentID), data)
}

func contentKey(contentID string) []byte {
	return []byte(contentPrefix + contentID)
}

func payloadKey(hash string) []byte {
	return []byte(payloadPrefix + hash)
}
