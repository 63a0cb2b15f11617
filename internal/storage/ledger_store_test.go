package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decayd/internal/models"
)

type recordingObserver struct {
	entries []*models.LedgerEntry
}

func (o *recordingObserver) Apply(entry *models.LedgerEntry) {
	o.entries = append(o.entries, entry)
}

func TestLedgerStore_AppendAssignsSequence(t *testing.T) {
	ls, err := NewLedgerStore(NewMemDB())
	require.NoError(t, err)

	a := &models.LedgerEntry{Kind: models.EntryStakeLocked, ContentID: "c1", Amount: 100}
	b := &models.LedgerEntry{Kind: models.EntryBurn, ContentID: "c1", Amount: 2}
	require.NoError(t, ls.Append(a))
	require.NoError(t, ls.Append(b))

	assert.Equal(t, uint64(1), a.Seq)
	assert.Equal(t, uint64(2), b.Seq)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.At.IsZero())
	assert.Equal(t, uint64(2), ls.Len())
}

func TestLedgerStore_ReplayInOrder(t *testing.T) {
	ls, err := NewLedgerStore(NewMemDB())
	require.NoError(t, err)

	for i := int64(1); i <= 25; i++ {
		require.NoError(t, ls.Append(&models.LedgerEntry{Kind: models.EntryReward, Amount: i}))
	}

	var seqs []uint64
	require.NoError(t, ls.Replay(func(entry *models.LedgerEntry) error {
		seqs = append(seqs, entry.Seq)
		return nil
	}))

	require.Len(t, seqs, 25)
	for i, seq := range seqs {
		assert.Equal(t, uint64(i+1), seq)
	}
}

func TestLedgerStore_ObserverSeesEveryAppend(t *testing.T) {
	ls, err := NewLedgerStore(NewMemDB())
	require.NoError(t, err)

	obs := &recordingObserver{}
	ls.SetObserver(obs)

	require.NoError(t, ls.Append(&models.LedgerEntry{Kind: models.EntryStakeLocked, Amount: 10}))
	require.NoError(t, ls.Append(&models.LedgerEntry{Kind: models.EntryFee, Amount: 3}))

	require.Len(t, obs.entries, 2)
	assert.Equal(t, models.EntryStakeLocked, obs.entries[0].Kind)
	assert.Equal(t, models.EntryFee, obs.entries[1].Kind)
}

func TestLedgerStore_RecoversSequenceAcrossReopen(t *testing.T) {
	db := NewMemDB()
	ls, err := NewLedgerStore(db)
	require.NoError(t, err)
	require.NoError(t, ls.Append(&models.LedgerEntry{Kind: models.EntryStakeLocked, Amount: 10}))
	require.NoError(t, ls.Append(&models.LedgerEntry{Kind: models.EntryStakeLocked, Amount: 20}))

	reopened, err := NewLedgerStore(db)
	require.NoError(t, err)

	next := &models.LedgerEntry{Kind: models.EntryBurn, Amount: 1}
	require.NoError(t, reopened.Append(next))
	assert.Equal(t, uint64(3), next.Seq)
}

func TestLedgerStore_RefusesCorruptLog(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("ledger/00000000000000000001"), []byte{0xFF, 0x01}))

	_, err := NewLedgerStore(db)
	assert.Error(t, err)
}
