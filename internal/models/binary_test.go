package models

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerEntry_EncodeDecodeRoundtrip(t *testing.T) {
	in := &LedgerEntry{
		ID:        "e-1",
		Seq:       42,
		Kind:      EntryBurn,
		ContentID: "c-9",
		UserID:    "alice",
		Amount:    1234,
		At:        time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeLedgerEntry(&buf, in))

	out, err := DecodeLedgerEntry(&buf)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Seq, out.Seq)
	assert.Equal(t, in.Kind, out.Kind)
	assert.Equal(t, in.ContentID, out.ContentID)
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.Amount, out.Amount)
	assert.True(t, in.At.Equal(out.At))
}

func TestLedgerEntry_DecodeRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeLedgerEntry(&buf, &LedgerEntry{ID: "e", At: time.Now()}))

	raw := buf.Bytes()
	raw[0] = 99
	_, err := DecodeLedgerEntry(bytes.NewReader(raw))
	assert.Error(t, err)
}

func TestLedgerEntry_DecodeTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeLedgerEntry(&buf, &LedgerEntry{ID: "e-1", ContentID: "c", UserID: "u", At: time.Now()}))

	raw := buf.Bytes()
	_, err := DecodeLedgerEntry(bytes.NewReader(raw[:len(raw)-3]))
	assert.Error(t, err)
}
