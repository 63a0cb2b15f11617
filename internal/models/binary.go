package models

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

var byteOrder = binary.LittleEndian

// ledgerEntryVersion guards against silent format drift: entries written
// by a newer engine refuse to decode instead of folding garbage into the
// supply aggregates.
const ledgerEntryVersion uint8 = 1

// writeString writes a uint16 length-prefixed UTF-8 string.
func writeString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("string too long for ledger entry: %d bytes", len(s))
	}
	if err := binary.Write(w, byteOrder, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// readString reads a uint16 length-prefixed UTF-8 string.
func readString(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, byteOrder, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// EncodeLedgerEntry writes e in the compact binary ledger format.
// Format: version(uint8) seq(uint64) kind(uint8) amount(int64)
// at(int64, unix nanos) + id, contentID, userID as prefixed strings.
func EncodeLedgerEntry(w io.Writer, e *LedgerEntry) error {
	if err := binary.Write(w, byteOrder, ledgerEntryVersion); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, e.Seq); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, uint8(e.Kind)); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, e.Amount); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, e.At.UnixNano()); err != nil {
		return err
	}
	if err := writeString(w, e.ID); err != nil {
		return err
	}
	if err := writeString(w, e.ContentID); err != nil {
		return err
	}
	return writeString(w, e.UserID)
}

// DecodeLedgerEntry reads one entry written by EncodeLedgerEntry.
func DecodeLedgerEntry(r io.Reader) (*LedgerEntry, error) {
	var version uint8
	if err := binary.Read(r, byteOrder, &version); err != nil {
		return nil, err
	}
	if version != ledgerEntryVersion {
		return nil, fmt.Errorf("unsupported ledger entry version %d", version)
	}

	var e LedgerEntry
	var kind uint8
	var nanos int64
	if err := binary.Read(r, byteOrder, &e.Seq); err != nil {
		return nil, err
	}
	if err := binary.Read(r, byteOrder, &kind); err != nil {
		return nil, err
	}
	if err := binary.Read(r, byteOrder, &e.Amount); err != nil {
		return nil, err
	}
	if err := binary.Read(r, byteOrder, &nanos); err != nil {
		return nil, err
	}
	e.Kind = EntryKind(kind)
	e.At = time.Unix(0, nanos).UTC()

	var err error
	if e.ID, err = readString(r); err != nil {
		return nil, err
	}
	if e.ContentID, err = readString(r); err != nil {
		return nil, err
	}
	if e.UserID, err = readString(r); err != nil {
		return nil, err
	}
	return &e, nil
}
