package barcode

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(code string) ScanEntry {
	return ScanEntry{
		Barcode:   code,
		Result:    &Result{Kind: ResultFound, Details: &MedicineDetails{Barcode: code}},
		ScannedAt: time.Now(),
	}
}

func TestScanHistory_NewestFirst(t *testing.T) {
	var h ScanHistory
	h.Add(scan("111"))
	h.Add(scan("222"))
	h.Add(scan("333"))

	recent := h.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "333", recent[0].Barcode)
	assert.Equal(t, "111", recent[2].Barcode)
}

func TestScanHistory_DeduplicatesByBarcode(t *testing.T) {
	var h ScanHistory
	h.Add(scan("111"))
	h.Add(scan("222"))
	h.Add(scan("111"))

	recent := h.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "111", recent[0].Barcode, "rescanning moves the entry to the front")
	assert.Equal(t, "222", recent[1].Barcode)
}

func TestScanHistory_Bounded(t *testing.T) {
	var h ScanHistory
	for i := 0; i < 15; i++ {
		h.Add(scan(fmt.Sprintf("%03d", i)))
	}

	recent := h.Recent()
	require.Len(t, recent, maxScanHistory)
	assert.Equal(t, "014", recent[0].Barcode)
	assert.Equal(t, "005", recent[len(recent)-1].Barcode, "oldest scans are dropped")
}

func TestSessionHistories_IsolatedPerSession(t *testing.T) {
	store := NewSessionHistories()

	store.For("session-a").Add(scan("111"))
	store.For("session-b").Add(scan("222"))

	assert.Len(t, store.For("session-a").Recent(), 1)
	assert.Equal(t, "111", store.For("session-a").Recent()[0].Barcode)
	assert.Equal(t, "222", store.For("session-b").Recent()[0].Barcode)
	assert.Empty(t, store.For("session-c").Recent())
}
