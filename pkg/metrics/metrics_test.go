package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRepair(t *testing.T) {
	ObserveRepair(0.5, nil)
	ObserveRepair(1.5, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(repairDuration))
}

func TestWriteTextfile(t *testing.T) {
	SwapsApplied.Inc()
	ErrorBits.Set(3)

	path := filepath.Join(t.TempDir(), "gaterepair.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# TYPE gaterepair_swaps_applied_total counter")
	assert.Contains(t, text, "gaterepair_error_bits 3")

	expected := `
# HELP gaterepair_error_bits Number of wrong output bits of the current circuit
# TYPE gaterepair_error_bits gauge
gaterepair_error_bits 3
`
	assert.NoError(t, testutil.CollectAndCompare(ErrorBits, strings.NewReader(expected)))
}
