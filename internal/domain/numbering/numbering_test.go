package numbering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/numbering"
)

func TestFormat_PrimerosConsecutivos(t *testing.T) {
	assert.Equal(t, "CX000001", numbering.Format("CX", 1))
	assert.Equal(t, "VND000001", numbering.Format("VND", 1))
	assert.Equal(t, "VND000123", numbering.Format("VND", 123))
}

func TestFormat_SecuenciaGrandeEnsanchaSufijo(t *testing.T) {
	assert.Equal(t, "VND1000000", numbering.Format("VND", 1_000_000))
}

func TestParse_RoundTrip(t *testing.T) {
	for _, seq := range []int64{1, 42, 999999, 1_000_000} {
		n := numbering.Format("CX", seq)
		got, err := numbering.Parse("CX", n)
		require.NoError(t, err)
		assert.Equal(t, seq, got)
	}
}

func TestParse_PrefijoIncorrecto(t *testing.T) {
	_, err := numbering.Parse("VND", "CX000001")
	assert.Error(t, err)
}

func TestParse_SufijoNoNumerico(t *testing.T) {
	_, err := numbering.Parse("VND", "VNDabc")
	assert.Error(t, err)
}
