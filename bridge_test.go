package pnts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swapRegisteredDecoder(t *testing.T) {
	t.Helper()
	decoderMu.Lock()
	saved := decoderInit
	decoderMu.Unlock()
	t.Cleanup(func() {
		decoderMu.Lock()
		decoderInit = saved
		decoderMu.Unlock()
	})
}

func TestRegisterCompressedDecoder(t *testing.T) {
	t.Run("InitRunsOnce", func(t *testing.T) {
		swapRegisteredDecoder(t)
		inits := 0
		want := &fakeDecoder{}
		RegisterCompressedDecoder(func() (CompressedDecoder, error) {
			inits++
			return want, nil
		})
		// registration alone must not run init
		assert.Zero(t, inits)
		for i := 0; i < 3; i++ {
			got, err := registeredCompressedDecoder()
			require.NoError(t, err)
			assert.Same(t, want, got)
		}
		assert.Equal(t, 1, inits)
	})
	t.Run("InitFailureIsCached", func(t *testing.T) {
		swapRegisteredDecoder(t)
		inits := 0
		RegisterCompressedDecoder(func() (CompressedDecoder, error) {
			inits++
			return nil, errors.New("module load failed")
		})
		_, err := registeredCompressedDecoder()
		assert.ErrorContains(t, err, "module load failed")
		_, err = registeredCompressedDecoder()
		assert.ErrorContains(t, err, "module load failed")
		assert.Equal(t, 1, inits)
	})
	t.Run("NoneRegistered", func(t *testing.T) {
		swapRegisteredDecoder(t)
		decoderMu.Lock()
		decoderInit = nil
		decoderMu.Unlock()
		decoder, err := registeredCompressedDecoder()
		require.NoError(t, err)
		assert.Nil(t, decoder)
	})
}
