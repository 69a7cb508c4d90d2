package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownProviders(t *testing.T) {
	_, err := Generator(Model{Provider: "llama.cpp"})
	assert.Error(t, err)

	_, err = Embedder(Model{Provider: "cohere"})
	assert.Error(t, err)

	_, err = Storer(Store{Provider: "mongo"})
	assert.Error(t, err)

	_, err = Sessions("memcached", "", time.Minute, 6)
	assert.Error(t, err)

	_, err = Weather("accuweather", "", "", time.Second)
	assert.Error(t, err)
}

func TestOptionalProviders(t *testing.T) {
	gen, err := Generator(Model{Provider: "none"})
	require.NoError(t, err)
	assert.Nil(t, gen)

	w, err := Weather("none", "", "", time.Second)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestInMemoryBackends(t *testing.T) {
	st, err := Storer(Store{Provider: "memory"})
	require.NoError(t, err)
	assert.NotNil(t, st)

	sessions, err := Sessions("memory", "", time.Minute, 6)
	require.NoError(t, err)
	require.NotNil(t, sessions)
	assert.NoError(t, sessions.Close())
}
