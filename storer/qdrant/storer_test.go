package qdrant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/bookflow/storer"
)

func TestPointId(t *testing.T) {
	u := uuid.New().String()
	assert.Equal(t, u, pointId(u))

	a := pointId("42")
	assert.Equal(t, a, pointId("42"))
	assert.NotEqual(t, a, pointId("43"))

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestParseLocation(t *testing.T) {
	host, port, tls, err := parseLocation("localhost")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
	assert.Equal(t, defaultPort, port)
	assert.False(t, tls)

	host, port, tls, err = parseLocation("https://cluster.qdrant.io:6335")
	require.NoError(t, err)
	assert.Equal(t, "cluster.qdrant.io", host)
	assert.Equal(t, 6335, port)
	assert.True(t, tls)
}

func TestBuildFilter(t *testing.T) {
	assert.Nil(t, buildFilter(storer.Filter{}))

	f := buildFilter(storer.Filter{Province: "Lào Cai", Type: storer.TypeDish})
	require.Len(t, f.Must, 2)
	assert.Equal(t, "province", f.Must[0].GetField().GetKey())
	assert.Equal(t, "Lào Cai", f.Must[0].GetField().GetMatch().GetKeyword())
	assert.Equal(t, "type", f.Must[1].GetField().GetKey())
}

func TestFromPayload(t *testing.T) {
	rec := fromPayload(qdrant.NewValueMap(map[string]any{
		"doc_id":   "7",
		"content":  "Thắng cố",
		"name":     "Thắng cố",
		"province": "Lào Cai",
		"type":     "dish",
	}))

	assert.Equal(t, "7", rec.Id)
	assert.Equal(t, "Lào Cai", rec.Metadata.Province)
	assert.Equal(t, storer.TypeDish, rec.Metadata.Type)
}
