package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

func TestLoadAppliesDefaultsAndParsesClusterEndpoints(t *testing.T) {
	t.Setenv("CLUSTER_ENDPOINTS", "main=http://es-main:9200,main=http://es-main-2:9200,replica=http://es-replica:9200")

	log, _ := logger.NewForTest()
	cfg, err := Load(log)
	require.NoError(t, err)

	assert.Equal(t, defaultMaxPageSize, cfg.MaxPageSize)
	assert.Equal(t, defaultPageSize, cfg.DefaultPageSize)
	assert.Equal(t, int64(defaultRequestTimeoutHeaderMaxMs), cfg.RequestTimeoutHeaderMaxMs)
	assert.Equal(t, []string{"http://es-main:9200", "http://es-main-2:9200"}, cfg.ClusterEndpoints()["main"])
	assert.Equal(t, []string{"http://es-replica:9200"}, cfg.ClusterEndpoints()["replica"])
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("CLUSTER_ENDPOINTS", "main=http://es-main:9200")
	t.Setenv("MAX_PAGE_SIZE", "1000")
	t.Setenv("DEBUG_QUERY", "true")

	log, _ := logger.NewForTest()
	cfg, err := Load(log)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.MaxPageSize)
	assert.True(t, cfg.DebugQuery)
}

func TestLoadRequiresAtLeastOneCluster(t *testing.T) {
	log, _ := logger.NewForTest()
	_, err := Load(log)
	assert.Error(t, err)
}
