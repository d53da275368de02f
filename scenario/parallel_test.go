package scenario

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelConfig_UnmarshalJSON_Repeat(t *testing.T) {
	var p ParallelConfig
	require.NoError(t, json.Unmarshal([]byte(`{"repeat":{"n":5,"max_concurrency":2,"calls_per_sec":10}}`), &p))
	assert.Equal(t, ParallelRepeat, p.Kind)
	require.NotNil(t, p.Repeat)
	assert.Equal(t, 5, p.Repeat.N)
	assert.Equal(t, 2, p.Repeat.MaxConcurrency)
	assert.Equal(t, 10.0, p.Repeat.CallsPerSec)
}

func TestParallelConfig_UnmarshalJSON_Foreach(t *testing.T) {
	var p ParallelConfig
	data := `{"foreach":{"parameters":[{"individual":{"key":"user","values":["a","b"]}}],"max_concurrency":3}}`
	require.NoError(t, json.Unmarshal([]byte(data), &p))
	assert.Equal(t, ParallelForeach, p.Kind)
	require.Len(t, p.Foreach.Parameters, 1)
	assert.Equal(t, ParameterIndividual, p.Foreach.Parameters[0].Kind)
}

func TestParallelConfig_UnmarshalJSON_BothKeysFails(t *testing.T) {
	var p ParallelConfig
	err := json.Unmarshal([]byte(`{"repeat":{"n":1},"foreach":{"parameters":[]}}`), &p)
	require.Error(t, err)
}

func TestParallelConfig_MarshalJSON_RoundTrip(t *testing.T) {
	p := ParallelConfig{Kind: ParallelRepeat, Repeat: &RepeatConfig{N: 3, MaxConcurrency: 1}}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded ParallelConfig
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}
