package scenario

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseStep_UnmarshalJSON_Verify(t *testing.T) {
	var r ResponseStep
	require.NoError(t, json.Unmarshal([]byte(`{"verify":{"status":200,"headers":{"Content-Type":"application/json"}}}`), &r))
	assert.Equal(t, ResponseStepVerify, r.Kind)
	require.NotNil(t, r.Verify)
	assert.Equal(t, float64(200), r.Verify.Status)
	assert.Equal(t, "application/json", r.Verify.Headers["Content-Type"])
}

func TestResponseStep_UnmarshalJSON_Save(t *testing.T) {
	var r ResponseStep
	require.NoError(t, json.Unmarshal([]byte(`{"save":{"jmespath":{"order_id":"id"}}}`), &r))
	assert.Equal(t, ResponseStepSave, r.Kind)
	require.NotNil(t, r.Save)
	assert.Equal(t, "id", r.Save.JMESPath["order_id"])
}

func TestResponseStep_UnmarshalJSON_BothKeysFails(t *testing.T) {
	var r ResponseStep
	err := json.Unmarshal([]byte(`{"verify":{},"save":{}}`), &r)
	require.Error(t, err)
}

func TestResponseStep_UnmarshalJSON_NoKeysFails(t *testing.T) {
	var r ResponseStep
	err := json.Unmarshal([]byte(`{}`), &r)
	require.Error(t, err)
}

func TestBodyVerify_AbsentField(t *testing.T) {
	var r ResponseStep
	require.NoError(t, json.Unmarshal([]byte(`{"verify":{"body":{"absent":true}}}`), &r))
	require.NotNil(t, r.Verify.Body)
	assert.True(t, r.Verify.Body.Absent)
}

func TestResponseStep_MarshalJSON_RoundTrip(t *testing.T) {
	r := ResponseStep{Kind: ResponseStepSave, Save: &Save{JMESPath: map[string]string{"id": "order.id"}}}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded ResponseStep
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.Kind, decoded.Kind)
	assert.Equal(t, r.Save.JMESPath, decoded.Save.JMESPath)
}
