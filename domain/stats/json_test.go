package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestResultJSON_InfiniteStatistic(t *testing.T) {
	in := TestResult{Statistic: math.Inf(1), PValue: 0, Decision: DecisionReject}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"statistic":"Infinity","p_value":0,"decision":"reject"}`, string(data))

	var out TestResult
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, math.IsInf(out.Statistic, 1))
	assert.Equal(t, DecisionReject, out.Decision)
}

func TestTestResultJSON_Finite(t *testing.T) {
	data, err := json.Marshal(TestResult{Statistic: -1.5, PValue: 0.13, Decision: DecisionRetain})
	require.NoError(t, err)
	assert.JSONEq(t, `{"statistic":-1.5,"p_value":0.13,"decision":"retain"}`, string(data))
}

func TestComparisonStepJSON(t *testing.T) {
	step := ComparisonStep{
		Simpler:    0,
		Richer:     1,
		FStatistic: math.Inf(1),
		Config:     TestConfig{Kind: TestF, Tail: TailUpper, Alpha: 0.05, DoF1: 1, DoF2: 8},
		Result:     TestResult{Statistic: math.Inf(1), Decision: DecisionReject},
	}

	data, err := json.Marshal(step)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"f_statistic":"Infinity"`)

	var out ComparisonStep
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, math.IsInf(out.FStatistic, 1))
	assert.Equal(t, step.Config, out.Config)
}
