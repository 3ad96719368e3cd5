package stats

import (
	"encoding/json"
	"math"
)

// jsonFloat encodes ±Inf as the strings "Infinity" and "-Infinity", which
// encoding/json refuses to emit as numbers. An exact fit makes the F
// statistic infinite.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	switch {
	case math.IsInf(float64(f), 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(float64(f), -1):
		return []byte(`"-Infinity"`), nil
	default:
		return json.Marshal(float64(f))
	}
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Infinity"`:
		*f = jsonFloat(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*f = jsonFloat(math.Inf(-1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

type testResultJSON struct {
	Statistic jsonFloat `json:"statistic"`
	PValue    float64   `json:"p_value"`
	Decision  Decision  `json:"decision"`
}

func (r TestResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(testResultJSON{Statistic: jsonFloat(r.Statistic), PValue: r.PValue, Decision: r.Decision})
}

func (r *TestResult) UnmarshalJSON(data []byte) error {
	var aux testResultJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = TestResult{Statistic: float64(aux.Statistic), PValue: aux.PValue, Decision: aux.Decision}
	return nil
}

type comparisonStepJSON struct {
	Simpler    int        `json:"simpler"`
	Richer     int        `json:"richer"`
	FStatistic jsonFloat  `json:"f_statistic"`
	Config     TestConfig `json:"config"`
	Result     TestResult `json:"result"`
}

func (s ComparisonStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(comparisonStepJSON{
		Simpler:    s.Simpler,
		Richer:     s.Richer,
		FStatistic: jsonFloat(s.FStatistic),
		Config:     s.Config,
		Result:     s.Result,
	})
}

func (s *ComparisonStep) UnmarshalJSON(data []byte) error {
	var aux comparisonStepJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = ComparisonStep{
		Simpler:    aux.Simpler,
		Richer:     aux.Richer,
		FStatistic: float64(aux.FStatistic),
		Config:     aux.Config,
		Result:     aux.Result,
	}
	return nil
}
