package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuestionCounter map[string]int

func (f fakeQuestionCounter) CountQuestionsByType(ctx context.Context) (map[string]int, error) {
	return f, nil
}

func TestQuestionCollector_Collect(t *testing.T) {
	collector := NewQuestionCollector(fakeQuestionCounter{
		"single-select": 3,
		"fill-blank":    4,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "algebra_questions_total", families[0].GetName())

	values := gaugeValues(t, families[0])
	assert.Equal(t, 3.0, values["single-select"])
	assert.Equal(t, 4.0, values["fill-blank"])
}

func TestRecordFormulaRepair(t *testing.T) {
	before := testutil.ToFloat64(FormulaRepairTotal.WithLabelValues("appended"))

	RecordFormulaRepair(2, 0)

	after := testutil.ToFloat64(FormulaRepairTotal.WithLabelValues("appended"))
	assert.Equal(t, before+2, after)
}
