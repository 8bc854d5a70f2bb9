package hazard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	t.Run("additive values sum", func(t *testing.T) {
		r := Combine([]Modifier{
			{Channel: ChannelMortality, Value: 0.3, Operation: OpAdd},
			{Channel: ChannelMortality, Value: 0.2, Operation: OpAdd},
		})
		m, ok := r.Get(ChannelMortality)
		require.True(t, ok)
		require.Equal(t, OpAdd, m.Operation)
		require.InDelta(t, 0.5, m.Value, 1e-12)
	})

	t.Run("multiplicative deviations sum", func(t *testing.T) {
		r := Combine([]Modifier{
			{Channel: ChannelFood, Value: 0.5, Operation: OpMultiply},
			{Channel: ChannelFood, Value: 0.8, Operation: OpMultiply},
		})
		m, ok := r.Get(ChannelFood)
		require.True(t, ok)
		require.Equal(t, OpMultiply, m.Operation)
		require.InDelta(t, 0.3, m.Value, 1e-12)
	})

	t.Run("different operation overwrites", func(t *testing.T) {
		r := Combine([]Modifier{
			{Channel: ChannelSpeed, Value: 0.5, Operation: OpMultiply},
			{Channel: ChannelSpeed, Value: 2, Operation: OpAdd},
		})
		require.Equal(t, Modifier{Channel: ChannelSpeed, Value: 2, Operation: OpAdd}, r[ChannelSpeed])
	})

	t.Run("channels are independent", func(t *testing.T) {
		r := Combine([]Modifier{
			{Channel: ChannelSpeed, Value: 0.5, Operation: OpMultiply},
			{Channel: ChannelMortality, Value: 0.1, Operation: OpAdd},
		})
		require.Len(t, r, 2)
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, Combine(nil))
	})
}

func TestModifierScale(t *testing.T) {
	tests := []struct {
		name string
		in   Modifier
		f    float64
		want float64
	}{
		{"add full", Modifier{Value: 0.4, Operation: OpAdd}, 1, 0.4},
		{"add half", Modifier{Value: 0.4, Operation: OpAdd}, 0.5, 0.2},
		{"add zero", Modifier{Value: 0.4, Operation: OpAdd}, 0, 0},
		{"damping half", Modifier{Value: 0.5, Operation: OpMultiply}, 0.5, 0.75},
		{"amplifying half", Modifier{Value: 1.5, Operation: OpMultiply}, 0.5, 1.25},
		{"multiply zero", Modifier{Value: 0.2, Operation: OpMultiply}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, tt.in.Scale(tt.f).Value, 1e-12)
		})
	}
}

func TestResolvedApply(t *testing.T) {
	r := Combine([]Modifier{
		{Channel: ChannelFood, Value: 0.5, Operation: OpMultiply},
		{Channel: ChannelEnergyDrain, Value: 0.25, Operation: OpAdd},
	})
	require.InDelta(t, 5.0, r.Apply(ChannelFood, 10), 1e-12)
	require.InDelta(t, 1.25, r.Apply(ChannelEnergyDrain, 1), 1e-12)
	require.Equal(t, 7.0, r.Apply(ChannelVisibility, 7))
}

func TestOperationNeutral(t *testing.T) {
	require.Equal(t, 0.0, OpAdd.Neutral())
	require.Equal(t, 1.0, OpMultiply.Neutral())
	require.False(t, Operation("pow").Valid())
}
