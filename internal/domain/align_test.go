package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillNearest_AlreadyPopulatedUnchanged(t *testing.T) {
	times := []time.Time{hoursAfter(0), hoursAfter(1), hoursAfter(2)}
	values := []*float64{f64(1), f64(2), f64(3)}

	got := FillNearest(times, values)

	require.Len(t, got, 3)
	for i := range values {
		assert.Equal(t, *values[i], *got[i])
	}
}

func TestFillNearest_TiePrefersEarlier(t *testing.T) {
	times := []time.Time{hoursAfter(0), hoursAfter(1), hoursAfter(2)}
	got := FillNearest(times, []*float64{f64(1), nil, f64(3)})

	require.NotNil(t, got[1])
	assert.Equal(t, 1.0, *got[1])
}

func TestFillNearest_CloserNeighbourWins(t *testing.T) {
	times := []time.Time{hoursAfter(0), hoursAfter(2), hoursAfter(3)}
	got := FillNearest(times, []*float64{f64(1), nil, f64(3)})

	require.NotNil(t, got[1])
	assert.Equal(t, 3.0, *got[1])
}

func TestFillNearest_OneSidedAndEmpty(t *testing.T) {
	times := []time.Time{hoursAfter(0), hoursAfter(1), hoursAfter(2)}

	leading := FillNearest(times, []*float64{nil, nil, f64(5)})
	for _, v := range leading {
		require.NotNil(t, v)
		assert.Equal(t, 5.0, *v)
	}

	trailing := FillNearest(times, []*float64{f64(4), nil, nil})
	assert.Equal(t, 4.0, *trailing[2])

	none := FillNearest(times, []*float64{nil, nil, nil})
	for _, v := range none {
		assert.Nil(t, v)
	}

	assert.Empty(t, FillNearest(nil, nil))
}

func TestAlign_LengthAndStartsMatchAnchor(t *testing.T) {
	props := GridpointProperties{
		SnowfallAmount: Series{Values: hourlySamples(baseTime, 6, constant(1.0))},
		// Temperature on a coarser 3h grid offset from the anchor.
		Temperature: Series{Values: []RawSample{
			{ValidTime: hoursAfter(1).Format(time.RFC3339) + "/PT3H", Value: -2.0},
			{ValidTime: hoursAfter(4).Format(time.RFC3339) + "/PT3H", Value: 1.0},
		}},
		WindGust: Series{Values: hourlySamples(baseTime, 2, constant(30.0))},
	}

	grid := Align(props)

	require.Len(t, grid.Anchor, 6)
	for _, series := range [][]*float64{grid.Snow, grid.Precip, grid.Probability, grid.Temperature, grid.Wind, grid.Gust, grid.Cloud} {
		assert.Len(t, series, 6)
	}
	for i, iv := range grid.Anchor {
		assert.True(t, hoursAfter(i).Equal(iv.Start))
	}

	// Index 2 is closer to hour 1, index 3 closer to hour 4.
	assert.Equal(t, -2.0, *grid.Temperature[0])
	assert.Equal(t, -2.0, *grid.Temperature[2])
	assert.Equal(t, 1.0, *grid.Temperature[3])
	assert.Equal(t, 1.0, *grid.Temperature[4])
	assert.Equal(t, 1.0, *grid.Temperature[5])
	assert.Equal(t, 30.0, *grid.Gust[5])
	assert.Nil(t, grid.Wind[0])
	assert.Nil(t, grid.Precip[0], "no precipitation samples to fill from")
}

func TestAlign_AnchorPriority(t *testing.T) {
	temp := hourlySamples(baseTime, 4, constant(0.0))
	prob := hourlySamples(baseTime, 3, constant(10.0))

	t.Run("temperature when no snowfall", func(t *testing.T) {
		grid := Align(GridpointProperties{Temperature: Series{Values: temp}, ProbabilityOfPrecipitation: Series{Values: prob}})
		assert.Len(t, grid.Anchor, 4)
	})

	t.Run("probability when no snowfall or temperature", func(t *testing.T) {
		grid := Align(GridpointProperties{ProbabilityOfPrecipitation: Series{Values: prob}})
		assert.Len(t, grid.Anchor, 3)
	})

	t.Run("empty anchor", func(t *testing.T) {
		grid := Align(GridpointProperties{WindSpeed: Series{Values: temp}})
		assert.Empty(t, grid.Anchor)
		assert.Empty(t, grid.Temperature)
	})
}

func TestAlign_MalformedSampleExcluded(t *testing.T) {
	snow := hourlySamples(baseTime, 3, constant(1.0))
	snow[1].ValidTime = "garbage/PT1H"
	temp := hourlySamples(baseTime, 3, func(i int) any { return float64(i) })
	temp[2].ValidTime = "also garbage"

	grid := Align(GridpointProperties{SnowfallAmount: Series{Values: snow}, Temperature: Series{Values: temp}})

	assert.Equal(t, 2, grid.SkippedSamples)
	require.Len(t, grid.Anchor, 2)
	assert.True(t, hoursAfter(2).Equal(grid.Anchor[1].Start))
	assert.Equal(t, 0.0, *grid.Temperature[0])
	assert.Equal(t, 0.0, *grid.Temperature[1], "hour 2 filled from the previous anchor window")
}

func TestAlign_PrecipNearestFilledOnCoarserGrid(t *testing.T) {
	props := GridpointProperties{
		SnowfallAmount: Series{Values: hourlySamples(baseTime, 6, constant(0.0))},
		QuantitativePrecipitation: Series{Values: []RawSample{
			{ValidTime: hoursAfter(0).Format(time.RFC3339) + "/PT3H", Value: 7.62},
			{ValidTime: hoursAfter(3).Format(time.RFC3339) + "/PT3H", Value: 0.0},
		}},
		ProbabilityOfPrecipitation: Series{Values: hourlySamples(baseTime, 6, constant(80.0))},
	}

	grid := Align(props)

	require.Len(t, grid.Precip, 6)
	for i, want := range []float64{7.62, 7.62, 0, 0, 0, 0} {
		require.NotNil(t, grid.Precip[i], "index %d", i)
		assert.Equal(t, want, *grid.Precip[i], "index %d", i)
	}

	build := BuildForecast(GridpointResponse{Properties: props}, DefaultThresholds())
	assert.Equal(t, PrecipRain, build.Points[1].PrecipitationType)
	assert.Equal(t, AlertRain, build.Points[1].Alert)
}

func TestAlign_OffsetGridWithoutSharedStartsStaysEmpty(t *testing.T) {
	offset := make([]RawSample, 6)
	for i := range offset {
		offset[i] = RawSample{ValidTime: hoursAfter(i).Add(30*time.Minute).Format(time.RFC3339) + "/PT1H", Value: 7.62}
	}
	grid := Align(GridpointProperties{
		SnowfallAmount:            Series{Values: hourlySamples(baseTime, 6, constant(0.0))},
		QuantitativePrecipitation: Series{Values: offset},
	})

	require.Len(t, grid.Precip, 6)
	for _, v := range grid.Precip {
		assert.Nil(t, v, "only exact anchor starts seed the fill")
	}
}

func TestAlign_AnchorValuesNotFilled(t *testing.T) {
	snow := hourlySamples(baseTime, 3, constant(5.0))
	snow[1].Value = nil

	grid := Align(GridpointProperties{SnowfallAmount: Series{Values: snow}})

	require.Len(t, grid.Snow, 3)
	assert.Nil(t, grid.Snow[1])
	assert.Equal(t, 5.0, *grid.Snow[2])
}
