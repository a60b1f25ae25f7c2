package report

import (
	"testing"
	"healthplanet-notify/internal/scrapers/healthplanet"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func m(date string, tag healthplanet.Tag, keydata string) healthplanet.Measurement {
	return healthplanet.Measurement{Date: date, Tag: tag, Keydata: keydata}
}

func TestGroupedSingle(t *testing.T) {
	out := Grouped([]healthplanet.Measurement{
		m("2020-01-01", healthplanet.TagWeight, "70.0"),
	})
	require.Equal(t, "日時: 2020-01-01\n体重: 70.0", out.String())
}

func TestWeightOnlySingle(t *testing.T) {
	out := WeightOnly([]healthplanet.Measurement{
		m("2020-01-01", healthplanet.TagWeight, "70.0"),
	})
	require.Equal(t, "日時:2020-01-01 体重: 70.0", out.String())
}

func TestGroupedOrdering(t *testing.T) {
	input := []healthplanet.Measurement{
		m("202001020700", healthplanet.TagFatPercentage, "21.0"),
		m("202001010700", healthplanet.TagFatPercentage, "20.0"),
		m("202001020700", healthplanet.TagWeight, "70.5"),
		m("202001010700", healthplanet.TagWeight, "70.0"),
		m("202001010700", healthplanet.TagMuscleMass, "50.0"),
		m("202001010700", healthplanet.TagWeight, "69.9"),
		m("202001010700", healthplanet.TagFatPercentage, "19.9"),
	}

	expected := []string{
		"日時: 202001010700",
		"体重: 70.0",
		"体重: 69.9",
		"体脂肪率: 20.0",
		"体脂肪率: 19.9",
		"日時: 202001020700",
		"体重: 70.5",
		"体脂肪率: 21.0",
	}
	if diff := cmp.Diff(expected, Grouped(input).Lines); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}

	// the input is not reordered
	require.Equal(t, "202001020700", input[0].Date)
}

func TestGroupedDateWithoutKnownTags(t *testing.T) {
	out := Grouped([]healthplanet.Measurement{
		m("202001010700", healthplanet.TagBodyAge, "30"),
	})
	require.Equal(t, []string{"日時: 202001010700"}, out.Lines)
}

func TestWeightOnlyKeepsInputOrder(t *testing.T) {
	input := []healthplanet.Measurement{
		m("202001020700", healthplanet.TagWeight, "70.5"),
		m("202001010700", healthplanet.TagFatPercentage, "20.0"),
		m("202001010700", healthplanet.TagWeight, "70.0"),
	}
	expected := []string{
		"日時:202001020700 体重: 70.5",
		"日時:202001010700 体重: 70.0",
	}
	if diff := cmp.Diff(expected, WeightOnly(input).Lines); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestEmpty(t *testing.T) {
	require.True(t, Grouped(nil).Empty())
	require.True(t, WeightOnly(nil).Empty())
	require.Equal(t, "", Format(VariantGrouped, nil).String())
}

func TestParseVariant(t *testing.T) {
	table := []struct {
		input    string
		expected Variant
		fails    bool
	}{
		{input: "", expected: VariantGrouped},
		{input: "grouped", expected: VariantGrouped},
		{input: " Weight ", expected: VariantWeight},
		{input: "fat", fails: true},
	}
	for _, row := range table {
		variant, err := ParseVariant(row.input)
		if row.fails {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, row.expected, variant)
	}
}

func TestFormatDispatch(t *testing.T) {
	input := []healthplanet.Measurement{m("2020-01-01", healthplanet.TagWeight, "70.0")}
	require.Equal(t, Grouped(input), Format(VariantGrouped, input))
	require.Equal(t, WeightOnly(input), Format(VariantWeight, input))
}
