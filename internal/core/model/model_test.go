package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		d, err := ParseDate("2024-01-02")
		require.NoError(t, err)
		require.Equal(t, NewDate(2024, time.January, 2), d)
		require.Equal(t, "2024-01-02", d.String())
	})

	t.Run("Impossible calendar date", func(t *testing.T) {
		_, err := ParseDate("2024-02-30")
		require.Error(t, err)
	})

	t.Run("Wrong layout", func(t *testing.T) {
		_, err := ParseDate("02/01/2024")
		require.Error(t, err)
	})
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-15"}`), &payload))
	require.Equal(t, NewDate(2024, time.March, 15), payload.Date)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"date":"2024-03-15"}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"date":"15-03-2024"}`), &payload))
	require.Error(t, json.Unmarshal([]byte(`{"date":20240315}`), &payload))
}

func TestDateScan(t *testing.T) {
	testCases := []struct {
		name  string
		value interface{}
		want  Date
	}{
		{name: "string", value: "2024-01-02", want: NewDate(2024, time.January, 2)},
		{name: "bytes", value: []byte("2024-01-02"), want: NewDate(2024, time.January, 2)},
		{name: "datetime string", value: "2024-01-02 00:00:00+00:00", want: NewDate(2024, time.January, 2)},
		{name: "time", value: time.Date(2024, time.January, 2, 13, 4, 0, 0, time.Local), want: NewDate(2024, time.January, 2)},
		{name: "nil", value: nil, want: Date{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tc.value))
			require.Equal(t, tc.want, d)
		})
	}

	var d Date
	require.Error(t, d.Scan(42))

	v, err := NewDate(2023, time.December, 31).Value()
	require.NoError(t, err)
	require.Equal(t, "2023-12-31", v)
}

func TestUnitsAndMealTypes(t *testing.T) {
	for _, code := range []string{"gr", "kg", "ml", "lt", "unt", "cl", "tsp", "cp", "tbl"} {
		u, err := ParseUnit(code)
		require.NoError(t, err)
		require.True(t, u.Valid())
	}
	_, err := ParseUnit("oz")
	require.Error(t, err)
	require.Equal(t, "tablespoon", Tablespoon.DisplayName())

	require.True(t, Lunch.Valid())
	require.False(t, MealType("brunch").Valid())
	require.Equal(t, "Dinner", Dinner.DisplayName())
}

func TestUpsertResult(t *testing.T) {
	require.Equal(t, "created", Created.String())
	require.Equal(t, "updated", Updated.String())
	require.Equal(t, "unchanged", Unchanged.String())

	require.Equal(t, Created, Unchanged.Merge(Created))
	require.Equal(t, Updated, Updated.Merge(Unchanged))
	require.Equal(t, Unchanged, Unchanged.Merge(Unchanged))

	out, err := json.Marshal(map[string]UpsertResult{"result": Updated})
	require.NoError(t, err)
	require.JSONEq(t, `{"result":"updated"}`, string(out))
}
