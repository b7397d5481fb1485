package invoice

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := NewDate(1965, time.July, 22)

	tests := []struct {
		name  string
		input string
		want  Date
		ok    bool
	}{
		{name: "german", input: "22.07.1965", want: want, ok: true},
		{name: "iso", input: "1965-07-22", want: want, ok: true},
		{name: "slashes", input: "22/07/1965", want: want, ok: true},
		{name: "invalid day", input: "31.02.1965", ok: false},
		{name: "free text", input: "am 22. Juli 1965", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, got.Equal(tt.want.Time), "got %v", got)
			}
		})
	}
}

func TestParseDate_AllFormatsAgree(t *testing.T) {
	a, ok := ParseDate("22.07.1965")
	require.True(t, ok)
	b, ok := ParseDate("1965-07-22")
	require.True(t, ok)
	c, ok := ParseDate("22/07/1965")
	require.True(t, ok)

	assert.True(t, a.Equal(b.Time))
	assert.True(t, b.Equal(c.Time))
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"22.07.1965"`), &d))
	assert.Equal(t, 1965, d.Year())

	// Unparseable strings become zero, never an error.
	require.NoError(t, json.Unmarshal([]byte(`"31.02.1965"`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	// Wrong JSON type is also absence, not failure.
	require.NoError(t, json.Unmarshal([]byte(`42`), &d))
	assert.True(t, d.IsZero())
}

func TestDate_MarshalJSON(t *testing.T) {
	d := NewDate(2025, time.March, 7)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"07.03.2025"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDate_InRange(t *testing.T) {
	d := NewDate(1999, time.December, 31)
	assert.True(t, d.InRange(1900, 2100))
	assert.False(t, d.InRange(2000, 2100))
}
