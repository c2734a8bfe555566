package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskward/internal/domain/lifecycle"
)

func TestFixedDate(t *testing.T) {
	t.Parallel()

	t.Run("pins to noon UTC on the same calendar date", func(t *testing.T) {
		t.Parallel()

		in := time.Date(2025, 3, 15, 23, 45, 12, 0, time.UTC)
		got := lifecycle.FixedDate(in)

		assert.Equal(t, time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), got)
	})

	t.Run("keeps the local calendar date for non-UTC input", func(t *testing.T) {
		t.Parallel()

		// 23:30 on March 15 in UTC-5 is 04:30 March 16 UTC; the local
		// calendar date must win.
		loc := time.FixedZone("UTC-5", -5*60*60)
		in := time.Date(2025, 3, 15, 23, 30, 0, 0, loc)
		got := lifecycle.FixedDate(in)

		assert.Equal(t, time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		in := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
		once := lifecycle.FixedDate(in)

		assert.Equal(t, once, lifecycle.FixedDate(once))
	})
}

func TestParseFixedDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "bare date",
			input: "2025-06-01",
			want:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 timestamp",
			input: "2025-06-01T18:30:00Z",
			want:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 with offset keeps local date",
			input: "2025-06-01T23:30:00-05:00",
			want:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := lifecycle.ParseFixedDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsBeforeToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{
			name: "yesterday",
			t:    lifecycle.FixedDate(now.AddDate(0, 0, -1)),
			want: true,
		},
		{
			name: "today is not before today",
			t:    lifecycle.FixedDate(now),
			want: false,
		},
		{
			name: "tomorrow",
			t:    lifecycle.FixedDate(now.AddDate(0, 0, 1)),
			want: false,
		},
		{
			name: "late yesterday evening still counts as yesterday",
			t:    time.Date(2025, 6, 9, 23, 59, 59, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, lifecycle.IsBeforeToday(tt.t, now))
		})
	}
}

func TestDateOnlyAgreesWithFixedDateComparison(t *testing.T) {
	t.Parallel()

	// A noon-UTC fixed deadline on day D sorts before midnight-UTC of day
	// D+1 and after midnight-UTC of day D, so the SQL predicate
	// deadline < boundary matches IsBeforeToday exactly.
	now := time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC)
	boundary := lifecycle.DateOnly(now)

	yesterday := lifecycle.FixedDate(now.AddDate(0, 0, -1))
	today := lifecycle.FixedDate(now)

	assert.True(t, yesterday.Before(boundary))
	assert.False(t, today.Before(boundary))
}
