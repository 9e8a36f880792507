package blogservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArchiveRange(t *testing.T) {
	testCases := []struct {
		name             string
		year, month, day int
		from, to         time.Time
		expectedErr      error
	}{
		{
			name: "full year",
			year: 2016,
			from: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "month",
			year:  2016,
			month: 2,
			from:  time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "december rolls into next year",
			year:  2016,
			month: 12,
			from:  time.Date(2016, 12, 1, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "single day",
			year:  2016,
			month: 2,
			day:   29,
			from:  time.Date(2016, 2, 29, 0, 0, 0, 0, time.UTC),
			to:    time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "day without month",
			year:        2016,
			day:         5,
			expectedErr: ErrInvalidArchiveDate,
		},
		{
			name:        "month out of range",
			year:        2016,
			month:       13,
			expectedErr: ErrInvalidArchiveDate,
		},
		{
			name:        "nonexistent day",
			year:        2015,
			month:       2,
			day:         29,
			expectedErr: ErrInvalidArchiveDate,
		},
		{
			name:        "zero year",
			year:        0,
			expectedErr: ErrInvalidArchiveDate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			from, to, err := ArchiveRange(tc.year, tc.month, tc.day)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.Equal(t, tc.from, from)
				assert.Equal(t, tc.to, to)
			}
		})
	}
}
