package repository

import (
	"testing"

	apperrors "sawari/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestAllocateSeat(t *testing.T) {
	tests := []struct {
		name       string
		totalSeats int
		occupied   []int
		requested  int
		wantSeat   int
		wantErr    error
	}{
		{
			name:       "auto assigns lowest free seat",
			totalSeats: 4,
			occupied:   []int{1, 2},
			requested:  seatAuto,
			wantSeat:   3,
		},
		{
			name:       "auto on empty bus gives seat one",
			totalSeats: 40,
			requested:  seatAuto,
			wantSeat:   1,
		},
		{
			name:       "auto fills gap before tail",
			totalSeats: 5,
			occupied:   []int{1, 3, 4},
			requested:  seatAuto,
			wantSeat:   2,
		},
		{
			name:       "auto on full bus",
			totalSeats: 3,
			occupied:   []int{1, 2, 3},
			requested:  seatAuto,
			wantErr:    apperrors.ErrNoCapacity,
		},
		{
			name:       "specific free seat",
			totalSeats: 10,
			occupied:   []int{1},
			requested:  7,
			wantSeat:   7,
		},
		{
			name:       "specific occupied seat",
			totalSeats: 10,
			occupied:   []int{7},
			requested:  7,
			wantErr:    apperrors.ErrSeatUnavailable,
		},
		{
			name:       "seat beyond capacity",
			totalSeats: 10,
			requested:  11,
			wantErr:    apperrors.ErrSeatUnavailable,
		},
		{
			name:       "negative seat",
			totalSeats: 10,
			requested:  -1,
			wantErr:    apperrors.ErrSeatUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occupied := make(map[int]bool, len(tt.occupied))
			for _, s := range tt.occupied {
				occupied[s] = true
			}

			seat, err := allocateSeat(tt.totalSeats, occupied, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantSeat, seat)
		})
	}
}

func TestGenerateTicketNo(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		no := generateTicketNo()
		assert.Len(t, no, 11)
		assert.Equal(t, byte('T'), no[0])
		assert.False(t, seen[no], "duplicate ticket number %s", no)
		seen[no] = true
	}
}
