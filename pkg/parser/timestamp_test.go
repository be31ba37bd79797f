package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/ccollicutt/chatstat/pkg/config"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(config.DefaultTimestampLayout)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "valid timestamp",
			input: "15/08/23, 14:30:05",
			want:  time.Date(2023, 8, 15, 14, 30, 5, 0, time.UTC),
		},
		{
			name:  "two digit year before 69 is 20xx",
			input: "01/01/00, 00:00:00",
			want:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day",
			input: "29/02/24, 23:59:59",
			want:  time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "impossible date and time",
			input:   "32/13/23, 99:99:99",
			wantErr: true,
		},
		{
			name:    "not a leap year",
			input:   "29/02/23, 10:00:00",
			wantErr: true,
		},
		{
			name:    "missing seconds",
			input:   "15/08/23, 14:30",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrParseFailure) {
					t.Errorf("Normalize() error = %v, want ErrParseFailure", err)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}
