package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wedding-rsvp/internal/models"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0470 12 34 56", "32470123456"},
		{"0470/12.34.56", "32470123456"},
		{"+32 470 12 34 56", "32470123456"},
		{"0032 470 12 34 56", "32470123456"},
		{"+32 (0)470 12 34 56", "32470123456"},
		{"+31 6 12345678", "31612345678"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhoneNumber(tt.in))
		})
	}
}

func TestFormatNotification(t *testing.T) {
	tests := []struct {
		name string
		rec  models.SubmissionRecord
		want string
	}{
		{
			name: "attending with extras",
			rec: models.SubmissionRecord{
				Name:       "Anna",
				Attendance: models.AttendanceYes,
				Event:      "Diner",
				Dietary:    "vegan",
				Songs:      []string{"Perfect - Ed Sheeran", "Shallow - Lady Gaga"},
			},
			want: "✅ *Anna* komt (diner)!\n🍽 vegan\n🎵 Perfect - Ed Sheeran, Shallow - Lady Gaga",
		},
		{
			name: "attending without dietary",
			rec: models.SubmissionRecord{
				Name:       "Bert",
				Attendance: models.AttendanceYes,
				Event:      "Feest",
				Dietary:    models.NoDietary,
				Songs:      []string{},
			},
			want: "✅ *Bert* komt (feest)!",
		},
		{
			name: "declined",
			rec: models.SubmissionRecord{
				Name:       "Cas",
				Attendance: models.AttendanceNo,
				Dietary:    models.NoDietary,
			},
			want: "❌ *Cas* kan er helaas niet bij zijn.",
		},
		{
			name: "test tier is marked",
			rec: models.SubmissionRecord{
				Name:       "Dirk",
				Attendance: models.AttendanceNo,
				Tier:       string(models.TierTest),
			},
			want: "❌ *Dirk* kan er helaas niet bij zijn.\n(test)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNotification(tt.rec))
		})
	}
}
