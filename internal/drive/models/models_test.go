package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

func validFields() Fields {
	return Fields{
		CompanyName: "Acme",
		Position:    "SDE-1",
		Salary:      "12 LPA",
		Location:    "Bengaluru",
		DriveDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Deadline:    time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewDrive(t *testing.T) {
	now := time.Now()

	t.Run("defaults to active and visible", func(t *testing.T) {
		d, err := NewDrive("D1", "rec-1", validFields(), now)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, d.Status)
		assert.True(t, d.IsVisible())
		assert.True(t, d.AcceptsApplications())
	})

	t.Run("required fields", func(t *testing.T) {
		for name, mutate := range map[string]func(*Fields){
			"company":  func(f *Fields) { f.CompanyName = "" },
			"position": func(f *Fields) { f.Position = "" },
			"salary":   func(f *Fields) { f.Salary = "" },
			"location": func(f *Fields) { f.Location = "" },
			"date":     func(f *Fields) { f.DriveDate = time.Time{} },
			"deadline": func(f *Fields) { f.Deadline = time.Time{} },
			"order":    func(f *Fields) { f.Deadline = f.DriveDate.Add(24 * time.Hour) },
		} {
			t.Run(name, func(t *testing.T) {
				f := validFields()
				mutate(&f)
				_, err := NewDrive("D1", "rec-1", f, now)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
			})
		}
	})
}

func TestModerationIsMonotonic(t *testing.T) {
	now := time.Now()
	first := id.ModerationRecord{AdminID: "adm-1", Reason: "budget cut", At: now}
	second := id.ModerationRecord{AdminID: "adm-2", Reason: "again", At: now.Add(time.Hour)}

	t.Run("second block keeps the first record", func(t *testing.T) {
		d, err := NewDrive("D1", "rec-1", validFields(), now)
		require.NoError(t, err)

		assert.True(t, d.ApplyBlock(first))
		assert.False(t, d.ApplyBlock(second))
		assert.Equal(t, "budget cut", d.BlockedBy.Reason)
		assert.Equal(t, StatusBlocked, d.Status)
		assert.False(t, d.IsVisible())
	})

	t.Run("delete after block is a no-op", func(t *testing.T) {
		d, err := NewDrive("D2", "rec-1", validFields(), now)
		require.NoError(t, err)

		d.ApplyBlock(first)
		assert.False(t, d.ApplyDelete(second))
		assert.False(t, d.IsDeleted)
		assert.Nil(t, d.DeletedBy)
	})

	t.Run("moderated drives cannot be edited", func(t *testing.T) {
		d, err := NewDrive("D3", "rec-1", validFields(), now)
		require.NoError(t, err)

		d.ApplyDelete(first)
		assert.Error(t, d.CanEdit())
		assert.False(t, d.AcceptsApplications())
	})
}
