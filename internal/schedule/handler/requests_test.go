package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement/internal/schedule/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

func TestCreateScheduleRequest(t *testing.T) {
	t.Run("parses date and trims rounds", func(t *testing.T) {
		req := &CreateScheduleRequest{
			DriveID: "D1",
			Date:    "2025-03-01",
			Time:    " 10:00 AM ",
			Venue:   "Hall B",
			Rounds:  []string{"technical", " ", "hr"},
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, id.DriveID("D1"), req.input.DriveID)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), req.input.Date)
		assert.Equal(t, "10:00 AM", req.input.Time)
		assert.Equal(t, []string{"technical", "hr"}, req.input.Rounds)
	})

	for name, req := range map[string]*CreateScheduleRequest{
		"missing drive": {Date: "2025-03-01", Time: "10:00", Venue: "Hall"},
		"bad date":      {DriveID: "D1", Date: "01/03/2025", Time: "10:00", Venue: "Hall"},
		"missing venue": {DriveID: "D1", Date: "2025-03-01", Time: "10:00"},
		"missing time":  {DriveID: "D1", Date: "2025-03-01", Venue: "Hall"},
	} {
		t.Run(name, func(t *testing.T) {
			err := req.Validate()
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
}

func TestAddCandidatesRequest(t *testing.T) {
	req := &AddCandidatesRequest{Candidates: []CandidateRequest{{StudentID: "stu-1"}, {StudentID: "stu-2", Email: "b@college.edu"}}}
	require.NoError(t, req.Validate())
	require.Len(t, req.inputs, 2)
	assert.Equal(t, "b@college.edu", req.inputs[1].Email)

	assert.Error(t, (&AddCandidatesRequest{}).Validate())
	assert.Error(t, (&AddCandidatesRequest{Candidates: []CandidateRequest{{StudentID: "stu-1", Email: "nope"}}}).Validate())
	assert.Error(t, (&AddCandidatesRequest{Candidates: []CandidateRequest{{StudentID: " "}}}).Validate())
}

func TestUpdateCandidateRequest(t *testing.T) {
	score := 75.0
	req := &UpdateCandidateRequest{Status: "attended", Score: &score}
	require.NoError(t, req.Validate())
	assert.Equal(t, models.CandidateAttended, req.update.Status)

	bad := 101.0
	assert.Error(t, (&UpdateCandidateRequest{Status: "passed", Score: &bad}).Validate())
	assert.Error(t, (&UpdateCandidateRequest{Status: "removed"}).Validate())
}
