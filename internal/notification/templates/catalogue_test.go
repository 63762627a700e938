package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement/internal/notification/models"
)

func TestDefaultCatalogueCoversEveryType(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, typ := range []models.Type{
		models.TypeJobDriveBlocked, models.TypeJobDriveDeleted,
		models.TypeDriveBlockedRecruiter, models.TypeDriveDeletedRecruiter,
		models.TypeInterviewBlocked, models.TypeInterviewBlockedRecruiter,
		models.TypeCandidateRemoved, models.TypeCandidateRemovedRecruiter,
		models.TypeApplicationRemoved, models.TypeApplicationStatusUpdated,
		models.TypeAccountBlocked, models.TypeAccountUnblocked,
	} {
		assert.True(t, c.Has(typ), "missing template %s", typ)
	}
}

func TestRender(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	t.Run("fills placeholders and copies data into metadata", func(t *testing.T) {
		tmpl, err := c.Render(models.Message{
			Type:           models.TypeJobDriveBlocked,
			AffectedItemID: "D1",
			Data:           map[string]string{"company": "Acme", "position": "SDE-1", "reason": "budget cut"},
		})
		require.NoError(t, err)
		assert.Equal(t, models.TypeJobDriveBlocked, tmpl.Type)
		assert.Contains(t, tmpl.Message, "SDE-1 drive at Acme")
		assert.Contains(t, tmpl.Message, "budget cut")
		assert.Equal(t, models.PriorityHigh, tmpl.Priority)
		assert.Equal(t, "job_drive", tmpl.AffectedItemType)
		assert.Equal(t, "D1", tmpl.AffectedItemID)
		assert.Equal(t, "Acme", tmpl.Metadata["company"])
	})

	t.Run("recruiter and student templates differ", func(t *testing.T) {
		student, err := c.Render(models.Message{Type: models.TypeInterviewBlocked})
		require.NoError(t, err)
		recruiter, err := c.Render(models.Message{Type: models.TypeInterviewBlockedRecruiter})
		require.NoError(t, err)
		assert.NotEqual(t, student.Message, recruiter.Message)
	})

	t.Run("applicant count sentence only when the count is known", func(t *testing.T) {
		counted, err := c.Render(models.Message{
			Type: models.TypeDriveBlockedRecruiter,
			Data: map[string]string{"position": "SDE-1", "reason": "spam", "applicantCount": "0"},
		})
		require.NoError(t, err)
		assert.Contains(t, counted.Message, "0 applicant(s) were notified.")

		unknown, err := c.Render(models.Message{
			Type: models.TypeDriveBlockedRecruiter,
			Data: map[string]string{"position": "SDE-1", "reason": "spam"},
		})
		require.NoError(t, err)
		assert.NotContains(t, unknown.Message, "applicant(s)")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := c.Render(models.Message{Type: "nope"})
		assert.Error(t, err)
	})
}

func TestParseRejectsIncompleteEntries(t *testing.T) {
	_, err := Parse([]byte("x:\n  title: only a title\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("x:\n  title: t\n  message: m\n  priority: urgent\n"))
	assert.Error(t, err)
}
